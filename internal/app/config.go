package app

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	StorePath       string        `default:"storefront.json" usage:"Path to the file-backed session store" flag:"store-path"`
	DatabaseURL     string        `usage:"PostgreSQL connection URL for the durable store (optional)" flag:"database-url"`
	CatalogPath     string        `default:"" usage:"Products JSON file to seed the catalog from" flag:"catalog-path"`
	NotificationTTL time.Duration `default:"3s" usage:"How long notifications stay visible" flag:"notification-ttl"`
	PersistDelay    time.Duration `default:"100ms" usage:"Quiet period before cart/coupon changes are flushed to the store" flag:"persist-delay"`
	SearchDelay     time.Duration `default:"300ms" usage:"Quiet period for debounced catalog search" flag:"search-delay"`
}

// LoadConfig loads configuration from environment variables, flags, and
// YAML config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}
