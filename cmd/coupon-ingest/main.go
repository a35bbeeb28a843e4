// Command coupon-ingest bulk-loads coupon codes from gzip-compressed
// code lists into the storefront's persisted coupon set. A code is
// accepted only when it appears in at least two of the input files;
// bloom filters keep the cross-check memory-bounded.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/minimart/storefront/internal/domain/coupon"
	"github.com/minimart/storefront/internal/session"
	"github.com/minimart/storefront/internal/storage/kv"
	"github.com/minimart/storefront/internal/storage/postgres"
)

const (
	bloomCapacity = 120_000_000
	bloomFPR      = 0.001
	numFiles      = 3
	progressEvery = 10_000_000
	minCodeLen    = 8
	maxCodeLen    = 10
)

// codeRule describes the coupon to register for a known code.
type codeRule struct {
	kind  coupon.DiscountType
	value string
	name  string
}

var codeRules = map[string]codeRule{
	"FIFTYOFF": {kind: coupon.DiscountPercentage, value: "50", name: "50% off entire order"},
	"SIXTYOFF": {kind: coupon.DiscountPercentage, value: "60", name: "60% off entire order"},
	"GNULINUX": {kind: coupon.DiscountPercentage, value: "15", name: "Open source discount: 15% off"},
	"HAPPYHRS": {kind: coupon.DiscountPercentage, value: "18", name: "Happy Hours: 18% off"},
	"OVER9000": {kind: coupon.DiscountAmount, value: "9000", name: "9000 off your order"},
	"BIRTHDAY": {kind: coupon.DiscountAmount, value: "3000", name: "Birthday: 3000 off"},
}

var defaultRule = codeRule{
	kind:  coupon.DiscountPercentage,
	value: "10",
	name:  "Valid promo code: 10% off",
}

// fileResult holds candidate codes found in a single file during pass 2.
type fileResult struct {
	candidates map[string]uint
}

func main() {
	var (
		dataDir     string
		storePath   string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing couponbaseN.gz files")
	flag.StringVar(&storePath, "store-path", "storefront.json", "path to the file-backed session store")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, storePath, databaseURL); err != nil {
		slog.Error("coupon ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("coupon ingest completed successfully")
}

func run(ctx context.Context, dataDir, storePath, databaseURL string) error {
	files := make([]string, numFiles)
	for i := 0; i < numFiles; i++ {
		files[i] = filepath.Join(dataDir, fmt.Sprintf("couponbase%d.gz", i+1))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Pass 1: Build bloom filters concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("files", numFiles))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: Find candidate codes appearing in 2+ files.
	slog.Info("pass 2: finding candidate codes")

	validCodes, err := findValidCodes(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "find valid codes")
	}

	slog.Info("valid codes found", slog.Int("count", len(validCodes)))

	if len(validCodes) == 0 {
		slog.Info("no valid codes to register")
		return nil
	}

	store, closeStore, err := openStore(ctx, storePath, databaseURL)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer closeStore()

	if err := writeCoupons(store, validCodes); err != nil {
		return errors.Wrap(err, "write coupons to store")
	}

	return nil
}

// openStore returns the PostgreSQL-backed store when a database URL is
// given, the file-backed store otherwise.
func openStore(ctx context.Context, storePath, databaseURL string) (kv.Store, func(), error) {
	if databaseURL != "" {
		slog.Info("connecting to database")
		pool, err := postgres.NewPool(ctx, databaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect to database")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "run migrations")
		}
		return postgres.NewKVStore(ctx, pool), pool.Close, nil
	}

	store, err := kv.OpenFile(storePath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

// buildBloomFilters creates one bloom filter per file, concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(code string) {
			if len(code) >= minCodeLen && len(code) <= maxCodeLen {
				filter.AddString(code)
				count++
				if count%progressEvery == 0 {
					slog.Info("pass 1 progress",
						slog.Int("file", idx+1),
						slog.Uint64("codes", count),
					)
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for file %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_codes", count),
		)

		filters[idx] = filter
		return nil
	}
}

// findValidCodes re-streams each file and checks codes against OTHER files' bloom filters.
// A code is valid if it appears in 2 or more files.
func findValidCodes(ctx context.Context, files []string, filters []*bloom.BloomFilter) ([]string, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(findCandidatesInFile(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge bitmasks from all files.
	merged := make(map[string]uint)
	for _, r := range results {
		for code, mask := range r.candidates {
			merged[code] |= mask
		}
	}

	// Keep codes appearing in 2+ files.
	var valid []string
	for code, mask := range merged {
		if bits.OnesCount(mask) >= 2 {
			valid = append(valid, code)
		}
	}

	return valid, nil
}

func findCandidatesInFile(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []fileResult,
) func() error {
	return func() error {
		candidates := make(map[string]uint)
		fileBit := uint(1) << uint(idx)
		var count uint64

		if err := streamGzFile(ctx, path, func(code string) {
			if len(code) < minCodeLen || len(code) > maxCodeLen {
				return
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("file", idx+1),
					slog.Uint64("codes", count),
				)
			}

			// Check if this code appears in any OTHER file's bloom filter.
			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(code) {
					candidates[code] |= fileBit
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan file %d for candidates", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_codes", count),
			slog.Int("candidates", len(candidates)),
		)

		results[idx] = fileResult{candidates: candidates}
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(code string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// writeCoupons merges all valid codes into the persisted coupon set,
// keeping existing coupons and skipping codes already registered.
func writeCoupons(store kv.Store, codes []string) error {
	sess := session.New(store, zap.NewNop())
	registry := coupon.NewRegistry(sess.LoadCoupons()...)

	slog.Info("registering coupons", slog.Int("count", len(codes)))

	added := 0
	for _, code := range codes {
		rule, ok := codeRules[code]
		if !ok {
			rule = defaultRule
		}

		value, err := decimal.NewFromString(rule.value)
		if err != nil {
			return errors.Wrapf(err, "parse decimal value for code %s", code)
		}

		if err := registry.Add(coupon.Coupon{
			Name:  rule.name,
			Code:  code,
			Type:  rule.kind,
			Value: value,
		}); err != nil {
			if errors.Is(err, coupon.ErrDuplicateCode) {
				continue
			}
			return errors.Wrapf(err, "register coupon %s", code)
		}
		added++
	}

	if err := sess.SaveCoupons(registry.List()); err != nil {
		return errors.Wrap(err, "save coupons")
	}

	slog.Info("coupons registered", slog.Int("added", added), slog.Int("total", len(registry.List())))
	return nil
}
