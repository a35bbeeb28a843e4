package coupon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(code string) Coupon {
	return Coupon{
		Name:  code,
		Code:  code,
		Type:  DiscountAmount,
		Value: decimal.NewFromInt(1000),
	}
}

func TestNewRegistry_DropsDuplicates(t *testing.T) {
	r := NewRegistry(sample("A"), sample("B"), sample("A"))
	assert.Len(t, r.List(), 2)
}

func TestRegistry_Add(t *testing.T) {
	r := NewRegistry(Defaults()...)

	require.NoError(t, r.Add(sample("EXTRA")))
	err := r.Add(sample("EXTRA"))
	require.ErrorIs(t, err, ErrDuplicateCode)

	err = r.Add(sample("WELCOME5000"))
	require.ErrorIs(t, err, ErrDuplicateCode)
	assert.Len(t, r.List(), 3)
}

func TestRegistry_FindByCode(t *testing.T) {
	r := NewRegistry(Defaults()...)

	got, ok := r.FindByCode("SAVE10")
	require.True(t, ok)
	assert.Equal(t, DiscountPercentage, got.Type)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Value))

	// Codes are matched exactly.
	_, ok = r.FindByCode("save10")
	assert.False(t, ok)
	_, ok = r.FindByCode("MISSING")
	assert.False(t, ok)
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry(Defaults()...)

	assert.True(t, r.Delete("WELCOME5000"))
	_, ok := r.FindByCode("WELCOME5000")
	assert.False(t, ok)
	assert.Len(t, r.List(), 1)

	assert.False(t, r.Delete("WELCOME5000"))
}

func TestDefaults(t *testing.T) {
	defaults := Defaults()
	require.Len(t, defaults, 2)

	assert.Equal(t, "WELCOME5000", defaults[0].Code)
	assert.Equal(t, DiscountAmount, defaults[0].Type)
	assert.True(t, decimal.NewFromInt(5000).Equal(defaults[0].Value))

	assert.Equal(t, "SAVE10", defaults[1].Code)
	assert.Equal(t, DiscountPercentage, defaults[1].Type)
}
