package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

func TestResolvePercentageDiscount(t *testing.T) {
	t.Parallel()

	got := Resolve(ProductInput{
		Price:              types.MoneyFromInt(1000),
		DiscountPercentage: types.MoneyFromInt(20),
		IsDiscounted:       true,
	})

	assert.True(t, got.IsDiscounted)
	assert.True(t, got.DiscountedPrice.Equal(decimal.NewFromInt(800)), "got %s", got.DiscountedPrice)
	assert.True(t, got.DiscountPercentage.Equal(decimal.NewFromInt(20)))
}

func TestResolveRoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	got := Resolve(ProductInput{
		Price:              types.MoneyFromFloat(19.99),
		DiscountPercentage: types.MoneyFromInt(15),
		IsDiscounted:       true,
	})

	// 19.99 - 19.99*0.15 = 16.9915 -> 16.99
	assert.Equal(t, "16.99", got.DiscountedPrice.StringFixed(2))
}

func TestResolveNoDiscountFields(t *testing.T) {
	t.Parallel()

	got := Resolve(ProductInput{Price: types.MoneyFromInt(250)})

	assert.False(t, got.IsDiscounted)
	assert.True(t, got.DiscountedPrice.Equal(decimal.NewFromInt(250)))
	assert.True(t, got.DiscountPercentage.IsZero())
}

func TestResolveFlagWithoutPercentageIsNotDiscounted(t *testing.T) {
	t.Parallel()

	got := Resolve(ProductInput{
		Price:        types.MoneyFromInt(100),
		IsDiscounted: true,
	})

	assert.False(t, got.IsDiscounted)
	assert.True(t, got.DiscountedPrice.Equal(decimal.NewFromInt(100)))
}

func TestResolveExplicitDiscountedPriceWins(t *testing.T) {
	t.Parallel()

	got := Resolve(ProductInput{
		Price:              types.MoneyFromInt(1000),
		DiscountPercentage: types.MoneyFromInt(50),
		DiscountedPrice:    types.MoneyFromInt(900),
		IsDiscounted:       true,
	})

	assert.True(t, got.IsDiscounted)
	assert.True(t, got.DiscountedPrice.Equal(decimal.NewFromInt(900)))
}

func TestResolveBackDerivesPercentage(t *testing.T) {
	t.Parallel()

	// Server sent a discounted price without a percentage.
	got := Resolve(ProductInput{
		Price:           types.MoneyFromInt(200),
		DiscountedPrice: types.MoneyFromInt(150),
	})

	assert.True(t, got.IsDiscounted)
	assert.Equal(t, "25.00", got.DiscountPercentage.StringFixed(2))
}

func TestResolveLegacyShape(t *testing.T) {
	t.Parallel()

	// Legacy rows: price already holds the discounted value, originalPrice
	// the pre-discount one.
	got := Resolve(ProductInput{
		Price:         types.MoneyFromInt(80),
		OriginalPrice: types.MoneyFromInt(100),
		IsDiscounted:  true,
	})

	assert.True(t, got.IsDiscounted)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.DiscountedPrice.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, "20.00", got.DiscountPercentage.StringFixed(2))
}

func TestResolveFreeProductNeverDiscounted(t *testing.T) {
	t.Parallel()

	got := Resolve(ProductInput{
		Price:              types.MoneyFromInt(0),
		DiscountPercentage: types.MoneyFromInt(50),
		IsDiscounted:       true,
	})

	assert.False(t, got.IsDiscounted)
	assert.True(t, got.DiscountedPrice.IsZero())
	assert.True(t, got.DiscountPercentage.IsZero())
}

func TestResolveCoercesStringsAndGarbage(t *testing.T) {
	t.Parallel()

	var in ProductInput
	payload := `{"price": "1000", "discountPercentage": "20", "isDiscounted": true}`
	require.NoError(t, json.Unmarshal([]byte(payload), &in))

	got := Resolve(in)
	assert.True(t, got.IsDiscounted)
	assert.True(t, got.DiscountedPrice.Equal(decimal.NewFromInt(800)))

	var bad ProductInput
	require.NoError(t, json.Unmarshal([]byte(`{"price": "oops"}`), &bad))
	got = Resolve(bad)
	assert.False(t, got.IsDiscounted)
	assert.True(t, got.Price.IsZero())
	assert.True(t, got.DiscountedPrice.IsZero())
}

func TestResolveDeterministic(t *testing.T) {
	t.Parallel()

	in := ProductInput{
		Price:              types.MoneyFromFloat(149.9),
		DiscountPercentage: types.MoneyFromInt(33),
		IsDiscounted:       true,
	}
	first := Resolve(in)
	second := Resolve(in)
	assert.Equal(t, first, second)
}
