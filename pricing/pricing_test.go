package pricing

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, money(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.StringFixed(2)}, msgAndArgs...)...)
}

func sampleCart() []Line {
	return []Line{
		{UnitPrice: money("30.00"), Quantity: 2},
		{UnitPrice: money("20.00"), Quantity: 1},
	}
}

func TestQuoteNoDiscount(t *testing.T) {
	s := Quote(Input{Lines: sampleCart()})

	assertMoney(t, "80.00", s.Subtotal)
	assertMoney(t, "0", s.Discount)
	assertMoney(t, "80.00", s.Total)
	assertMoney(t, "13.88", s.VAT)
	assertMoney(t, "21", s.VATPercentage)
	assert.Equal(t, 3, s.ItemCount)
	assert.False(t, s.CouponApplied)
}

func TestQuoteFirstTimeBuyer(t *testing.T) {
	s := Quote(Input{Lines: sampleCart(), FirstTimeBuyer: true})

	assertMoney(t, "8.00", s.Discount)
	assertMoney(t, "72.00", s.Total)
}

func TestQuoteCouponBeatsFirstTimeBuyer(t *testing.T) {
	s := Quote(Input{Lines: sampleCart(), FirstTimeBuyer: true, CouponCode: "save20"})

	assertMoney(t, "16.00", s.Discount)
	assertMoney(t, "64.00", s.Total)
	assert.True(t, s.CouponApplied)
	assert.Equal(t, "SAVE20", s.CouponCode)
}

func TestQuoteWelcomeIsCapped(t *testing.T) {
	big := []Line{{UnitPrice: money("250.00"), Quantity: 2}}

	s := Quote(Input{Lines: big, CouponCode: "WELCOME"})
	assertMoney(t, "50.00", s.Discount)
	assertMoney(t, "450.00", s.Total)

	// 10% of 1000 beats the capped coupon.
	bigger := []Line{{UnitPrice: money("500.00"), Quantity: 2}}
	s = Quote(Input{Lines: bigger, CouponCode: "WELCOME", FirstTimeBuyer: true})
	assertMoney(t, "100.00", s.Discount)
}

func TestQuoteUnknownCoupon(t *testing.T) {
	s := Quote(Input{Lines: sampleCart(), CouponCode: "free-stuff"})

	assert.False(t, s.CouponApplied)
	assert.Equal(t, "FREE-STUFF", s.CouponCode)
	assertMoney(t, "80.00", s.Total)
}

func TestQuoteEmptyCart(t *testing.T) {
	s := Quote(Input{FirstTimeBuyer: true, CouponCode: "SAVE20"})

	assertMoney(t, "0", s.Subtotal)
	assertMoney(t, "0", s.Total)
	assertMoney(t, "0", s.Discount)
	assert.Zero(t, s.ItemCount)
}

func TestQuoteIgnoresInvalidLines(t *testing.T) {
	lines := append(sampleCart(),
		Line{UnitPrice: money("99.00"), Quantity: 0},
		Line{UnitPrice: money("-5.00"), Quantity: 1},
	)
	s := Quote(Input{Lines: lines})
	assertMoney(t, "80.00", s.Subtotal)
}

func TestQuoteCustomVATRate(t *testing.T) {
	rate := decimal.NewFromInt(9)
	s := Quote(Input{Lines: []Line{{UnitPrice: money("109.00"), Quantity: 1}}, VATRate: &rate})
	assertMoney(t, "9.00", s.VAT)
	assertMoney(t, "109.00", s.Total)
}

func TestQuoteZeroVATRate(t *testing.T) {
	s := Quote(Input{Lines: []Line{{UnitPrice: money("121.00"), Quantity: 1}}, VATRate: &decimal.Zero})
	assertMoney(t, "0.00", s.VAT)
	assertMoney(t, "0", s.VATPercentage)
	assertMoney(t, "121.00", s.Total)
}

func TestQuoteDefaultVATRate(t *testing.T) {
	s := Quote(Input{Lines: []Line{{UnitPrice: money("121.00"), Quantity: 1}}})
	assertMoney(t, "21.00", s.VAT)
	assertMoney(t, "21", s.VATPercentage)
}

func TestQuoteProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	codes := []string{"", "SAVE10", "SAVE20", "WELCOME", "BOGUS"}

	for i := 0; i < 500; i++ {
		var lines []Line
		for n := rng.Intn(6); n > 0; n-- {
			lines = append(lines, Line{
				UnitPrice: decimal.New(int64(rng.Intn(50000)), -2),
				Quantity:  1 + rng.Intn(5),
			})
		}
		first := rng.Intn(2) == 1
		code := codes[rng.Intn(len(codes))]

		s := Quote(Input{Lines: lines, FirstTimeBuyer: first, CouponCode: code})

		assert.False(t, s.Total.IsNegative())
		assert.True(t, s.Total.LessThanOrEqual(s.Subtotal))
		assert.True(t, s.Discount.LessThanOrEqual(s.Subtotal))

		baseline := decimal.Zero
		if first {
			baseline = s.Subtotal.Mul(decimal.NewFromInt(10)).Div(hundred)
		}
		coupon := decimal.Zero
		if c, ok := LookupCoupon(code); ok {
			coupon = c.Discount(s.Subtotal)
		}
		want := decimal.Max(baseline, coupon).Round(2)
		assert.True(t, want.Equal(s.Discount), "discount is the max, not the sum: want %s got %s", want, s.Discount)
		assert.True(t, s.Subtotal.Sub(s.Discount).Equal(s.Total))
	}
}
