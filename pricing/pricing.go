// Package pricing computes cart totals for VAT inclusive prices.
//
// Prices already contain VAT, so the VAT figure is extracted from the subtotal for
// display and never added on top. The first-time buyer discount and coupon
// discounts do not stack: the larger of the two wins.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultVATRate is the Dutch standard rate, in percent.
var DefaultVATRate = decimal.NewFromInt(21)

const moneyPlaces int32 = 2

var (
	hundred            = decimal.NewFromInt(100)
	firstPurchasePct   = decimal.NewFromInt(10)
	welcomeDiscountCap = decimal.NewFromInt(50)
)

// Coupon is a percentage discount, optionally capped at an absolute amount.
type Coupon struct {
	Code    string
	Percent decimal.Decimal
	Cap     decimal.Decimal // zero means uncapped
}

var coupons = map[string]Coupon{
	"SAVE10":  {Code: "SAVE10", Percent: decimal.NewFromInt(10)},
	"SAVE20":  {Code: "SAVE20", Percent: decimal.NewFromInt(20)},
	"WELCOME": {Code: "WELCOME", Percent: decimal.NewFromInt(15), Cap: welcomeDiscountCap},
}

// LookupCoupon matches codes case-insensitively.
func LookupCoupon(code string) (Coupon, bool) {
	c, ok := coupons[NormalizeCode(code)]
	return c, ok
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount returns the amount this coupon takes off subtotal.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	d := percentOf(subtotal, c.Percent)
	if c.Cap.IsPositive() && d.GreaterThan(c.Cap) {
		d = c.Cap
	}
	return d
}

type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Input struct {
	Lines          []Line
	VATRate        *decimal.Decimal // percent; nil means DefaultVATRate, zero means no VAT
	CouponCode     string
	FirstTimeBuyer bool
}

type Summary struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	VAT           decimal.Decimal `json:"vat"`
	VATPercentage decimal.Decimal `json:"vatPercentage"`
	Discount      decimal.Decimal `json:"discount"`
	CouponCode    string          `json:"couponCode,omitempty"`
	CouponApplied bool            `json:"couponApplied"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"itemCount"`
}

// Quote is a pure function of its input. Lines with a quantity below one or a
// negative price contribute nothing.
func Quote(in Input) Summary {
	rate := DefaultVATRate
	if in.VATRate != nil {
		rate = *in.VATRate
	}

	subtotal := decimal.Zero
	count := 0
	for _, l := range in.Lines {
		if l.Quantity < 1 || l.UnitPrice.IsNegative() {
			continue
		}
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}

	discount := decimal.Zero
	if in.FirstTimeBuyer {
		discount = percentOf(subtotal, firstPurchasePct)
	}

	s := Summary{VATPercentage: rate, ItemCount: count}
	if c, ok := LookupCoupon(in.CouponCode); ok {
		discount = decimal.Max(discount, c.Discount(subtotal))
		s.CouponCode = c.Code
		s.CouponApplied = true
	} else if code := NormalizeCode(in.CouponCode); code != "" {
		s.CouponCode = code
	}

	discount = discount.Round(moneyPlaces)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	s.Subtotal = subtotal.Round(moneyPlaces)
	s.VAT = subtotal.Mul(rate).Div(hundred.Add(rate)).Round(moneyPlaces)
	s.Discount = discount
	s.Total = decimal.Max(decimal.Zero, subtotal.Sub(discount)).Round(moneyPlaces)
	return s
}

func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}
