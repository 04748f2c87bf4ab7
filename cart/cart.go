// Package cart holds the shopper's cart between page views. It is client state:
// nothing here touches the database until the cart is turned into an order.
package cart

import (
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/junaidrashid-git/yoruwear-api/pricing"
	"github.com/shopspring/decimal"
)

const DefaultSize = "M"

// Item is one cart line. Price is a snapshot taken when the product was added.
type Item struct {
	ID         int64           `json:"id"`
	ProductID  uint            `json:"productId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Size       string          `json:"size"`
	CategoryID uint            `json:"categoryId,omitempty"`
	MaxStock   int             `json:"maxStock"`
}

// Cart is the document persisted under the "cart" storage key.
type Cart struct {
	Items                  []Item `json:"items"`
	CouponCode             string `json:"couponCode"`
	FirstTimeBuyerDiscount bool   `json:"firstTimeBuyerDiscount"`
}

func clamp(qty, max int) int {
	if qty > max {
		qty = max
	}
	if qty < 1 {
		qty = 1
	}
	return qty
}

func (c *Cart) nextID() int64 {
	var id int64
	for _, it := range c.Items {
		if it.ID > id {
			id = it.ID
		}
	}
	return id + 1
}

func (c *Cart) find(itemID int64) int {
	for i, it := range c.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// Add puts qty units of p in the given size into the cart, merging with an
// existing line for the same product and size. Quantities are clamped to
// [1, stock]. Out of stock products are refused.
func (c *Cart) Add(p models.Product, qty int, size string) (Item, bool) {
	if p.Stock < 1 {
		return Item{}, false
	}
	if size == "" {
		size = DefaultSize
	}

	for i, it := range c.Items {
		if it.ProductID == p.ID && it.Size == size {
			c.Items[i].Quantity = clamp(it.Quantity+qty, it.MaxStock)
			return c.Items[i], true
		}
	}

	item := Item{
		ID:        c.nextID(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  clamp(qty, p.Stock),
		Size:      size,
		MaxStock:  p.Stock,
	}
	if p.CategoryID != nil {
		item.CategoryID = *p.CategoryID
	}
	c.Items = append(c.Items, item)
	return item, true
}

// SetQuantity sets a line's quantity, capped at its stock. Zero or less removes
// the line. It reports whether the line was found.
func (c *Cart) SetQuantity(itemID int64, qty int) bool {
	i := c.find(itemID)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	c.Items[i].Quantity = clamp(qty, c.Items[i].MaxStock)
	return true
}

// Decrement removes one unit; taking away the last unit drops the line.
func (c *Cart) Decrement(itemID int64) bool {
	i := c.find(itemID)
	if i < 0 {
		return false
	}
	return c.SetQuantity(itemID, c.Items[i].Quantity-1)
}

func (c *Cart) Remove(itemID int64) bool {
	return c.SetQuantity(itemID, 0)
}

// ApplyCoupon stores the normalized code when it is a known coupon.
func (c *Cart) ApplyCoupon(code string) bool {
	coupon, ok := pricing.LookupCoupon(code)
	if !ok {
		return false
	}
	c.CouponCode = coupon.Code
	return true
}

func (c *Cart) RemoveCoupon() {
	c.CouponCode = ""
}

func (c *Cart) Clear() {
	c.Items = nil
	c.CouponCode = ""
	c.FirstTimeBuyerDiscount = false
}

func (c *Cart) Lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, pricing.Line{UnitPrice: it.Price, Quantity: it.Quantity})
	}
	return lines
}

func (c *Cart) Summary(vatRate decimal.Decimal) pricing.Summary {
	return pricing.Quote(pricing.Input{
		Lines:          c.Lines(),
		VATRate:        &vatRate,
		CouponCode:     c.CouponCode,
		FirstTimeBuyer: c.FirstTimeBuyerDiscount,
	})
}

// Clone returns a deep copy safe to hand to other goroutines.
func (c Cart) Clone() Cart {
	out := c
	out.Items = append([]Item(nil), c.Items...)
	return out
}
