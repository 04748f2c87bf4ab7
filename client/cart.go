package client

import (
	"encoding/json"
	"fmt"

	"github.com/junaidrashid-git/yoruwear-api/cart"
	orderControllers "github.com/junaidrashid-git/yoruwear-api/controllers/order"
	"github.com/shopspring/decimal"
)

// CartStore persists the cart document under KeyCart.
type CartStore struct {
	storage Storage
}

func NewCartStore(s Storage) *CartStore {
	return &CartStore{storage: s}
}

func (s *CartStore) SaveCart(doc cart.Cart) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.storage.Set(KeyCart, string(data))
}

// LoadCart returns the saved cart. A missing or unreadable document yields an
// empty cart.
func (s *CartStore) LoadCart() cart.Cart {
	raw, err := s.storage.Get(KeyCart)
	if err != nil || raw == "" {
		return cart.Cart{}
	}
	var doc cart.Cart
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return cart.Cart{}
	}
	return doc
}

// OpenCart restores the persisted cart and keeps it in sync with storage. The
// same store is returned on later calls.
func (c *Client) OpenCart(vatRate decimal.Decimal) *cart.Store {
	c.cartMu.Lock()
	defer c.cartMu.Unlock()
	if c.cart == nil {
		persist := NewCartStore(c.store)
		c.cart = cart.NewStore(persist.LoadCart(), vatRate, persist)
	}
	return c.cart
}

// Checkout details collected on the checkout page.
type Checkout struct {
	Contact  orderControllers.ContactInput
	Address  orderControllers.AddressInput
	Delivery orderControllers.DeliveryInput
	Payment  orderControllers.PaymentInput
}

// OrderRequest turns a cart into a checkout payload. Subtotal is the cart
// total after discounts.
func OrderRequest(store *cart.Store, details Checkout) (orderControllers.PlaceOrderRequest, error) {
	doc := store.Snapshot()
	if len(doc.Items) == 0 {
		return orderControllers.PlaceOrderRequest{}, fmt.Errorf("cart is empty")
	}
	summary := store.Summary()

	items := make([]orderControllers.ItemInput, 0, len(doc.Items))
	for _, it := range doc.Items {
		items = append(items, orderControllers.ItemInput{
			ID:       it.ProductID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Size:     it.Size,
		})
	}
	return orderControllers.PlaceOrderRequest{
		Contact:      details.Contact,
		Address:      details.Address,
		Delivery:     details.Delivery,
		Payment:      details.Payment,
		Items:        items,
		Subtotal:     summary.Total,
		DeliveryCost: details.Delivery.Cost,
		Total:        summary.Total.Add(details.Delivery.Cost),
	}, nil
}
