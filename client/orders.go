package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	orderControllers "github.com/junaidrashid-git/yoruwear-api/controllers/order"
	"github.com/junaidrashid-git/yoruwear-api/models"
)

// PlaceOrder submits a checkout. On success the cart opened with OpenCart, if
// any, is emptied.
func (c *Client) PlaceOrder(ctx context.Context, req orderControllers.PlaceOrderRequest) (*models.Order, error) {
	var resp struct {
		Message string        `json:"message"`
		Order   *models.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &resp); err != nil {
		return nil, err
	}

	c.cartMu.Lock()
	store := c.cart
	c.cartMu.Unlock()
	if store != nil {
		if err := store.Clear(); err != nil {
			c.log.WithError(err).Warn("clear cart after order")
		}
	}
	return resp.Order, nil
}

// Order looks an order up by numeric id or order number.
func (c *Client) Order(ctx context.Context, ref string) (*models.Order, error) {
	var o models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(ref), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) UserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	path := "/api/orders/user/" + strconv.FormatUint(uint64(userID), 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
