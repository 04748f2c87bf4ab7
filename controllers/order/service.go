package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/yoruwear-api/apperrors"
	"github.com/junaidrashid-git/yoruwear-api/metrics"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// -------- Request Structs --------

type ContactInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type AddressInput struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
}

type DeliveryInput struct {
	Method string          `json:"method"`
	Cost   decimal.Decimal `json:"cost"`
}

type PaymentInput struct {
	Method string `json:"method"`
}

// ItemInput is one cart line as the storefront submits it. ID is the product id.
type ItemInput struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"size,omitempty"`
}

// PlaceOrderRequest is the checkout snapshot. Subtotal is the cart total after
// discounts; DeliveryCost duplicates Delivery.Cost for older clients.
type PlaceOrderRequest struct {
	Contact      ContactInput    `json:"contact"`
	Address      AddressInput    `json:"address"`
	Delivery     DeliveryInput   `json:"delivery"`
	Payment      PaymentInput    `json:"payment"`
	Items        []ItemInput     `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryCost decimal.Decimal `json:"deliveryCost"`
	Total        decimal.Decimal `json:"total"`
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Validate checks everything that must hold before anything is written.
func (r *PlaceOrderRequest) Validate() error {
	if blank(r.Contact.FullName) || blank(r.Contact.Email) || blank(r.Contact.Phone) {
		return apperrors.Validation("Contact information is required")
	}
	if blank(r.Address.StreetAddress) || blank(r.Address.City) || blank(r.Address.PostalCode) {
		return apperrors.Validation("Delivery address is required")
	}
	if blank(r.Delivery.Method) || blank(r.Payment.Method) {
		return apperrors.Validation("Delivery and payment methods are required")
	}
	if len(r.Items) == 0 {
		return apperrors.Validation("Order must contain at least one item")
	}
	for i, item := range r.Items {
		if item.ID == 0 {
			return apperrors.Validation("Item %d has no product id", i+1)
		}
		if item.Quantity < 1 {
			return apperrors.Validation("Item %d must have a quantity of at least 1", i+1)
		}
		if item.Price.IsNegative() {
			return apperrors.Validation("Item %d has a negative price", i+1)
		}
	}
	if r.Subtotal.IsNegative() || r.deliveryCost().IsNegative() {
		return apperrors.Validation("Order amounts must not be negative")
	}
	return nil
}

func (r *PlaceOrderRequest) deliveryCost() decimal.Decimal {
	if r.Delivery.Cost.IsZero() {
		return r.DeliveryCost
	}
	return r.Delivery.Cost
}

// -------- Service --------

// Publisher receives order lifecycle events.
type Publisher interface {
	Publish(Event)
}

// CacheInvalidator drops cached catalog responses.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Options toggles optional order side effects.
type Options struct {
	// DecrementStock reserves stock inside the order transaction.
	DecrementStock bool
	// StockCache is invalidated after a committed order changed stock.
	StockCache CacheInvalidator
}

const maxOrderNumberAttempts = 3

var totalTolerance = decimal.RequireFromString("0.01")

type Service struct {
	store Store
	feed  Publisher
	opts  Options
	log   *logrus.Logger
	now   func() time.Time
}

func NewService(store Store, feed Publisher, opts Options, log *logrus.Logger) *Service {
	return &Service{store: store, feed: feed, opts: opts, log: log, now: time.Now}
}

// generateOrderNumber builds the customer-facing reference, e.g. ORD20250908130500-1A2B3C4D.
func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD" + now.UTC().Format("20060102150405") + "-" + suffix
}

// PlaceOrder validates and stores a checkout. userID is nil for guests.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest, userID *uint) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	deliveryCost := req.deliveryCost().Round(2)
	subtotal := req.Subtotal.Round(2)
	total := subtotal.Add(deliveryCost)
	if !req.Total.IsZero() && req.Total.Sub(total).Abs().GreaterThan(totalTolerance) {
		s.log.WithFields(logrus.Fields{
			"client_total": req.Total.String(),
			"total":        total.String(),
		}).Warn("client total does not match subtotal plus delivery; using computed total")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, in := range req.Items {
		productID := in.ID
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = "Product #" + strconv.FormatUint(uint64(in.ID), 10)
		}
		items = append(items, models.OrderItem{
			ProductID:   &productID,
			ProductName: name,
			Size:        in.Size,
			Quantity:    in.Quantity,
			Price:       in.Price.Round(2),
		})
	}

	order := &models.Order{
		UserID: userID,
		Contact: models.Contact{
			Name:  strings.TrimSpace(req.Contact.FullName),
			Email: strings.TrimSpace(req.Contact.Email),
			Phone: strings.TrimSpace(req.Contact.Phone),
		},
		Address: models.Address{
			StreetAddress: strings.TrimSpace(req.Address.StreetAddress),
			City:          strings.TrimSpace(req.Address.City),
			PostalCode:    strings.TrimSpace(req.Address.PostalCode),
			Country:       strings.TrimSpace(req.Address.Country),
		},
		Delivery: models.Delivery{Method: req.Delivery.Method, Cost: deliveryCost},
		Payment:  models.Payment{Method: req.Payment.Method},
		Subtotal: subtotal,
		Total:    total,
		Status:   models.OrderStatusConfirmed,
		Items:    items,
	}

	opts := CreateOptions{
		DecrementStock:       s.opts.DecrementStock,
		ConsumeFirstPurchase: userID != nil,
	}

	var err error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order.OrderNumber = generateOrderNumber(s.now())
		err = s.store.Create(ctx, order, opts)
		if !errors.Is(err, ErrDuplicateOrderNumber) {
			break
		}
		order.ID = 0
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderID = 0
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if opts.DecrementStock && s.opts.StockCache != nil {
		if err := s.opts.StockCache.Invalidate(ctx); err != nil {
			s.log.WithError(err).Warn("invalidate catalog cache after stock change")
		}
	}

	s.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"items":        len(order.Items),
		"total":        order.Total.String(),
		"guest":        userID == nil,
	}).Info("order placed")
	metrics.RecordOrderPlaced(order.Payment.Method, order.Total)
	s.publish(Event{Type: EventOrderCreated, Order: order})
	return order, nil
}

// Get looks an order up by numeric id or by order number.
func (s *Service) Get(ctx context.Context, ref string) (*models.Order, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrOrderNotFound
	}
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return s.store.ByID(ctx, uint(id))
	}
	return s.store.ByNumber(ctx, ref)
}

func (s *Service) UserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.store.ByUser(ctx, userID)
}

func (s *Service) All(ctx context.Context) ([]models.Order, error) {
	return s.store.All(ctx)
}

// UpdateStatus applies an admin status change subject to the transition table.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	order, prev, err := s.store.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}
	if prev != next {
		s.log.WithFields(logrus.Fields{
			"order_id": id,
			"from":     prev,
			"to":       next,
		}).Info("order status changed")
		metrics.RecordStatusChange(string(prev), string(next))
		s.publish(Event{Type: EventOrderStatus, Order: order, PreviousStatus: prev})
	}
	return order, nil
}

func (s *Service) publish(ev Event) {
	if s.feed != nil {
		s.feed.Publish(ev)
	}
}
