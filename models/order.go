package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // Accepted; new checkouts start here
	OrderStatusCompleted OrderStatus = "completed" // Delivered to the customer
	OrderStatusCancelled OrderStatus = "cancelled" // Terminal
)

var (
	ErrUnknownStatus     = errors.New("invalid order status")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: nil,
	OrderStatusCancelled: nil,
}

// ParseOrderStatus maps user input onto a known status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := orderTransitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// CanTransitionTo reports whether an administrator may move an order from s to next.
// Re-applying the current status is allowed and changes nothing.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Order is an immutable snapshot of a checkout. Only Status changes afterwards.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderNumber string          `gorm:"size:64;uniqueIndex;not null" json:"orderNumber"`
	UserID      *uint           `gorm:"index" json:"userId,omitempty"`
	User        *User           `json:"-"`
	Contact     Contact         `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`
	Address     Address         `gorm:"embedded" json:"address"`
	Delivery    Delivery        `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery"`
	Payment     Payment         `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status      OrderStatus     `gorm:"size:50;not null;default:'pending'" json:"status"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Contact struct {
	Name  string `gorm:"size:255;not null" json:"fullName"`
	Email string `gorm:"size:255;not null" json:"email"`
	Phone string `gorm:"size:50;not null" json:"phone"`
}

type Address struct {
	StreetAddress string `gorm:"size:255;not null" json:"streetAddress"`
	City          string `gorm:"size:100;not null" json:"city"`
	PostalCode    string `gorm:"size:20;not null" json:"postalCode"`
	Country       string `gorm:"size:100" json:"country"`
}

type Delivery struct {
	Method string          `gorm:"size:50;not null" json:"method"`
	Cost   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost"`
}

type Payment struct {
	Method string `gorm:"size:50;not null" json:"method"`
}

// OrderItem freezes name and unit price at checkout time.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index;not null" json:"-"`
	ProductID   *uint           `gorm:"index" json:"productId"`
	Product     *Product        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ProductName string          `gorm:"size:255" json:"name"`
	Size        string          `gorm:"size:20" json:"size,omitempty"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}
