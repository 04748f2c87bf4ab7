package adminController

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/yoruwear-api/controllers/order"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OrderRow is the flat order shape the admin order table works with.
type OrderRow struct {
	ID             uint               `json:"id"`
	OrderNumber    string             `json:"orderNumber"`
	UserID         *uint              `json:"userId"`
	UserName       string             `json:"userName,omitempty"`
	UserEmail      string             `json:"userEmail,omitempty"`
	ContactName    string             `json:"contactName"`
	ContactEmail   string             `json:"contactEmail"`
	ContactPhone   string             `json:"contactPhone"`
	Status         models.OrderStatus `json:"status"`
	Total          decimal.Decimal    `json:"total"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DeliveryCost   decimal.Decimal    `json:"deliveryCost"`
	StreetAddress  string             `json:"streetAddress"`
	City           string             `json:"city"`
	PostalCode     string             `json:"postalCode"`
	Country        string             `json:"country"`
	PaymentMethod  string             `json:"paymentMethod"`
	DeliveryMethod string             `json:"deliveryMethod"`
	ItemCount      int                `json:"itemCount"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

func toRow(o models.Order) OrderRow {
	row := OrderRow{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		ContactName:    o.Contact.Name,
		ContactEmail:   o.Contact.Email,
		ContactPhone:   o.Contact.Phone,
		Status:         o.Status,
		Total:          o.Total,
		Subtotal:       o.Subtotal,
		DeliveryCost:   o.Delivery.Cost,
		StreetAddress:  o.Address.StreetAddress,
		City:           o.Address.City,
		PostalCode:     o.Address.PostalCode,
		Country:        o.Address.Country,
		PaymentMethod:  o.Payment.Method,
		DeliveryMethod: o.Delivery.Method,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	for _, it := range o.Items {
		row.ItemCount += it.Quantity
	}
	if o.User != nil {
		row.UserName = o.User.Name
		row.UserEmail = o.User.Email
	}
	return row
}

// GET /api/admin/orders
func ListOrdersHandler(orders *orderControllers.Service, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := orders.All(c.Request.Context())
		if err != nil {
			log.WithError(err).Error("list orders failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch orders"})
			return
		}
		rows := make([]OrderRow, 0, len(all))
		for _, o := range all {
			rows = append(rows, toRow(o))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
	}
}
