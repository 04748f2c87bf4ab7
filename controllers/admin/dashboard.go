package adminController

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Statistics struct {
	TotalOrders   int64           `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalProducts int64           `json:"totalProducts"`
	TotalUsers    int64           `json:"totalUsers"`
}

type RecentOrder struct {
	ID          uint               `json:"id"`
	OrderNumber string             `json:"orderNumber"`
	UserName    string             `json:"userName"`
	Total       decimal.Decimal    `json:"total"`
	Status      models.OrderStatus `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type TopProduct struct {
	ProductID   *uint  `json:"productId"`
	ProductName string `json:"productName"`
	TotalSold   int64  `json:"totalSold"`
}

type Dashboard struct {
	Statistics   Statistics    `json:"statistics"`
	RecentOrders []RecentOrder `json:"recentOrders"`
	TopProducts  []TopProduct  `json:"topProducts"`
}

const dashboardListSize = 5

// Reports runs the aggregate queries behind the admin dashboard.
type Reports struct {
	db *gorm.DB
}

func NewReports(db *gorm.DB) *Reports {
	return &Reports{db: db}
}

func (r *Reports) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := r.db.WithContext(ctx)
	var d Dashboard

	if err := db.Model(&models.Order{}).Count(&d.Statistics.TotalOrders).Error; err != nil {
		return nil, err
	}
	var revenue decimal.Decimal
	if err := db.Model(&models.Order{}).Select("COALESCE(SUM(total), 0)").Row().Scan(&revenue); err != nil {
		return nil, err
	}
	d.Statistics.TotalRevenue = revenue.Round(2)
	if err := db.Model(&models.Product{}).Count(&d.Statistics.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&d.Statistics.TotalUsers).Error; err != nil {
		return nil, err
	}

	if err := db.Table("orders").
		Select("orders.id, orders.order_number, COALESCE(users.name, orders.contact_name) AS user_name, orders.total, orders.status, orders.created_at").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Limit(dashboardListSize).
		Scan(&d.RecentOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Table("order_items").
		Select("product_id, MAX(product_name) AS product_name, SUM(quantity) AS total_sold").
		Group("product_id").
		Order("total_sold DESC").
		Limit(dashboardListSize).
		Scan(&d.TopProducts).Error; err != nil {
		return nil, err
	}

	if d.RecentOrders == nil {
		d.RecentOrders = []RecentOrder{}
	}
	if d.TopProducts == nil {
		d.TopProducts = []TopProduct{}
	}
	return &d, nil
}

// GET /api/admin/dashboard
func DashboardHandler(reports *Reports, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := reports.Dashboard(c.Request.Context())
		if err != nil {
			log.WithError(err).Error("load dashboard failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch dashboard data"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"statistics":   d.Statistics,
			"recentOrders": d.RecentOrders,
			"topProducts":  d.TopProducts,
		})
	}
}
