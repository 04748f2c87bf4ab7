package orderControllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/yoruwear-api/apperrors"
	"github.com/junaidrashid-git/yoruwear-api/auth"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/sirupsen/logrus"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UserLookup loads a user by id.
type UserLookup interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
}

// -------- Handlers --------

// Place order (guest or signed in)
func PlaceOrderHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
			return
		}

		var userID *uint
		if id, ok := auth.UserID(c); ok {
			userID = &id
		}

		order, err := svc.PlaceOrder(c.Request.Context(), req, userID)
		if err != nil {
			if v, ok := apperrors.AsValidation(err); ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": v.Message})
				return
			}
			svc.log.WithError(err).Error("place order failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process order"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
	}
}

// Get single order by order number, or by numeric id for its owner and admins.
// Ids are sequential, so a stranger gets the same 404 as for a missing order.
func GetOrderHandler(svc *Service, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("orderID")
		numeric := isOrderID(ref)
		caller, signedIn := auth.UserID(c)
		if numeric && !signedIn {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		order, err := svc.Get(c.Request.Context(), ref)
		if err == nil && numeric && !ownsOrder(c.Request.Context(), users, caller, order) {
			err = ErrOrderNotFound
		}
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			svc.log.WithError(err).Error("load order failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// isOrderID reports whether ref is a numeric id rather than an order number.
func isOrderID(ref string) bool {
	_, err := strconv.ParseUint(strings.TrimSpace(ref), 10, 64)
	return err == nil
}

func ownsOrder(ctx context.Context, users UserLookup, caller uint, order *models.Order) bool {
	if order.UserID != nil && *order.UserID == caller {
		return true
	}
	u, err := users.ByID(ctx, caller)
	return err == nil && u.IsAdmin
}

// Orders of one user; callers may only read their own unless they are admins.
func GetUserOrdersHandler(svc *Service, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("userID"), 10, 64)
		if err != nil || userID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		caller, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}
		if caller != uint(userID) {
			u, err := users.ByID(c.Request.Context(), caller)
			if err != nil || !u.IsAdmin {
				c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own orders"})
				return
			}
		}

		orders, err := svc.UserOrders(c.Request.Context(), uint(userID))
		if err != nil {
			svc.log.WithError(err).WithField("user_id", userID).Error("load user orders failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// Update order status (admin)
func UpdateOrderStatusHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil || orderID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), uint(orderID), req.Status)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
		case errors.Is(err, models.ErrUnknownStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, models.ErrIllegalTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			svc.log.WithError(err).WithFields(logrus.Fields{"order_id": orderID}).Error("update order status failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
	}
}
