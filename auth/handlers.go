package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/yoruwear-api/apperrors"
	"github.com/sirupsen/logrus"
)

// Keys the auth middleware stores on the gin context.
const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

// UserID returns the authenticated user's id, if the request carried a valid token.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

type authResponse struct {
	Message string      `json:"message"`
	User    interface{} `json:"user"`
	Tokens  TokenPair   `json:"tokens"`
}

// POST /api/auth/register
func RegisterHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		user, tokens, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			respondAuthError(c, svc.log, err, "Registration failed")
			return
		}
		c.JSON(http.StatusOK, authResponse{Message: "User registered successfully", User: user, Tokens: tokens})
	}
}

// POST /api/auth/login
func LoginHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}
		user, tokens, err := svc.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			respondAuthError(c, svc.log, err, "Login failed")
			return
		}
		c.JSON(http.StatusOK, authResponse{Message: "Login successful", User: user, Tokens: tokens})
	}
}

// POST /api/auth/refresh
func RefreshHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			RefreshToken string `json:"refreshToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
			return
		}
		tokens, err := svc.Refresh(c.Request.Context(), in.RefreshToken)
		if err != nil {
			if errors.Is(err, ErrInvalidRefreshToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			svc.log.WithError(err).Error("token refresh failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Token refreshed successfully", "tokens": tokens})
	}
}

// GET /api/auth/me
func MeHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}
		user, err := svc.Me(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			svc.log.WithError(err).Error("load current user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// PUT /api/auth/profile
func UpdateProfileHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}
		var in ProfileInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := svc.UpdateProfile(c.Request.Context(), userID, in)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			svc.log.WithError(err).Error("profile update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// POST /api/auth/logout
func LogoutHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}
		if err := svc.Logout(c.Request.Context(), userID); err != nil {
			svc.log.WithError(err).Error("logout failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

func respondAuthError(c *gin.Context, log *logrus.Logger, err error, fallback string) {
	if v, ok := apperrors.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": v.Message})
		return
	}
	if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.WithError(err).Error(fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
