package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/larapida/go-webnode/internal/backend"
	"github.com/larapida/go-webnode/internal/domain"
	"github.com/larapida/go-webnode/internal/service"
	"github.com/larapida/go-webnode/pkg/middleware"
)

// Handlers aggregates the api-service HTTP handlers
type Handlers struct {
	auth    *service.AuthService
	store   backend.Backend
	limiter *middleware.AuthRateLimiter
	logger  *zap.Logger
}

// NewHandlers creates a new Handlers instance. limiter may be nil.
func NewHandlers(auth *service.AuthService, store backend.Backend, limiter *middleware.AuthRateLimiter, logger *zap.Logger) *Handlers {
	return &Handlers{
		auth:    auth,
		store:   store,
		limiter: limiter,
		logger:  logger.Named("handlers"),
	}
}

// StatusResponse is the response from the /status endpoint.
type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Storage string `json:"storage"`
}

// Status handles the /status endpoint
func (h *Handlers) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := StatusResponse{Status: "ok", Service: "api-service", Storage: "ok"}
	code := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Storage ping failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Storage = "unavailable"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// RegisterRoutes mounts /status, /auth/login and /auth/me.
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	r.GET("/status", h.Status)

	auth := r.Group("/auth")

	login := []gin.HandlerFunc{h.Login}
	if h.limiter != nil {
		login = append([]gin.HandlerFunc{middleware.AuthRateLimitMiddleware(h.limiter)}, login...)
	}
	auth.POST("/login", login...)
	auth.GET("/me", h.requireSecret, middleware.BearerAuth(h.auth, h.logger), h.Me)
}

// Login handles POST /auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBind(&req); err != nil || req.Email == "" || req.Password == "" {
		RespondError(c, NewHTTPError(http.StatusBadRequest, "Email and password are required"))
		return
	}

	token, _, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			RespondError(c, NewHTTPError(http.StatusUnauthorized, "Invalid credentials"))
		case errors.Is(err, service.ErrMissingSecret):
			RespondError(c, errInternal)
		default:
			RespondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, domain.LoginResponse{Token: token})
}

// Me handles GET /auth/me and echoes the verified token claims.
func (h *Handlers) Me(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		RespondError(c, NewHTTPError(http.StatusUnauthorized, "Invalid token"))
		return
	}
	c.JSON(http.StatusOK, claims)
}

func (h *Handlers) requireSecret(c *gin.Context) {
	if !h.auth.HasSecret() {
		h.logger.Error("JWT secret not configured")
		RespondError(c, errInternal)
		return
	}
	c.Next()
}
