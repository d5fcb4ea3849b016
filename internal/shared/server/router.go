package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medgateway-backend/internal/history"
	"medgateway-backend/internal/predictions"
	"medgateway-backend/internal/products"
	"medgateway-backend/internal/shared/config"
	"medgateway-backend/internal/shared/server/middleware"
	"medgateway-backend/internal/shared/server/respond"
	"medgateway-backend/internal/users"
	"medgateway-backend/internal/verification"
)

// Handlers carries the per-domain HTTP handlers the router mounts.
type Handlers struct {
	Users        *users.Handler
	Verification *verification.Handler
	Products     *products.Handler
	History      *history.Handler
	Predictions  *predictions.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, respond.MessageBody{
			Message: "Welcome to MED-Gateway Backend Service",
		})
	})

	// Public routes: account creation, login, and the emailed
	// verification link.
	api := r.Group("/api")
	h.Users.RegisterRoutes(api)
	h.Verification.RegisterRoutes(api)

	// Authenticated routes; verification is not required so fresh
	// accounts can read their own profile.
	authed := api.Group("", middleware.Authenticated())
	h.Users.RegisterProtectedRoutes(authed)

	// Product and history routes require a verified account.
	verified := authed.Group("", middleware.Verified())
	h.Products.RegisterRoutes(verified)
	h.Predictions.RegisterRoutes(verified)
	h.History.RegisterRoutes(verified)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
