package history

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"medgateway-backend/internal/products"
	"medgateway-backend/internal/shared/server/middleware"
	"medgateway-backend/internal/shared/server/respond"
)

// Handler serves the per-product usage history of the calling user.
type Handler struct {
	Svc      *Service
	Products *products.Service
}

func NewHandler(svc *Service, productSvc *products.Service) *Handler {
	return &Handler{Svc: svc, Products: productSvc}
}

// RegisterRoutes attaches history routes to the router group. Callers must
// already be authenticated and verified.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history/:productId", h.get)
}

type entriesResponse struct {
	Entries []Entry `json:"entries"`
}

func (h *Handler) get(c *gin.Context) {
	productID := c.Param("productId")
	userID := middleware.UserIDFromContext(c)

	if err := h.Products.ValidateID(productID); err != nil {
		respond.Error(c, http.StatusBadRequest,
			"Unable to fetch history for product since productID is missing or malformed", err)
		return
	}

	if _, err := h.Products.Get(c.Request.Context(), productID); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			respond.Error(c, http.StatusBadRequest,
				fmt.Sprintf("product with id %s does not exist", productID), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError,
			fmt.Sprintf("Unable to fetch data for product with id %s", productID), err)
		return
	}

	record, err := h.Svc.GetOrCreate(c.Request.Context(), productID, userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError,
			fmt.Sprintf("Unable to fetch history for product %s", productID), err)
		return
	}

	respond.OK(c, entriesResponse{Entries: record.Entries})
}
