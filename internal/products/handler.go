package products

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"medgateway-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the catalog service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches catalog read routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.list)
	rg.GET("/products/:productId", h.get)
}

func (h *Handler) list(c *gin.Context) {
	summaries, err := h.Svc.ListSummaries(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError,
			"Internal error while retrieving list of available products", err)
		return
	}
	respond.OK(c, summaries)
}

func (h *Handler) get(c *gin.Context) {
	productID := c.Param("productId")
	if err := h.Svc.ValidateID(productID); err != nil {
		respond.Error(c, http.StatusBadRequest, "Missing or malformed product id", err)
		return
	}

	detail, err := h.Svc.GetDetail(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusBadRequest,
				fmt.Sprintf("product with id %s does not exist", productID), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError,
			fmt.Sprintf("Unable to fetch data for product with id %s", productID), err)
		return
	}
	respond.OK(c, detail)
}
