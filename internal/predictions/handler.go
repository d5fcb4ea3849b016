package predictions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medgateway-backend/internal/shared/server/middleware"
	"medgateway-backend/internal/shared/server/respond"
)

// Handler wires the use-product route to the pipeline service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the use-product route. The group must already
// carry the Authenticated and Verified middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/products/:productId", h.use)
}

type useResponse struct {
	Message    string          `json:"message"`
	PhotoURL   string          `json:"photo_url"`
	Prediction json.RawMessage `json:"prediction"`
}

func (h *Handler) use(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	productID := c.Param("productId")
	userID := middleware.UserIDFromContext(c)

	result, err := h.Svc.Use(c.Request.Context(), productID, userID, in)
	if err != nil {
		var f *Failure
		if errors.As(err, &f) {
			respond.Error(c, f.Status, f.Message, f.Err)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Internal error while using the product", err)
		return
	}

	respond.OK(c, useResponse{
		Message:    "Your prediction has been successful!",
		PhotoURL:   result.PhotoURL,
		Prediction: result.Prediction,
	})
}
