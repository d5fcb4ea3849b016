package verification

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"medgateway-backend/internal/shared/server/respond"
	"medgateway-backend/internal/users"
)

// Handler wires the public verification routes to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the verification routes. Both are public:
// the emailed link is opened outside any session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/verify/:verifyId", h.verify)
	rg.POST("/verification/resend", h.resend)
}

func (h *Handler) verify(c *gin.Context) {
	verifyID := c.Param("verifyId")
	if verifyID == "" {
		respond.Error(c, http.StatusBadRequest, "Verification identifier is missing", nil)
		return
	}

	if err := h.Svc.Verify(c.Request.Context(), verifyID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusBadRequest,
				fmt.Sprintf("verification with id %s does not exist", verifyID), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Internal error while verifying the account", err)
		return
	}

	respond.OK(c, respond.MessageBody{Message: "Your account has been successfully verified!"})
}

type resendRequest struct {
	Email string `json:"email"`
}

func (h *Handler) resend(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Email == "" {
		respond.Error(c, http.StatusBadRequest, "email is missing", nil)
		return
	}

	if err := h.Svc.Resend(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusBadRequest,
				fmt.Sprintf("user with email %s does not exist", req.Email), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError,
			"Unable to send verification email. Try again later or check if provided email is correct", err)
		return
	}

	respond.OK(c, respond.MessageBody{Message: "Verification email has been sent!"})
}
