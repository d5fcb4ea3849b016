package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"medgateway-backend/internal/shared/server/middleware"
	"medgateway-backend/internal/shared/server/respond"
	"medgateway-backend/internal/shared/telemetry"
)

// VerificationStarter begins the email-verification flow for a fresh
// account. Implemented by the verification service.
type VerificationStarter interface {
	Begin(ctx context.Context, userID, email string) error
}

// Handler wires HTTP handlers to the users service.
type Handler struct {
	Svc      *Service
	Verifier VerificationStarter
}

func NewHandler(svc *Service, verifier VerificationStarter) *Handler {
	return &Handler{Svc: svc, Verifier: verifier}
}

// RegisterRoutes attaches public account routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/users/register", h.register)
	rg.POST("/users/login", h.login)
}

// RegisterProtectedRoutes attaches routes requiring authentication (but
// not verification: unverified users must be able to see their profile).
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.me)
}

type registerRequest struct {
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	required := []struct {
		value string
		name  string
	}{
		{req.Name, "name"},
		{req.Surname, "surname"},
		{req.Email, "email"},
		{req.Password, "password"},
		{req.Organization, "organization"},
	}
	for _, field := range required {
		if field.value == "" {
			respond.Error(c, http.StatusBadRequest,
				fmt.Sprintf("%s was not provided but is necessary to register the user", field.name), nil)
			return
		}
	}

	user, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		Password:     req.Password,
		Organization: req.Organization,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			respond.Error(c, http.StatusConflict, "Provided email address is already in use!", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Unable to register user due to internal error", err)
		return
	}

	if h.Verifier != nil {
		if err := h.Verifier.Begin(c.Request.Context(), user.ID, user.Email); err != nil {
			respond.Error(c, http.StatusInternalServerError,
				"Unable to send verification email. Try again later or check if provided email is correct", err)
			return
		}
	}

	respond.JSON(c, http.StatusCreated, respond.MessageBody{
		Message: "Your account has been created, please verify the account in order to use all functionalities",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Email == "" {
		respond.Error(c, http.StatusBadRequest, "email property is not specified", nil)
		return
	}
	if req.Password == "" {
		respond.Error(c, http.StatusBadRequest, "password property is not specified", nil)
		return
	}

	user, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Unable to log in due to internal error", err)
		return
	}

	respond.OK(c, loginResponse{Token: token, User: user.profile()})
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	profile, err := h.Svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			telemetry.Error("users.me_token_without_account", map[string]any{"user_id": userID})
			respond.Error(c, http.StatusBadRequest, "Obtained invalid token", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Internal error while collecting user data", err)
		return
	}

	respond.OK(c, profile)
}
