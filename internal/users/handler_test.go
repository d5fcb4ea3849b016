package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"medgateway-backend/internal/shared/server/middleware"
)

type fakeVerifier struct {
	began []string
	err   error
}

func (f *fakeVerifier) Begin(ctx context.Context, userID, email string) error {
	if f.err != nil {
		return f.err
	}
	f.began = append(f.began, email)
	return nil
}

func newUsersRouter(t *testing.T) (*gin.Engine, *Service, *fakeVerifier) {
	t.Helper()
	t.Setenv("JWT_SECRET", "users-handler-test-secret")
	gin.SetMode(gin.TestMode)

	svc := NewService(NewMemoryRepo())
	verifier := &fakeVerifier{}
	handler := NewHandler(svc, verifier)

	router := gin.New()
	api := router.Group("/api")
	handler.RegisterRoutes(api)
	handler.RegisterProtectedRoutes(api.Group("", middleware.Authenticated()))
	return router, svc, verifier
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

const registerBody = `{"name":"Ada","surname":"Lovelace","email":"ada@example.com",` +
	`"password":"secret-password","organization":"Analytical Engines"}`

func TestRegisterCreatesUnverifiedAccount(t *testing.T) {
	router, svc, verifier := newUsersRouter(t)

	rec := postJSON(router, "/api/users/register", registerBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(),
		"Your account has been created, please verify the account in order to use all functionalities") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if len(verifier.began) != 1 || verifier.began[0] != "ada@example.com" {
		t.Errorf("verifier.began = %v", verifier.began)
	}

	user, err := svc.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.Status != StatusUnverified {
		t.Errorf("status = %q, want %q", user.Status, StatusUnverified)
	}
	if user.Password == "secret-password" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	router, _, _ := newUsersRouter(t)

	if rec := postJSON(router, "/api/users/register", registerBody); rec.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d", rec.Code)
	}
	rec := postJSON(router, "/api/users/register", registerBody)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status = %d, want 409", rec.Code)
	}
}

func TestRegisterNamesFirstMissingField(t *testing.T) {
	router, _, verifier := newUsersRouter(t)

	body := `{"name":"Ada","email":"ada@example.com","password":"secret-password","organization":"AE"}`
	rec := postJSON(router, "/api/users/register", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "surname was not provided but is necessary to register the user") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if len(verifier.began) != 0 {
		t.Error("verification must not start for a rejected registration")
	}
}

func TestLoginIssuesTokenAndHidesPassword(t *testing.T) {
	router, _, _ := newUsersRouter(t)
	postJSON(router, "/api/users/register", registerBody)

	rec := postJSON(router, "/api/users/login", `{"email":"ada@example.com","password":"secret-password"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Token == "" {
		t.Error("login response carries no token")
	}
	if _, ok := resp.User["password"]; ok {
		t.Error("login response serializes the password hash")
	}
	if resp.User["email"] != "ada@example.com" {
		t.Errorf("user email = %v", resp.User["email"])
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	router, _, _ := newUsersRouter(t)
	postJSON(router, "/api/users/register", registerBody)

	cases := []string{
		`{"email":"ada@example.com","password":"wrong-password"}`,
		`{"email":"nobody@example.com","password":"secret-password"}`,
	}
	for _, body := range cases {
		rec := postJSON(router, "/api/users/login", body)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("body %s: status = %d, want 401", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Invalid email or password") {
			t.Errorf("body %s: response %s", body, rec.Body.String())
		}
	}
}

func TestLoginNamesMissingProperty(t *testing.T) {
	router, _, _ := newUsersRouter(t)

	rec := postJSON(router, "/api/users/login", `{"email":"ada@example.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "password property is not specified") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestMeReturnsProfile(t *testing.T) {
	router, _, _ := newUsersRouter(t)
	postJSON(router, "/api/users/register", registerBody)

	rec := postJSON(router, "/api/users/login", `{"email":"ada@example.com","password":"secret-password"}`)
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var profile Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Email != "ada@example.com" || profile.Organization != "Analytical Engines" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestMeWithoutTokenIsHidden(t *testing.T) {
	router, _, _ := newUsersRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %s", rec.Body.String())
	}
}
