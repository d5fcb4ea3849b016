package predictions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medgateway-backend/internal/history"
	"medgateway-backend/internal/products"
	"medgateway-backend/internal/upstream"
)

const (
	converterTokenKey = "DICOM_CONVERTER_ACCESS_TOKEN"
	productTokenKey   = "FETAL_NET_ACCESS_TOKEN"
)

type fakeStore struct {
	uploads int32
	url     string
	err     error
}

func (f *fakeStore) Upload(ctx context.Context, base64PNG, folder string) (string, error) {
	atomic.AddInt32(&f.uploads, 1)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type pipelineFixture struct {
	svc            *Service
	historyRepo    *history.MemoryRepo
	store          *fakeStore
	product        products.Product
	userID         string
	converterCalls *int32
	predictCalls   *int32
}

// newFixture stands up httptest converter and prediction services and a
// pipeline wired against in-memory repos.
func newFixture(t *testing.T, predictStatus int, predictBody string, storesPhoto bool) *pipelineFixture {
	t.Helper()
	t.Setenv(converterTokenKey, "converter-secret")
	t.Setenv(productTokenKey, "product-secret")

	var converterCalls, predictCalls int32

	converter := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&converterCalls, 1)
		if got := r.Header.Get("Authorization"); got != "Bearer converter-secret" {
			t.Errorf("converter auth = %q", got)
		}
		if r.URL.Path != "/convert" {
			t.Errorf("converter path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"pixels":"converted-png-bytes"}`)
	}))
	t.Cleanup(converter.Close)

	predictor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&predictCalls, 1)
		if got := r.Header.Get("Authorization"); got != "Bearer product-secret" {
			t.Errorf("predictor auth = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("predictor received non-JSON body: %v", err)
		}
		if _, ok := body["pixels"]; !ok {
			t.Error("predictor did not receive the converted payload")
		}
		w.WriteHeader(predictStatus)
		fmt.Fprint(w, predictBody)
	}))
	t.Cleanup(predictor.Close)

	product := products.Product{
		ID:       uuid.NewString(),
		Name:     "Fetal-Net",
		IsActive: true,
		Endpoint: products.EndpointConfig{
			PredictURL:     predictor.URL,
			AccessTokenKey: productTokenKey,
			StoresPhoto:    storesPhoto,
		},
	}
	productRepo := products.NewMemoryRepo()
	productRepo.Put(product)

	historyRepo := history.NewMemoryRepo()
	store := &fakeStore{url: "https://artifacts.example.com/photo.png"}

	svc := &Service{
		Products:          products.NewService(productRepo),
		History:           history.NewService(historyRepo),
		Upstream:          upstream.NewClient(0),
		Artifacts:         store,
		ConverterURL:      converter.URL,
		ConverterTokenKey: converterTokenKey,
	}

	return &pipelineFixture{
		svc:            svc,
		historyRepo:    historyRepo,
		store:          store,
		product:        product,
		userID:         uuid.NewString(),
		converterCalls: &converterCalls,
		predictCalls:   &predictCalls,
	}
}

func validInput() Input {
	return Input{
		PatientName:    "Jane",
		PatientSurname: "Doe",
		Description:    "routine scan",
		Data:           json.RawMessage(`{"dicom":"AAAA"}`),
		Date:           "2023-04-01",
	}
}

func TestUseHappyPathWithPhoto(t *testing.T) {
	fx := newFixture(t, http.StatusOK, `{"prediction":{"label":"healthy","score":0.97},"photo":"cGhvdG8="}`, true)

	result, err := fx.svc.Use(context.Background(), fx.product.ID, fx.userID, validInput())
	if err != nil {
		t.Fatalf("Use: %v", err)
	}
	if result.PhotoURL != fx.store.url {
		t.Errorf("photo url = %q, want %q", result.PhotoURL, fx.store.url)
	}
	if !strings.Contains(string(result.Prediction), `"healthy"`) {
		t.Errorf("prediction = %s", result.Prediction)
	}
	if got := atomic.LoadInt32(&fx.store.uploads); got != 1 {
		t.Errorf("uploads = %d, want 1", got)
	}

	record, err := fx.historyRepo.GetOrCreate(context.Background(), fx.product.ID, fx.userID)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if len(record.Entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(record.Entries))
	}
	entry := record.Entries[0]
	if !entry.HasPhoto || entry.PhotoURL != fx.store.url {
		t.Errorf("entry photo = (%v, %q)", entry.HasPhoto, entry.PhotoURL)
	}
	if entry.PatientName != "Jane" || entry.PatientSurname != "Doe" {
		t.Errorf("entry patient = %q %q", entry.PatientName, entry.PatientSurname)
	}
}

func TestUseProductWithoutPhotoStorage(t *testing.T) {
	fx := newFixture(t, http.StatusOK, `{"prediction":{"label":"healthy"},"photo":"cGhvdG8="}`, false)

	result, err := fx.svc.Use(context.Background(), fx.product.ID, fx.userID, validInput())
	if err != nil {
		t.Fatalf("Use: %v", err)
	}
	if result.PhotoURL != "" {
		t.Errorf("photo url = %q, want empty", result.PhotoURL)
	}
	if got := atomic.LoadInt32(&fx.store.uploads); got != 0 {
		t.Errorf("uploads = %d, want 0", got)
	}

	record, _ := fx.historyRepo.GetOrCreate(context.Background(), fx.product.ID, fx.userID)
	if len(record.Entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(record.Entries))
	}
	if record.Entries[0].HasPhoto || record.Entries[0].PhotoURL != "" {
		t.Errorf("entry photo = (%v, %q), want none",
			record.Entries[0].HasPhoto, record.Entries[0].PhotoURL)
	}
}

func TestUseInactiveProduct(t *testing.T) {
	fx := newFixture(t, http.StatusOK, `{"prediction":{}}`, true)
	fx.product.IsActive = false
	repo := products.NewMemoryRepo()
	repo.Put(fx.product)
	fx.svc.Products = products.NewService(repo)

	_, err := fx.svc.Use(context.Background(), fx.product.ID, fx.userID, validInput())
	f := requireFailure(t, err, http.StatusBadRequest)
	if f.Message != "One can not use inactive product" {
		t.Errorf("message = %q", f.Message)
	}
	if atomic.LoadInt32(fx.converterCalls) != 0 || atomic.LoadInt32(fx.predictCalls) != 0 {
		t.Error("inactive product must not reach any upstream service")
	}
}

func TestUseMissingBodyField(t *testing.T) {
	fx := newFixture(t, http.StatusOK, `{"prediction":{}}`, true)

	in := validInput()
	in.Description = ""
	_, err := fx.svc.Use(context.Background(), fx.product.ID, fx.userID, in)
	f := requireFailure(t, err, http.StatusBadRequest)
	if f.Message != "property description for prediction is not specified" {
		t.Errorf("message = %q", f.Message)
	}
	if atomic.LoadInt32(fx.converterCalls) != 0 {
		t.Error("validation must fail before any network call")
	}
}

func TestUseMalformedDate(t *testing.T) {
	fx := newFixture(t, http.StatusOK, `{"prediction":{}}`, true)

	in := validInput()
	in.Date = "yesterday"
	_, err := fx.svc.Use(context.Background(), fx.product.ID, fx.userID, in)
	f := requireFailure(t, err, http.StatusBadRequest)
	if f.Message != "property date for prediction is malformed" {
		t.Errorf("message = %q", f.Message)
	}
}

func TestUseMalformedProductID(t *testing.T) {
	fx := newFixture(t, http.StatusOK, `{"prediction":{}}`, true)

	_, err := fx.svc.Use(context.Background(), "not-a-uuid", fx.userID, validInput())
	f := requireFailure(t, err, http.StatusBadRequest)
	if f.Message != "Missing or malformed product id" {
		t.Errorf("message = %q", f.Message)
	}
}

func TestUseUnknownProduct(t *testing.T) {
	fx := newFixture(t, http.StatusOK, `{"prediction":{}}`, true)

	unknown := uuid.NewString()
	_, err := fx.svc.Use(context.Background(), unknown, fx.userID, validInput())
	f := requireFailure(t, err, http.StatusBadRequest)
	want := fmt.Sprintf("product with id %s does not exist", unknown)
	if f.Message != want {
		t.Errorf("message = %q, want %q", f.Message, want)
	}
}

func TestUsePredictionFailureIsOpaque(t *testing.T) {
	fx := newFixture(t, http.StatusBadGateway, `{"error":"model exploded at layer 3"}`, true)

	_, err := fx.svc.Use(context.Background(), fx.product.ID, fx.userID, validInput())
	f := requireFailure(t, err, http.StatusInternalServerError)
	if f.Message != "Internal error while making the prediction" {
		t.Errorf("message = %q", f.Message)
	}
	if strings.Contains(f.Message, "exploded") {
		t.Error("upstream detail leaked into the caller-facing message")
	}
	if atomic.LoadInt32(&fx.store.uploads) != 0 {
		t.Error("failed prediction must not upload a photo")
	}

	record, _ := fx.historyRepo.GetOrCreate(context.Background(), fx.product.ID, fx.userID)
	if len(record.Entries) != 0 {
		t.Errorf("failed prediction recorded %d history entries", len(record.Entries))
	}
}

func TestUseHandlerResponseShape(t *testing.T) {
	fx := newFixture(t, http.StatusOK, `{"prediction":{"label":"healthy"},"photo":"cGhvdG8="}`, true)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api")
	group.Use(func(c *gin.Context) { c.Set("userId", fx.userID) })
	NewHandler(fx.svc).RegisterRoutes(group)

	body := `{"patient_name":"Jane","patient_surname":"Doe","description":"routine scan",` +
		`"data":{"dicom":"AAAA"},"date":"2023-04-01"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products/"+fx.product.ID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message    string          `json:"message"`
		PhotoURL   string          `json:"photo_url"`
		Prediction json.RawMessage `json:"prediction"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Your prediction has been successful!" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.PhotoURL != fx.store.url {
		t.Errorf("photo_url = %q", resp.PhotoURL)
	}
	if !strings.Contains(string(resp.Prediction), "healthy") {
		t.Errorf("prediction = %s", resp.Prediction)
	}
}

func requireFailure(t *testing.T, err error, wantStatus int) *Failure {
	t.Helper()
	if err == nil {
		t.Fatal("expected a pipeline failure, got nil")
	}
	f, ok := err.(*Failure)
	if !ok {
		t.Fatalf("error type = %T, want *Failure", err)
	}
	if f.Status != wantStatus {
		t.Fatalf("status = %d, want %d (message %q)", f.Status, wantStatus, f.Message)
	}
	return f
}
