// Package predictions runs the use-a-product pipeline: DICOM conversion,
// the product's prediction call, the optional derived-photo upload, and
// the history append.
package predictions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"medgateway-backend/internal/artifacts"
	"medgateway-backend/internal/history"
	"medgateway-backend/internal/products"
	"medgateway-backend/internal/shared/telemetry"
	"medgateway-backend/internal/upstream"
)

// Service orchestrates one product use per call. Stages run strictly in
// order; the first error terminates the pipeline with its mapped
// response and nothing is retried.
type Service struct {
	Products  *products.Service
	History   *history.Service
	Upstream  upstream.Caller
	Artifacts artifacts.Store

	ConverterURL      string
	ConverterTokenKey string
}

// Result is the successful pipeline outcome.
type Result struct {
	PhotoURL   string
	Prediction json.RawMessage
}

// stage is one named pipeline step. Every stage reads and writes the
// shared state through the same signature so the driver stays a plain
// loop.
type stage struct {
	name string
	run  func(ctx context.Context, st *state) error
}

func (s *Service) stages() []stage {
	return []stage{
		{"validate_product_id", s.validateProductID},
		{"load_product", s.loadProduct},
		{"assert_active", s.assertActive},
		{"validate_body", s.validateBody},
		{"convert_image", s.convertImage},
		{"predict", s.predict},
		{"store_photo", s.storePhoto},
		{"record_history", s.recordHistory},
	}
}

// Use runs the pipeline for one authenticated, verified user. Any error
// it returns is a *Failure carrying the HTTP mapping; the caller must
// not expose Failure.Err.
func (s *Service) Use(ctx context.Context, productID, userID string, in Input) (Result, error) {
	st := &state{productID: productID, userID: userID, in: in}

	for _, stg := range s.stages() {
		// Stop scheduling stages once the caller is gone; the stage
		// in flight has already completed.
		if err := ctx.Err(); err != nil {
			return Result{}, s.fail(st, stg.name,
				internalFailure("Internal error while using the product", err))
		}
		if err := stg.run(ctx, st); err != nil {
			var f *Failure
			if !errors.As(err, &f) {
				f = internalFailure("Internal error while using the product", err)
			}
			return Result{}, s.fail(st, stg.name, f)
		}
	}

	return Result{PhotoURL: st.photoURL, Prediction: st.prediction}, nil
}

func (s *Service) fail(st *state, stageName string, f *Failure) *Failure {
	if f.Stage == "" {
		f.Stage = stageName
	}
	fields := map[string]any{
		"stage":      f.Stage,
		"status":     f.Status,
		"product_id": st.productID,
		"user_id":    st.userID,
	}
	if f.Err != nil {
		fields["detail"] = f.Err.Error()
	}
	telemetry.Error("predictions.stage_failed", fields)
	return f
}

func (s *Service) validateProductID(ctx context.Context, st *state) error {
	if err := s.Products.ValidateID(st.productID); err != nil {
		return badRequest("Missing or malformed product id")
	}
	return nil
}

func (s *Service) loadProduct(ctx context.Context, st *state) error {
	product, err := s.Products.Get(ctx, st.productID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return badRequest(fmt.Sprintf("product with id %s does not exist", st.productID))
		}
		return internalFailure(
			fmt.Sprintf("Unable to fetch data for product with id %s", st.productID), err)
	}
	st.product = product
	return nil
}

func (s *Service) assertActive(ctx context.Context, st *state) error {
	if err := s.Products.AssertActive(st.product); err != nil {
		return badRequest("One can not use inactive product")
	}
	return nil
}

func (s *Service) validateBody(ctx context.Context, st *state) error {
	required := []struct {
		present bool
		name    string
	}{
		{st.in.PatientName != "", "patient_name"},
		{st.in.PatientSurname != "", "patient_surname"},
		{st.in.Description != "", "description"},
		{len(st.in.Data) > 0, "data"},
		{st.in.Date != "", "date"},
	}
	for _, field := range required {
		if !field.present {
			return badRequest(fmt.Sprintf("property %s for prediction is not specified", field.name))
		}
	}

	date, err := parseDate(st.in.Date)
	if err != nil {
		return badRequest("property date for prediction is malformed")
	}
	st.date = date
	return nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func (s *Service) convertImage(ctx context.Context, st *state) error {
	token := os.Getenv(s.ConverterTokenKey)
	converted, err := s.Upstream.PostJSON(ctx, s.ConverterURL+"/convert", token, st.in.Data)
	if err != nil {
		return internalFailure("Internal error while converting the image data", err)
	}
	st.converted = converted
	return nil
}

// predictionResponse is the payload every product endpoint returns.
type predictionResponse struct {
	Prediction json.RawMessage `json:"prediction"`
	Photo      string          `json:"photo"`
}

func (s *Service) predict(ctx context.Context, st *state) error {
	token := os.Getenv(st.product.Endpoint.AccessTokenKey)
	raw, err := s.Upstream.PostJSON(ctx, st.product.Endpoint.PredictURL, token, st.converted)
	if err != nil {
		return internalFailure("Internal error while making the prediction", err)
	}

	var resp predictionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return internalFailure("Internal error while making the prediction",
			fmt.Errorf("decode prediction response from %s: %w", st.product.Endpoint.PredictURL, err))
	}
	if len(resp.Prediction) == 0 || string(resp.Prediction) == "null" {
		return internalFailure("Internal error while making the prediction",
			fmt.Errorf("prediction response from %s carries no prediction", st.product.Endpoint.PredictURL))
	}

	st.prediction = resp.Prediction
	st.photo = resp.Photo
	return nil
}

func (s *Service) storePhoto(ctx context.Context, st *state) error {
	if !st.product.Endpoint.StoresPhoto {
		st.hasPhoto = false
		st.photoURL = ""
		return nil
	}
	if st.photo == "" {
		return internalFailure("Internal error while storing the prediction photo",
			fmt.Errorf("product %s stores photos but returned none", st.productID))
	}

	url, err := s.Artifacts.Upload(ctx, st.photo, st.userID)
	if err != nil {
		return internalFailure("Internal error while storing the prediction photo", err)
	}
	st.hasPhoto = true
	st.photoURL = url
	return nil
}

func (s *Service) recordHistory(ctx context.Context, st *state) error {
	record, err := s.History.GetOrCreate(ctx, st.productID, st.userID)
	if err != nil {
		return internalFailure("Internal error while recording the prediction history", err)
	}

	entry := history.Entry{
		PatientName:    st.in.PatientName,
		PatientSurname: st.in.PatientSurname,
		Description:    st.in.Description,
		Date:           st.date,
		Prediction:     st.prediction,
		HasPhoto:       st.hasPhoto,
		PhotoURL:       st.photoURL,
	}
	if err := s.History.Append(ctx, record.ID, entry); err != nil {
		return internalFailure("Internal error while recording the prediction history", err)
	}
	return nil
}
