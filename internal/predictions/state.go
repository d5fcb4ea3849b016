package predictions

import (
	"encoding/json"
	"time"

	"medgateway-backend/internal/products"
)

// Input is the raw use-product request body. Validation happens inside
// the pipeline so that auth and product checks run first.
type Input struct {
	PatientName    string          `json:"patient_name"`
	PatientSurname string          `json:"patient_surname"`
	Description    string          `json:"description"`
	Data           json.RawMessage `json:"data"`
	Date           string          `json:"date"`
}

// state is the accumulator threaded through the pipeline. It is owned
// by exactly one request; stages only ever read fields written by
// earlier stages.
type state struct {
	productID string
	userID    string
	in        Input

	date       time.Time
	product    products.Product
	converted  json.RawMessage
	prediction json.RawMessage
	photo      string

	hasPhoto bool
	photoURL string
}
