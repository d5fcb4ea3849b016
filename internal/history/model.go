package history

import (
	"encoding/json"
	"time"
)

// Entry is one recorded use of a product. Once appended it is never
// mutated or removed; slice order is chronological.
type Entry struct {
	PatientName    string          `json:"patient_name"`
	PatientSurname string          `json:"patient_surname"`
	Description    string          `json:"description"`
	Date           time.Time       `json:"date"`
	Prediction     json.RawMessage `json:"prediction"`
	HasPhoto       bool            `json:"has_photo"`
	PhotoURL       string          `json:"photo_url"`
}

// Record is the append-only usage log for one (product, user) pair.
// Exactly zero or one record exists per pair.
type Record struct {
	ID        string  `json:"-"`
	ProductID string  `json:"product_id"`
	UserID    string  `json:"user_id"`
	Entries   []Entry `json:"entries"`
}
