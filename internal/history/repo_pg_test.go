package history

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoGetOrCreateIsSingleUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("INSERT INTO histories").
		WithArgs(sqlmock.AnyArg(), "prod-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "user_id", "entries"}).
			AddRow("rec-1", "prod-1", "user-1", []byte(`[{"patient_name":"A","patient_surname":"B","description":"","date":"2024-05-10T12:30:00Z","prediction":{"x":1},"has_photo":false,"photo_url":""}]`)))

	repo := &PGRepo{DB: db}
	record, err := repo.GetOrCreate(context.Background(), "prod-1", "user-1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if record.ID != "rec-1" {
		t.Fatalf("unexpected record id %q", record.ID)
	}
	if len(record.Entries) != 1 || record.Entries[0].PatientName != "A" {
		t.Fatalf("unexpected entries %+v", record.Entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoAppendEntryUpdatesJSONB(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	entry := Entry{
		PatientName:    "A",
		PatientSurname: "B",
		Date:           time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC),
		Prediction:     json.RawMessage(`{"x":1}`),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}

	mock.ExpectExec("UPDATE histories").
		WithArgs("rec-1", raw).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.AppendEntry(context.Background(), "rec-1", entry); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoAppendEntryUnknownRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE histories").
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.AppendEntry(context.Background(), "missing", Entry{}); err == nil {
		t.Fatal("expected error for unknown record")
	}
}
