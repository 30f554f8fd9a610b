package ingest_test

import (
	"errors"
	"testing"
	"time"

	"github.com/douanehq/douane/internal/analytics"
	"github.com/douanehq/douane/internal/declarations"
	"github.com/douanehq/douane/internal/ingest"
)

func ptr(v int64) *int64 {
	return &v
}

func TestUpsertPayloadRecords(t *testing.T) {
	payload := ingest.UpsertPayload{
		Items: []ingest.DeclarationItem{
			{
				DeclarationID:       ptr(4711),
				LinkString:          "https://platform.example/decl/57419ac664eb465efeab08de2d0324b4",
				Subject:             "Import clearance",
				CommercialReference: "PO-2026-0042",
				Principal:           "Acme Logistics",
				AcceptanceDate:      "2026-03-10",
			},
		},
	}

	records, err := payload.Records()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.DeclarationID != 4711 {
		t.Errorf("unexpected id: %d", r.DeclarationID)
	}
	if r.DeclarationGUID != "57419AC664EB465EFEAB08DE2D0324B4" {
		t.Errorf("expected guid derived from link, got %q", r.DeclarationGUID)
	}
	if r.AcceptanceDate == nil || !r.AcceptanceDate.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected acceptance date: %v", r.AcceptanceDate)
	}
}

func TestUpsertPayloadNoGUID(t *testing.T) {
	payload := ingest.UpsertPayload{
		Items: []ingest.DeclarationItem{
			{DeclarationID: ptr(1), LinkString: "https://platform.example/decl/latest"},
		},
	}

	records, err := payload.Records()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].DeclarationGUID != declarations.UnknownGUID {
		t.Errorf("expected sentinel guid, got %q", records[0].DeclarationGUID)
	}
}

func TestUpsertPayloadMalformedDateDegrades(t *testing.T) {
	payload := ingest.UpsertPayload{
		Items: []ingest.DeclarationItem{
			{DeclarationID: ptr(1), AcceptanceDate: "10/03/2026"},
		},
	}

	records, err := payload.Records()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].AcceptanceDate != nil {
		t.Errorf("expected nil acceptance date, got %v", records[0].AcceptanceDate)
	}
}

func TestUpsertPayloadEmpty(t *testing.T) {
	payload := ingest.UpsertPayload{}

	if _, err := payload.Records(); !errors.Is(err, declarations.ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestUpsertPayloadMissingID(t *testing.T) {
	payload := ingest.UpsertPayload{
		Items: []ingest.DeclarationItem{
			{Subject: "no id"},
		},
	}

	if _, err := payload.Records(); !errors.Is(err, declarations.ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
}

func TestUpsertPayloadNonPositiveID(t *testing.T) {
	payload := ingest.UpsertPayload{
		Items: []ingest.DeclarationItem{
			{DeclarationID: ptr(0)},
		},
	}

	if _, err := payload.Records(); !errors.Is(err, declarations.ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
}

func TestMetricsPayload(t *testing.T) {
	payload := ingest.MetricsPayload{
		Items: []ingest.MetricItem{
			{Principal: "Acme Logistics", Date: "2026-03-10", Count: 14},
		},
	}

	metrics, err := payload.Metrics()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(metrics))
	}
	if metrics[0].Count != 14 || metrics[0].Principal != "Acme Logistics" {
		t.Errorf("unexpected metric: %+v", metrics[0])
	}
	if !metrics[0].Date.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date: %v", metrics[0].Date)
	}
}

func TestMetricsPayloadEmpty(t *testing.T) {
	payload := ingest.MetricsPayload{}

	if _, err := payload.Metrics(); !errors.Is(err, analytics.ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestMetricsPayloadMissingPrincipal(t *testing.T) {
	payload := ingest.MetricsPayload{
		Items: []ingest.MetricItem{
			{Date: "2026-03-10", Count: 1},
		},
	}

	if _, err := payload.Metrics(); !errors.Is(err, analytics.ErrMissingPrincipal) {
		t.Errorf("expected ErrMissingPrincipal, got %v", err)
	}
}

func TestMetricsPayloadInvalidDate(t *testing.T) {
	payload := ingest.MetricsPayload{
		Items: []ingest.MetricItem{
			{Principal: "Acme", Date: "March 10th", Count: 1},
		},
	}

	if _, err := payload.Metrics(); !errors.Is(err, ingest.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
