// Package ingest implements the sync surface: authenticated batch ingestion
// of declarations and daily metrics pushed by the external declaration
// platform. Payload validation and defaulting happen here, once, at the
// boundary; downstream systems only see fully-formed records.
package ingest

import (
	"time"

	"github.com/douanehq/douane/internal/analytics"
	"github.com/douanehq/douane/internal/declarations"
)

// UpsertPayload is the inbound declaration batch. Field names follow the
// sync contract of the external platform.
type UpsertPayload struct {
	Items []DeclarationItem `json:"items"`
}

// DeclarationItem is one raw declaration in a sync batch. Only the business
// identifier is required; every other field defaults to empty.
type DeclarationItem struct {
	DeclarationID       *int64 `json:"declarationId"`
	LinkString          string `json:"linkString"`
	Subject             string `json:"subject"`
	Body                string `json:"body"`
	CommercialReference string `json:"commercialReference"`
	Principal           string `json:"principal"`
	ImporterCode        string `json:"importerCode"`
	MRN                 string `json:"mrn"`
	Traces              string `json:"traces"`
	Link2               string `json:"link2"`
	Link4               string `json:"link4"`
	AcceptanceDate      string `json:"acceptanceDate"`
}

// Records validates the payload and converts it into store records.
// The declaration GUID is derived from the raw link string here; malformed
// acceptance dates degrade to null rather than rejecting the batch.
func (p *UpsertPayload) Records() ([]declarations.Record, error) {
	if len(p.Items) == 0 {
		return nil, declarations.ErrEmptyBatch
	}

	records := make([]declarations.Record, 0, len(p.Items))
	for _, item := range p.Items {
		if item.DeclarationID == nil || *item.DeclarationID <= 0 {
			return nil, declarations.ErrMissingID
		}

		records = append(records, declarations.Record{
			DeclarationID:       *item.DeclarationID,
			DeclarationGUID:     declarations.ExtractGUID(item.LinkString),
			Subject:             item.Subject,
			Body:                item.Body,
			CommercialReference: item.CommercialReference,
			Principal:           item.Principal,
			ImporterCode:        item.ImporterCode,
			MRN:                 item.MRN,
			Traces:              item.Traces,
			Link2:               item.Link2,
			Link4:               item.Link4,
			AcceptanceDate:      parseAcceptanceDate(item.AcceptanceDate),
		})
	}

	return records, nil
}

// MetricsPayload is the inbound daily-metrics batch.
type MetricsPayload struct {
	Items []MetricItem `json:"items"`
}

// MetricItem is one externally-computed daily count for a principal.
type MetricItem struct {
	Principal string `json:"principal"`
	Date      string `json:"date"`
	Count     int    `json:"count"`
}

// Metrics validates the payload and converts it into daily metric rows.
func (p *MetricsPayload) Metrics() ([]analytics.DailyMetric, error) {
	if len(p.Items) == 0 {
		return nil, analytics.ErrEmptyBatch
	}

	metrics := make([]analytics.DailyMetric, 0, len(p.Items))
	for _, item := range p.Items {
		if item.Principal == "" {
			return nil, analytics.ErrMissingPrincipal
		}

		date, err := time.Parse("2006-01-02", item.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}

		metrics = append(metrics, analytics.DailyMetric{
			Principal: item.Principal,
			Date:      date,
			Count:     item.Count,
		})
	}

	return metrics, nil
}

func parseAcceptanceDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}
