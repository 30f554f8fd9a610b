// Package declarations implements the customs declaration domain.
// It provides types, data access, and business logic for synced declaration
// records and the helpdesk ticket lifecycle driven against the external CRM.
package declarations

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus is the CRM integration state of a declaration.
type TicketStatus string

// Ticket lifecycle states. NEW is initial, PENDING is transient while the CRM
// call is in flight, CREATED is terminal, FAILED is terminal but retryable.
const (
	TicketNew     TicketStatus = "NEW"
	TicketPending TicketStatus = "PENDING"
	TicketCreated TicketStatus = "CREATED"
	TicketFailed  TicketStatus = "FAILED"
)

// Declaration represents a customs declaration synced from the external
// declaration platform, tracked for CRM ticket creation.
type Declaration struct {
	ID                  uuid.UUID    `json:"id"`
	DeclarationID       int64        `json:"declaration_id"`
	DeclarationGUID     string       `json:"declaration_guid"`
	Subject             string       `json:"subject"`
	Body                string       `json:"body"`
	CommercialReference string       `json:"commercial_reference"`
	Principal           string       `json:"principal"`
	ImporterCode        string       `json:"importer_code"`
	MRN                 string       `json:"mrn"`
	Traces              string       `json:"traces"`
	Link2               string       `json:"link2"`
	Link4               string       `json:"link4"`
	AcceptanceDate      *time.Time   `json:"acceptance_date"`
	FirstSeenAt         time.Time    `json:"first_seen_at"`
	LastSeenAt          time.Time    `json:"last_seen_at"`
	TicketStatus        TicketStatus `json:"ticket_status"`
	TicketID            *int64       `json:"ticket_id"`
	TicketError         *string      `json:"ticket_error"`
	TicketUpdatedAt     *time.Time   `json:"ticket_updated_at"`
}

// Record carries one validated declaration from the sync boundary into the
// store. Optional fields arrive already defaulted; DeclarationGUID is derived
// from the raw link string before the record reaches the repository.
type Record struct {
	DeclarationID       int64
	DeclarationGUID     string
	Subject             string
	Body                string
	CommercialReference string
	Principal           string
	ImporterCode        string
	MRN                 string
	Traces              string
	Link2               string
	Link4               string
	AcceptanceDate      *time.Time
}

// UpsertStats reports the outcome of a batch upsert.
// Received counts items handed to the store; Upserted counts rows applied.
type UpsertStats struct {
	Received int `json:"received"`
	Upserted int `json:"upserted"`
}
