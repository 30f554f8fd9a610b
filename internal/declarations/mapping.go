package declarations

import (
	"net/url"
	"time"

	"github.com/douanehq/douane/pkg/query"
	"github.com/douanehq/douane/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "declarations", "d").
	Project("id", "ID").
	Project("declaration_id", "DeclarationID").
	Project("declaration_guid", "DeclarationGUID").
	Project("subject", "Subject").
	Project("body", "Body").
	Project("commercial_reference", "CommercialReference").
	Project("principal", "Principal").
	Project("importer_code", "ImporterCode").
	Project("mrn", "MRN").
	Project("traces", "Traces").
	Project("link2", "Link2").
	Project("link4", "Link4").
	Project("acceptance_date", "AcceptanceDate").
	Project("first_seen_at", "FirstSeenAt").
	Project("last_seen_at", "LastSeenAt").
	Project("ticket_status", "TicketStatus").
	Project("ticket_id", "TicketID").
	Project("ticket_error", "TicketError").
	Project("ticket_updated_at", "TicketUpdatedAt")

var defaultSort = query.SortField{
	Field:      "AcceptanceDate",
	Descending: true,
}

// Filters contains optional, independently applied criteria for declaration
// queries. From and To bound the acceptance date; Status matches the ticket
// status exactly; Principal and Importer use case-insensitive contains
// matching. Nil fields are ignored.
type Filters struct {
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Principal *string    `json:"principal,omitempty"`
	Importer  *string    `json:"importer,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereAtLeast("AcceptanceDate", f.From).
		WhereAtMost("AcceptanceDate", f.To).
		WhereEquals("TicketStatus", f.Status).
		WhereContains("Principal", f.Principal).
		WhereContains("ImporterCode", f.Importer)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Date bounds accept RFC 3339 timestamps or plain dates (2006-01-02).
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if from := parseDate(values.Get("from")); from != nil {
		f.From = from
	}

	if to := parseDate(values.Get("to")); to != nil {
		f.To = to
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if p := values.Get("principal"); p != "" {
		f.Principal = &p
	}

	if i := values.Get("importer"); i != "" {
		f.Importer = &i
	}

	return f
}

func parseDate(s string) *time.Time {
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

func scanDeclaration(s repository.Scanner) (Declaration, error) {
	var d Declaration
	err := s.Scan(
		&d.ID,
		&d.DeclarationID,
		&d.DeclarationGUID,
		&d.Subject,
		&d.Body,
		&d.CommercialReference,
		&d.Principal,
		&d.ImporterCode,
		&d.MRN,
		&d.Traces,
		&d.Link2,
		&d.Link4,
		&d.AcceptanceDate,
		&d.FirstSeenAt,
		&d.LastSeenAt,
		&d.TicketStatus,
		&d.TicketID,
		&d.TicketError,
		&d.TicketUpdatedAt,
	)
	return d, err
}
