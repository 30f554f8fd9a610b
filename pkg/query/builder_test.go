package query_test

import (
	"testing"
	"time"

	"github.com/douanehq/douane/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "declarations", "d").
		Project("declaration_id", "DeclarationID").
		Project("principal", "Principal").
		Project("ticket_status", "TicketStatus").
		Project("acceptance_date", "AcceptanceDate")
}

func strPtr(s string) *string {
	return &s
}

func TestBuildNoConditions(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).Build()

	expected := "SELECT d.declaration_id, d.principal, d.ticket_status, d.acceptance_date FROM public.declarations d"
	if sql != expected {
		t.Errorf("unexpected sql:\n got: %s\nwant: %s", sql, expected)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestBuildWithDefaultSort(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "AcceptanceDate", Descending: true}).Build()

	expected := "SELECT d.declaration_id, d.principal, d.ticket_status, d.acceptance_date FROM public.declarations d ORDER BY d.acceptance_date DESC"
	if sql != expected {
		t.Errorf("unexpected sql:\n got: %s\nwant: %s", sql, expected)
	}
}

func TestParamNumbering(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	sql, args := query.
		NewBuilder(testProjection()).
		WhereAtLeast("AcceptanceDate", &from).
		WhereAtMost("AcceptanceDate", &to).
		WhereEquals("TicketStatus", strPtr("NEW")).
		BuildCount()

	expected := "SELECT COUNT(*) FROM public.declarations d WHERE d.acceptance_date >= $1 AND d.acceptance_date <= $2 AND d.ticket_status = $3"
	if sql != expected {
		t.Errorf("unexpected sql:\n got: %s\nwant: %s", sql, expected)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
}

func TestRangeConditionsSkipNil(t *testing.T) {
	var from *time.Time

	sql, args := query.
		NewBuilder(testProjection()).
		WhereAtLeast("AcceptanceDate", from).
		WhereAtMost("AcceptanceDate", nil).
		BuildCount()

	expected := "SELECT COUNT(*) FROM public.declarations d"
	if sql != expected {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestWhereContains(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection()).
		WhereContains("Principal", strPtr("acme")).
		BuildCount()

	expected := "SELECT COUNT(*) FROM public.declarations d WHERE d.principal ILIKE $1"
	if sql != expected {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 1 || args[0] != "%acme%" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestWhereIn(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection()).
		WhereIn("Principal", []any{"Acme", "Meridian"}).
		BuildCount()

	expected := "SELECT COUNT(*) FROM public.declarations d WHERE d.principal IN ($1, $2)"
	if sql != expected {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 2 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestWhereSearch(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection()).
		WhereSearch(strPtr("4711"), "DeclarationID", "Principal").
		BuildCount()

	expected := "SELECT COUNT(*) FROM public.declarations d WHERE (d.declaration_id ILIKE $1 OR d.principal ILIKE $2)"
	if sql != expected {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 2 || args[0] != "%4711%" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildPage(t *testing.T) {
	sql, _ := query.
		NewBuilder(testProjection(), query.SortField{Field: "AcceptanceDate", Descending: true}).
		WhereEquals("TicketStatus", strPtr("NEW")).
		BuildPage(3, 50)

	expected := "SELECT d.declaration_id, d.principal, d.ticket_status, d.acceptance_date FROM public.declarations d WHERE d.ticket_status = $1 ORDER BY d.acceptance_date DESC LIMIT 50 OFFSET 100"
	if sql != expected {
		t.Errorf("unexpected sql:\n got: %s\nwant: %s", sql, expected)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("DeclarationID", int64(4711))

	expected := "SELECT d.declaration_id, d.principal, d.ticket_status, d.acceptance_date FROM public.declarations d WHERE d.declaration_id = $1"
	if sql != expected {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 1 || args[0] != int64(4711) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestOrderByFieldsOverridesDefault(t *testing.T) {
	sql, _ := query.
		NewBuilder(testProjection(), query.SortField{Field: "AcceptanceDate", Descending: true}).
		OrderByFields([]query.SortField{{Field: "Principal"}}).
		Build()

	expected := "SELECT d.declaration_id, d.principal, d.ticket_status, d.acceptance_date FROM public.declarations d ORDER BY d.principal ASC"
	if sql != expected {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestParseSortFields(t *testing.T) {
	fields := query.ParseSortFields("principal,-acceptanceDate")

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Field != "principal" || fields[0].Descending {
		t.Errorf("unexpected first field: %+v", fields[0])
	}
	if fields[1].Field != "acceptanceDate" || !fields[1].Descending {
		t.Errorf("unexpected second field: %+v", fields[1])
	}

	if got := query.ParseSortFields(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
