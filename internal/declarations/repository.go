package declarations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/douanehq/douane/pkg/pagination"
	"github.com/douanehq/douane/pkg/query"
	"github.com/douanehq/douane/pkg/repository"
	"github.com/douanehq/douane/pkg/ticketing"
)

const declarationColumns = `id, declaration_id, declaration_guid, subject, body,
	commercial_reference, principal, importer_code, mrn, traces, link2, link4,
	acceptance_date, first_seen_at, last_seen_at, ticket_status, ticket_id,
	ticket_error, ticket_updated_at`

type repo struct {
	db         *sql.DB
	tickets    ticketing.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a declaration repository implementing the System interface.
func New(
	db *sql.DB,
	tickets ticketing.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		tickets:    tickets,
		logger:     logger.With("system", "declarations"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Declaration], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Subject", "CommercialReference", "MRN")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count declarations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDeclaration)
	if err != nil {
		return nil, fmt.Errorf("query declarations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, declarationID int64) (*Declaration, error) {
	q, args := query.NewBuilder(projection).BuildSingle("DeclarationID", declarationID)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDeclaration)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

// UpsertBatch applies a batch of synced records in a single transaction.
// New declaration ids are inserted; known ids only get last_seen_at touched,
// leaving descriptive and ticket fields untouched. Any failure rolls back
// the entire batch.
func (r *repo) UpsertBatch(ctx context.Context, records []Record) (*UpsertStats, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}
	for _, rec := range records {
		if rec.DeclarationID == 0 {
			return nil, ErrMissingID
		}
	}

	upsertQ := `
		INSERT INTO declarations(
			id, declaration_id, declaration_guid, subject, body,
			commercial_reference, principal, importer_code, mrn,
			traces, link2, link4, acceptance_date, first_seen_at, last_seen_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (declaration_id) DO UPDATE SET last_seen_at = NOW()`

	upserted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		applied := 0
		for _, rec := range records {
			result, err := tx.ExecContext(ctx, upsertQ,
				uuid.New(),
				rec.DeclarationID,
				rec.DeclarationGUID,
				rec.Subject,
				rec.Body,
				rec.CommercialReference,
				rec.Principal,
				rec.ImporterCode,
				rec.MRN,
				rec.Traces,
				rec.Link2,
				rec.Link4,
				rec.AcceptanceDate,
			)
			if err != nil {
				return 0, fmt.Errorf("upsert declaration %d: %w", rec.DeclarationID, err)
			}

			rows, err := result.RowsAffected()
			if err != nil {
				return 0, err
			}
			applied += int(rows)
		}
		return applied, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("batch upserted", "received", len(records), "upserted", upserted)
	return &UpsertStats{Received: len(records), Upserted: upserted}, nil
}

// RequestTicket drives one declaration through the ticket-creation state
// machine. The PENDING claim is an atomic conditional update: only NEW and
// FAILED rows qualify, so a concurrent request for the same id loses the
// race and observes the in-flight or created state instead of double-calling
// the CRM. The claim is committed before the external call starts, so a
// crash mid-flight leaves the record visibly PENDING.
func (r *repo) RequestTicket(ctx context.Context, declarationID int64) (*Declaration, error) {
	claimQ := fmt.Sprintf(`
		UPDATE declarations
		SET ticket_status = 'PENDING', ticket_updated_at = NOW()
		WHERE declaration_id = $1 AND ticket_status IN ('NEW', 'FAILED')
		RETURNING %s`, declarationColumns)

	claimed, err := repository.QueryOne(ctx, r.db, claimQ, []any{declarationID}, scanDeclaration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.diagnoseClaim(ctx, declarationID)
		}
		return nil, fmt.Errorf("claim declaration %d: %w", declarationID, err)
	}

	ticketID, err := r.tickets.Create(ctx, ticketing.Request{
		DeclarationID:       claimed.DeclarationID,
		DeclarationGUID:     claimed.DeclarationGUID,
		Subject:             claimed.Subject,
		Body:                claimed.Body,
		CommercialReference: claimed.CommercialReference,
		Principal:           claimed.Principal,
		ImporterCode:        claimed.ImporterCode,
		MRN:                 claimed.MRN,
	})

	if err != nil {
		r.recordFailure(ctx, declarationID, err)
		return nil, fmt.Errorf("create ticket for declaration %d: %w", declarationID, err)
	}

	createdQ := fmt.Sprintf(`
		UPDATE declarations
		SET ticket_status = 'CREATED', ticket_id = $2, ticket_error = NULL,
			ticket_updated_at = NOW()
		WHERE declaration_id = $1 AND ticket_status = 'PENDING'
		RETURNING %s`, declarationColumns)

	d, err := repository.QueryOne(ctx, r.db, createdQ, []any{declarationID, ticketID}, scanDeclaration)
	if err != nil {
		return nil, fmt.Errorf("record ticket %d for declaration %d: %w", ticketID, declarationID, err)
	}

	r.logger.Info("ticket created",
		"declaration_id", declarationID,
		"ticket_id", ticketID,
	)
	return &d, nil
}

// diagnoseClaim distinguishes why the PENDING claim matched no rows.
func (r *repo) diagnoseClaim(ctx context.Context, declarationID int64) error {
	d, err := r.Find(ctx, declarationID)
	if err != nil {
		return err
	}

	switch d.TicketStatus {
	case TicketCreated:
		return ErrAlreadyCreated
	case TicketPending:
		return ErrTicketInFlight
	default:
		return ErrTicketInFlight
	}
}

// recordFailure persists the FAILED state with the collaborator's message.
// The write uses a detached context: the request context may already be
// expired when the CRM call timed out.
func (r *repo) recordFailure(ctx context.Context, declarationID int64, cause error) {
	failQ := `
		UPDATE declarations
		SET ticket_status = 'FAILED', ticket_error = $2, ticket_updated_at = NOW()
		WHERE declaration_id = $1 AND ticket_status = 'PENDING'`

	writeCtx := context.WithoutCancel(ctx)
	if err := repository.ExecExpectOne(writeCtx, r.db, failQ, declarationID, cause.Error()); err != nil {
		r.logger.Error("failed to record ticket failure",
			"declaration_id", declarationID,
			"cause", cause,
			"error", err,
		)
		return
	}

	r.logger.Warn("ticket creation failed",
		"declaration_id", declarationID,
		"error", cause,
	)
}
