package repository

import (
	"context"
	"encoding/json"
	"errors"
	"ops-portal/internal/model"
	apperrors "ops-portal/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketRepositoryImpl calls the ticket remote procedures directly over a pgx pool.
type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

func jsonArg(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// scanRef reads ticket_id, ticket_number, weekending_date; the week-ending may still be NULL.
func scanRef(row pgx.Row) (*model.TicketRef, error) {
	var ref model.TicketRef
	var weekEnding *string
	if err := row.Scan(&ref.TicketID, &ref.TicketNumber, &weekEnding); err != nil {
		return nil, err
	}
	if weekEnding != nil {
		ref.WeekEndingDate = *weekEnding
	}
	return &ref, nil
}

func (r *TicketRepositoryImpl) CreateHeader(ctx context.Context, req model.CreateHeaderRequest) (*model.TicketRef, error) {
	var extras *string
	if !req.Extras.Empty() {
		s, err := jsonArg(req.Extras)
		if err != nil {
			return nil, err
		}
		extras = &s
	}

	query := `
		SELECT ticket_id::text, ticket_number, weekending_date::text
		FROM create_ticket_header(
			p_job_id => $1, p_ticket_date => $2::date, p_notes => $3, p_extras => $4::jsonb)
	`

	ref, err := scanRef(r.pool.QueryRow(ctx, query, req.JobID, req.TicketDate, req.Notes, extras))
	if err != nil {
		return nil, remoteError(FnCreateHeader, err)
	}

	return ref, nil
}

func (r *TicketRepositoryImpl) CreateWithLines(ctx context.Context, req model.CreateWithLinesRequest) (*model.TicketRef, error) {
	labor, err := jsonArg(req.Lines.Labor)
	if err != nil {
		return nil, err
	}
	equipment, err := jsonArg(req.Lines.Equipment)
	if err != nil {
		return nil, err
	}
	materials, err := jsonArg(req.Lines.Materials)
	if err != nil {
		return nil, err
	}
	services, err := jsonArg(req.Lines.Services)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ticket_id::text, ticket_number, weekending_date::text
		FROM create_ticket_with_lines(
			p_job_id => $1, p_ticket_date => $2::date, p_notes => $3,
			p_labor => $4::jsonb, p_equipment => $5::jsonb,
			p_materials => $6::jsonb, p_services => $7::jsonb)
		LIMIT 1
	`

	ref, err := scanRef(r.pool.QueryRow(ctx, query,
		req.JobID, req.TicketDate, req.Notes, labor, equipment, materials, services,
	))
	if err != nil {
		return nil, remoteError(FnCreateWithLines, err)
	}

	return ref, nil
}

func (r *TicketRepositoryImpl) AppendLines(ctx context.Context, req model.AppendLinesRequest) error {
	labor, err := jsonArg(req.Lines.Labor)
	if err != nil {
		return err
	}
	equipment, err := jsonArg(req.Lines.Equipment)
	if err != nil {
		return err
	}
	services, err := jsonArg(req.Lines.Services)
	if err != nil {
		return err
	}

	query := `SELECT append_lines_to_ticket(
		p_ticket_id => $1, p_labor => $2::jsonb, p_equipment => $3::jsonb, p_services => $4::jsonb)`
	args := []interface{}{req.TicketID, labor, equipment, services}

	// p_materials is only sent when there is something to append.
	if len(req.Lines.Materials) > 0 {
		materials, err := jsonArg(req.Lines.Materials)
		if err != nil {
			return err
		}
		query = `SELECT append_lines_to_ticket(
			p_ticket_id => $1, p_labor => $2::jsonb, p_equipment => $3::jsonb, p_services => $4::jsonb,
			p_materials => $5::jsonb)`
		args = append(args, materials)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return remoteError(FnAppendLines, err)
	}

	return nil
}

func (r *TicketRepositoryImpl) FindRef(ctx context.Context, ticketID string) (*model.TicketRef, error) {
	query := `
		SELECT ticket_id::text, ticket_number, weekending_date::text
		FROM time_tickets
		WHERE ticket_id = $1
	`

	ref, err := scanRef(r.pool.QueryRow(ctx, query, ticketID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, remoteError("time_tickets", err)
	}

	return ref, nil
}

func (r *TicketRepositoryImpl) Delete(ctx context.Context, ticketID string) error {
	query := `
		DELETE FROM time_tickets
		WHERE ticket_id = $1
	`

	result, err := r.pool.Exec(ctx, query, ticketID)
	if err != nil {
		return remoteError("time_tickets", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}

	return nil
}

func (r *TicketRepositoryImpl) List(ctx context.Context, params model.ListTicketsParams) ([]model.TicketSummary, error) {
	query := `
		SELECT t.ticket_id::text, t.ticket_number, t.ticket_date::text,
		       t.weekending_date::text, t.job_id::text, COALESCE(j.job_number, '')
		FROM time_tickets t
		LEFT JOIN jobs j ON j.job_id = t.job_id
		ORDER BY t.ticket_number DESC NULLS LAST
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, params.Limit)
	if err != nil {
		return nil, remoteError("time_tickets", err)
	}
	defer rows.Close()

	tickets := make([]model.TicketSummary, 0)

	for rows.Next() {
		var t model.TicketSummary
		err := rows.Scan(
			&t.TicketID,
			&t.TicketNumber,
			&t.TicketDate,
			&t.WeekEndingDate,
			&t.JobID,
			&t.JobNumber,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, remoteError("time_tickets", err)
	}

	return tickets, nil
}
