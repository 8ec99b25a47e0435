package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"ops-portal/internal/model"
	"ops-portal/internal/repository"
	apperrors "ops-portal/pkg/app_errors"
	"strconv"
)

type TicketRepository struct {
	client *Client
}

func NewTicketRepository(client *Client) repository.TicketRepository {
	return &TicketRepository{client: client}
}

// refResult accepts either a single row or a set of rows, whichever the procedure returns.
type refResult struct {
	rows []model.TicketRef
}

func (r *refResult) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &r.rows)
	}
	var one model.TicketRef
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	r.rows = []model.TicketRef{one}
	return nil
}

func (r *refResult) first(op string) (*model.TicketRef, error) {
	if len(r.rows) == 0 || r.rows[0].TicketID == "" {
		return nil, &apperrors.RemoteError{Op: op, Message: "no ticket returned"}
	}
	ref := r.rows[0]
	return &ref, nil
}

func (r *TicketRepository) CreateHeader(ctx context.Context, req model.CreateHeaderRequest) (*model.TicketRef, error) {
	args := map[string]interface{}{
		"p_job_id":      req.JobID,
		"p_ticket_date": req.TicketDate,
		"p_notes":       req.Notes,
	}
	if !req.Extras.Empty() {
		args["p_extras"] = req.Extras
	}

	var out refResult
	if err := r.client.RPC(ctx, repository.FnCreateHeader, args, &out); err != nil {
		return nil, err
	}
	return out.first(repository.FnCreateHeader)
}

func (r *TicketRepository) CreateWithLines(ctx context.Context, req model.CreateWithLinesRequest) (*model.TicketRef, error) {
	args := map[string]interface{}{
		"p_job_id":      req.JobID,
		"p_ticket_date": req.TicketDate,
		"p_notes":       req.Notes,
		"p_labor":       req.Lines.Labor,
		"p_equipment":   req.Lines.Equipment,
		"p_materials":   req.Lines.Materials,
		"p_services":    req.Lines.Services,
	}

	var out refResult
	if err := r.client.RPC(ctx, repository.FnCreateWithLines, args, &out); err != nil {
		return nil, err
	}
	return out.first(repository.FnCreateWithLines)
}

func (r *TicketRepository) AppendLines(ctx context.Context, req model.AppendLinesRequest) error {
	args := map[string]interface{}{
		"p_ticket_id": req.TicketID,
		"p_labor":     req.Lines.Labor,
		"p_equipment": req.Lines.Equipment,
		"p_services":  req.Lines.Services,
	}
	if len(req.Lines.Materials) > 0 {
		args["p_materials"] = req.Lines.Materials
	}
	return r.client.RPC(ctx, repository.FnAppendLines, args, nil)
}

func (r *TicketRepository) FindRef(ctx context.Context, ticketID string) (*model.TicketRef, error) {
	q := url.Values{}
	q.Set("select", "ticket_id,ticket_number,weekending_date")
	q.Set("ticket_id", eq(ticketID))

	var rows []struct {
		TicketID       string  `json:"ticket_id"`
		TicketNumber   *int64  `json:"ticket_number"`
		WeekEndingDate *string `json:"weekending_date"`
	}
	if err := r.client.Select(ctx, "time_tickets", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrTicketNotFound
	}
	ref := &model.TicketRef{TicketID: rows[0].TicketID, TicketNumber: rows[0].TicketNumber}
	if rows[0].WeekEndingDate != nil {
		ref.WeekEndingDate = *rows[0].WeekEndingDate
	}
	return ref, nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID string) error {
	q := url.Values{}
	q.Set("ticket_id", eq(ticketID))

	n, err := r.client.Delete(ctx, "time_tickets", q)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) List(ctx context.Context, params model.ListTicketsParams) ([]model.TicketSummary, error) {
	q := url.Values{}
	q.Set("select", "ticket_id,ticket_number,ticket_date,weekending_date,job_id,jobs:job_id(job_number)")
	q.Set("order", "ticket_number.desc.nullslast")
	q.Set("limit", strconv.Itoa(params.Limit))

	var rows []struct {
		model.TicketSummary
		Jobs *struct {
			JobNumber string `json:"job_number"`
		} `json:"jobs"`
	}
	if err := r.client.Select(ctx, "time_tickets", q, &rows); err != nil {
		return nil, err
	}

	tickets := make([]model.TicketSummary, 0, len(rows))
	for _, row := range rows {
		t := row.TicketSummary
		if row.Jobs != nil {
			t.JobNumber = row.Jobs.JobNumber
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}
