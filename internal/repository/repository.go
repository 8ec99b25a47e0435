package repository

import (
	"context"
	"errors"
	"ops-portal/internal/model"
	apperrors "ops-portal/pkg/app_errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// TicketRepository is the remote procedure boundary for ticket headers and their lines.
type TicketRepository interface {
	// create_ticket_header
	CreateHeader(ctx context.Context, req model.CreateHeaderRequest) (*model.TicketRef, error)
	// create_ticket_with_lines
	CreateWithLines(ctx context.Context, req model.CreateWithLinesRequest) (*model.TicketRef, error)
	// append_lines_to_ticket
	AppendLines(ctx context.Context, req model.AppendLinesRequest) error
	FindRef(ctx context.Context, ticketID string) (*model.TicketRef, error)
	Delete(ctx context.Context, ticketID string) error
	List(ctx context.Context, params model.ListTicketsParams) ([]model.TicketSummary, error)
}

// ReferenceRepository reads the lookup tables owned by the data store.
type ReferenceRepository interface {
	Jobs(ctx context.Context, limit int) ([]model.Job, error)
	Employees(ctx context.Context, limit int) ([]model.Employee, error)
	PayCodes(ctx context.Context) ([]model.PayCode, error)
	Customers(ctx context.Context) ([]model.Customer, error)
	Suggestions(ctx context.Context) (*model.Suggestions, error)
}

const (
	FnCreateHeader    = "create_ticket_header"
	FnCreateWithLines = "create_ticket_with_lines"
	FnAppendLines     = "append_lines_to_ticket"

	suggestionLimit = 500
)

type accessTokenKey struct{}

// WithAccessToken scopes remote calls to the signed-in user's token so row-level security applies.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func AccessToken(ctx context.Context) string {
	tok, _ := ctx.Value(accessTokenKey{}).(string)
	return tok
}

func remoteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &apperrors.RemoteError{
			Op:      op,
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Hint:    pgErr.Hint,
		}
	}
	return &apperrors.RemoteError{Op: op, Message: err.Error()}
}

// Distinct keeps the first occurrence of every non-empty value, in order.
func Distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
