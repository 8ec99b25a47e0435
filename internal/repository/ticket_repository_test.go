package repository_test

import (
	"context"
	"errors"
	"testing"

	"ops-portal/internal/model"
	"ops-portal/internal/repository"
	"ops-portal/internal/testutil"
	apperrors "ops-portal/pkg/app_errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schema = `
	DROP FUNCTION IF EXISTS create_ticket_header(text, date, text, jsonb);
	DROP TABLE IF EXISTS time_tickets, jobs, customers;

	CREATE TABLE customers (customer_id uuid PRIMARY KEY, name text NOT NULL);
	CREATE TABLE jobs (
		job_id uuid PRIMARY KEY,
		job_number text NOT NULL,
		po_number text,
		work_order text,
		location text,
		customer_id uuid REFERENCES customers
	);
	CREATE TABLE time_tickets (
		ticket_id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		ticket_number bigserial,
		ticket_date date NOT NULL,
		weekending_date date,
		job_id uuid REFERENCES jobs,
		notes text,
		extras jsonb
	);

	CREATE FUNCTION create_ticket_header(p_job_id text, p_ticket_date date, p_notes text, p_extras jsonb)
	RETURNS TABLE (ticket_id uuid, ticket_number bigint, weekending_date date)
	LANGUAGE sql AS $$
		INSERT INTO time_tickets (job_id, ticket_date, weekending_date, notes, extras)
		VALUES (p_job_id::uuid, p_ticket_date,
		        p_ticket_date + ((7 - extract(dow FROM p_ticket_date)::int) % 7), p_notes, p_extras)
		RETURNING ticket_id, ticket_number, weekending_date
	$$;
`

const (
	jobID      = "6f1c1b0e-0000-4000-8000-000000000001"
	customerID = "6f1c1b0e-0000-4000-8000-0000000000c1"
)

func setupSchema(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool := testutil.Postgres(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO customers VALUES ($1, 'Acme')`, customerID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO jobs VALUES ($1, '1001', 'PO-7', NULL, 'North yard', $2)`, jobID, customerID)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `
			DROP FUNCTION IF EXISTS create_ticket_header(text, date, text, jsonb);
			DROP TABLE IF EXISTS time_tickets, jobs, customers;
		`)
	})
	return pool
}

func TestTicketRepository_Lifecycle(t *testing.T) {
	pool := setupSchema(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()

	po := "PO-7"
	ref, err := repo.CreateHeader(ctx, model.CreateHeaderRequest{
		JobID:      jobID,
		TicketDate: "2024-03-14",
		Extras:     model.HeaderExtras{PONumber: &po},
	})
	require.NoError(t, err)
	require.NotNil(t, ref.TicketNumber)
	assert.Equal(t, "2024-03-17", ref.WeekEndingDate)

	found, err := repo.FindRef(ctx, ref.TicketID)
	require.NoError(t, err)
	assert.Equal(t, ref.TicketID, found.TicketID)
	assert.Equal(t, *ref.TicketNumber, *found.TicketNumber)

	list, err := repo.List(ctx, model.ListTicketsParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1001", list[0].JobNumber)
	assert.Equal(t, "2024-03-14", list[0].TicketDate)

	require.NoError(t, repo.Delete(ctx, ref.TicketID))
	assert.ErrorIs(t, repo.Delete(ctx, ref.TicketID), apperrors.ErrTicketNotFound)

	_, err = repo.FindRef(ctx, ref.TicketID)
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestTicketRepository_MissingFunction(t *testing.T) {
	pool := setupSchema(t)
	repo := repository.NewTicketRepository(pool)

	err := repo.AppendLines(context.Background(), model.AppendLinesRequest{
		TicketID: "6f1c1b0e-0000-4000-8000-00000000ffff",
	})

	var remote *apperrors.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, repository.FnAppendLines, remote.Op)
	assert.Equal(t, "42883", remote.Code)
	assert.True(t, remote.FunctionMissing())
}

func TestReferenceRepository_Jobs(t *testing.T) {
	pool := setupSchema(t)
	repo := repository.NewReferenceRepository(pool)

	jobs, err := repo.Jobs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "1001", jobs[0].JobNumber)
	require.NotNil(t, jobs[0].CustomerName)
	assert.Equal(t, "Acme", *jobs[0].CustomerName)
	assert.Nil(t, jobs[0].WorkOrder)
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, repository.Distinct([]string{"a", "", "b", "a"}))
	assert.Empty(t, repository.Distinct(nil))
}
