package repository

import (
	"context"
	"ops-portal/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReferenceRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewReferenceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &ReferenceRepositoryImpl{
		pool: pool,
	}
}

func (r *ReferenceRepositoryImpl) Jobs(ctx context.Context, limit int) ([]model.Job, error) {
	query := `
		SELECT j.job_id::text, j.job_number, j.po_number, j.work_order, j.location,
		       j.customer_id::text, c.name
		FROM jobs j
		LEFT JOIN customers c ON c.customer_id = j.customer_id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, remoteError("jobs", err)
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Job, error) {
		var j model.Job
		err := row.Scan(&j.JobID, &j.JobNumber, &j.PONumber, &j.WorkOrder, &j.Location, &j.CustomerID, &j.CustomerName)
		return j, err
	})
	if err != nil {
		return nil, remoteError("jobs", err)
	}

	return jobs, nil
}

func (r *ReferenceRepositoryImpl) Employees(ctx context.Context, limit int) ([]model.Employee, error) {
	query := `
		SELECT employee_id::text, COALESCE(badge_id, ''), COALESCE(first_name, ''), COALESCE(last_name, '')
		FROM employees
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, remoteError("employees", err)
	}

	employees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Employee, error) {
		var e model.Employee
		err := row.Scan(&e.EmployeeID, &e.BadgeID, &e.FirstName, &e.LastName)
		return e, err
	})
	if err != nil {
		return nil, remoteError("employees", err)
	}

	return employees, nil
}

func (r *ReferenceRepositoryImpl) PayCodes(ctx context.Context) ([]model.PayCode, error) {
	query := `
		SELECT pay_code_id::text, code
		FROM paycodes
		ORDER BY code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, remoteError("paycodes", err)
	}

	codes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PayCode, error) {
		var p model.PayCode
		err := row.Scan(&p.PayCodeID, &p.Code)
		return p, err
	})
	if err != nil {
		return nil, remoteError("paycodes", err)
	}

	return codes, nil
}

func (r *ReferenceRepositoryImpl) Customers(ctx context.Context) ([]model.Customer, error) {
	query := `
		SELECT customer_id::text, name
		FROM customers
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, remoteError("customers", err)
	}

	customers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Customer, error) {
		var c model.Customer
		err := row.Scan(&c.CustomerID, &c.Name)
		return c, err
	})
	if err != nil {
		return nil, remoteError("customers", err)
	}

	return customers, nil
}

func (r *ReferenceRepositoryImpl) Suggestions(ctx context.Context) (*model.Suggestions, error) {
	var s model.Suggestions
	var err error

	if s.PONumbers, err = r.distinct(ctx, "po_number"); err != nil {
		return nil, err
	}
	if s.Locations, err = r.distinct(ctx, "location"); err != nil {
		return nil, err
	}
	if s.Emails, err = r.distinct(ctx, "email"); err != nil {
		return nil, err
	}

	return &s, nil
}

// distinct reads the used values of one header column; column is always a constant from Suggestions.
func (r *ReferenceRepositoryImpl) distinct(ctx context.Context, column string) ([]string, error) {
	query := `
		SELECT DISTINCT ` + column + `
		FROM time_tickets
		WHERE ` + column + ` IS NOT NULL AND ` + column + ` <> ''
		ORDER BY 1
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, suggestionLimit)
	if err != nil {
		return nil, remoteError("time_tickets", err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, remoteError("time_tickets", err)
	}

	return values, nil
}
