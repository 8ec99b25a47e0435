package postgrest

import (
	"context"
	"net/url"
	"ops-portal/internal/model"
	"ops-portal/internal/repository"
	"strconv"
)

type ReferenceRepository struct {
	client *Client
}

func NewReferenceRepository(client *Client) repository.ReferenceRepository {
	return &ReferenceRepository{client: client}
}

func (r *ReferenceRepository) Jobs(ctx context.Context, limit int) ([]model.Job, error) {
	q := url.Values{}
	q.Set("select", "job_id,job_number,po_number,work_order,location,customer_id,customers:customer_id(name)")
	q.Set("limit", strconv.Itoa(limit))

	var rows []struct {
		model.Job
		Customers *struct {
			Name string `json:"name"`
		} `json:"customers"`
	}
	if err := r.client.Select(ctx, "jobs", q, &rows); err != nil {
		return nil, err
	}

	jobs := make([]model.Job, 0, len(rows))
	for _, row := range rows {
		j := row.Job
		if row.Customers != nil {
			name := row.Customers.Name
			j.CustomerName = &name
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (r *ReferenceRepository) Employees(ctx context.Context, limit int) ([]model.Employee, error) {
	q := url.Values{}
	q.Set("select", "employee_id,badge_id,first_name,last_name")
	q.Set("limit", strconv.Itoa(limit))

	employees := make([]model.Employee, 0)
	if err := r.client.Select(ctx, "employees", q, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *ReferenceRepository) PayCodes(ctx context.Context) ([]model.PayCode, error) {
	q := url.Values{}
	q.Set("select", "pay_code_id,code")
	q.Set("order", "code")

	codes := make([]model.PayCode, 0)
	if err := r.client.Select(ctx, "paycodes", q, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *ReferenceRepository) Customers(ctx context.Context) ([]model.Customer, error) {
	q := url.Values{}
	q.Set("select", "customer_id,name")
	q.Set("order", "name")

	customers := make([]model.Customer, 0)
	if err := r.client.Select(ctx, "customers", q, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// Suggestions reads the header columns of recent tickets and de-duplicates them locally; the REST
// API has no DISTINCT.
func (r *ReferenceRepository) Suggestions(ctx context.Context) (*model.Suggestions, error) {
	q := url.Values{}
	q.Set("select", "po_number,location,email")
	q.Set("order", "ticket_number.desc")
	q.Set("limit", "1000")

	var rows []struct {
		PONumber *string `json:"po_number"`
		Location *string `json:"location"`
		Email    *string `json:"email"`
	}
	if err := r.client.Select(ctx, "time_tickets", q, &rows); err != nil {
		return nil, err
	}

	var po, loc, email []string
	for _, row := range rows {
		if row.PONumber != nil {
			po = append(po, *row.PONumber)
		}
		if row.Location != nil {
			loc = append(loc, *row.Location)
		}
		if row.Email != nil {
			email = append(email, *row.Email)
		}
	}
	return &model.Suggestions{
		PONumbers: repository.Distinct(po),
		Locations: repository.Distinct(loc),
		Emails:    repository.Distinct(email),
	}, nil
}
