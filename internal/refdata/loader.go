// Package refdata loads the read-only lookup tables a ticket draft is built from.
package refdata

import (
	"context"
	"fmt"
	"ops-portal/internal/model"
	"ops-portal/internal/repository"
	apperrors "ops-portal/pkg/app_errors"
	"ops-portal/pkg/logger"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindJobs        Kind = "jobs"
	KindEmployees   Kind = "employees"
	KindPayCodes    Kind = "paycodes"
	KindCustomers   Kind = "customers"
	KindSuggestions Kind = "suggestions"
)

// Kinds is the declaration order; Snapshot.Message reports the last failing kind in this order.
var Kinds = []Kind{KindJobs, KindEmployees, KindPayCodes, KindCustomers, KindSuggestions}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownLookup, s)
}

// Snapshot is one consistent read of every lookup. A failed lookup leaves its slice empty
// and records the reason under Errors.
type Snapshot struct {
	Jobs        []model.Job       `json:"jobs"`
	Employees   []model.Employee  `json:"employees"`
	PayCodes    []model.PayCode   `json:"paycodes"`
	Customers   []model.Customer  `json:"customers"`
	Suggestions model.Suggestions `json:"suggestions"`
	Errors      map[Kind]string   `json:"errors,omitempty"`
	LoadedAt    time.Time         `json:"loaded_at"`
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Jobs:      []model.Job{},
		Employees: []model.Employee{},
		PayCodes:  []model.PayCode{},
		Customers: []model.Customer{},
		Suggestions: model.Suggestions{
			PONumbers: []string{},
			Locations: []string{},
			Emails:    []string{},
		},
		Errors: map[Kind]string{},
	}
}

func (s *Snapshot) clone() *Snapshot {
	c := *s
	c.Errors = make(map[Kind]string, len(s.Errors))
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	return &c
}

// Message is the single banner text: the last failing lookup wins.
func (s *Snapshot) Message() string {
	if s == nil {
		return ""
	}
	msg := ""
	for _, k := range Kinds {
		if e, ok := s.Errors[k]; ok {
			msg = e
		}
	}
	return msg
}

// ResolveEmployee maps a badge code to an employee id. Matching ignores case and surrounding space.
func (s *Snapshot) ResolveEmployee(code string) (string, bool) {
	if s == nil {
		return "", false
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	for _, e := range s.Employees {
		if strings.EqualFold(e.BadgeID, code) {
			return e.EmployeeID, true
		}
	}
	return "", false
}

func (s *Snapshot) Job(jobID string) (model.Job, bool) {
	if s != nil {
		for _, j := range s.Jobs {
			if j.JobID == jobID {
				return j, true
			}
		}
	}
	return model.Job{}, false
}

type Loader struct {
	repo   repository.ReferenceRepository
	limits model.ReferenceLimits
	now    func() time.Time
}

func NewLoader(repo repository.ReferenceRepository, limits model.ReferenceLimits) *Loader {
	if limits.Jobs <= 0 {
		limits.Jobs = 1000
	}
	if limits.Employees <= 0 {
		limits.Employees = 2000
	}
	return &Loader{repo: repo, limits: limits, now: time.Now}
}

type result struct {
	kind  Kind
	apply func(*Snapshot)
	err   error
}

func (l *Loader) fetch(ctx context.Context, kind Kind) result {
	r := result{kind: kind}
	switch kind {
	case KindJobs:
		jobs, err := l.repo.Jobs(ctx, l.limits.Jobs)
		r.err = err
		r.apply = func(s *Snapshot) { s.Jobs = nonNil(jobs) }
	case KindEmployees:
		emps, err := l.repo.Employees(ctx, l.limits.Employees)
		r.err = err
		r.apply = func(s *Snapshot) { s.Employees = nonNil(emps) }
	case KindPayCodes:
		pcs, err := l.repo.PayCodes(ctx)
		r.err = err
		r.apply = func(s *Snapshot) { s.PayCodes = nonNil(pcs) }
	case KindCustomers:
		custs, err := l.repo.Customers(ctx)
		r.err = err
		r.apply = func(s *Snapshot) { s.Customers = nonNil(custs) }
	case KindSuggestions:
		sug, err := l.repo.Suggestions(ctx)
		r.err = err
		r.apply = func(s *Snapshot) {
			if sug != nil {
				s.Suggestions = model.Suggestions{
					PONumbers: nonNil(sug.PONumbers),
					Locations: nonNil(sug.Locations),
					Emails:    nonNil(sug.Emails),
				}
			}
		}
	default:
		r.err = fmt.Errorf("%w: %q", apperrors.ErrUnknownLookup, kind)
	}
	return r
}

func (l *Loader) record(s *Snapshot, r result) {
	if r.err != nil {
		logger.WithComponent("refdata").Warn("lookup failed",
			zap.String("kind", string(r.kind)),
			zap.Error(r.err))
		s.Errors[r.kind] = r.err.Error()
		return
	}
	delete(s.Errors, r.kind)
	r.apply(s)
}

// Load reads every lookup concurrently. Each lookup fails independently; the returned error is
// non-nil only when ctx ended first, in which case nothing is returned.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	results := make(chan result, len(Kinds))

	var wg sync.WaitGroup
	for _, k := range Kinds {
		wg.Add(1)
		go func(k Kind) {
			defer wg.Done()
			results <- l.fetch(ctx, k)
		}(k)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	snap := emptySnapshot()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r, ok := <-results:
			if !ok {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				snap.LoadedAt = l.now()
				return snap, nil
			}
			l.record(snap, r)
		}
	}
}

// Retry reloads one lookup and returns a new snapshot; the others are carried over untouched.
func (l *Loader) Retry(ctx context.Context, snap *Snapshot, kind Kind) (*Snapshot, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if snap == nil {
		snap = emptySnapshot()
	}

	r := l.fetch(ctx, kind)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next := snap.clone()
	l.record(next, r)
	next.LoadedAt = l.now()
	return next, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
