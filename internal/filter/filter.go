// Package filter implements the case-insensitive substring searches used by the job selector
// and the ticket list. Both are order-preserving inclusion tests over already-fetched rows.
package filter

import (
	"strings"

	"ops-portal/internal/model"
)

func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func contains(field, q string) bool {
	return strings.Contains(strings.ToLower(field), q)
}

// Jobs matches job number, PO number, work order and location. An empty search returns all unchanged.
func Jobs(all []model.Job, search string) []model.Job {
	q := normalize(search)
	if q == "" {
		return all
	}
	out := make([]model.Job, 0, len(all))
	for _, j := range all {
		if contains(j.JobNumber, q) || contains(j.PO(), q) || contains(j.WO(), q) || contains(j.Loc(), q) {
			out = append(out, j)
		}
	}
	return out
}

// Tickets matches the ticket number or the joined job number.
func Tickets(all []model.TicketSummary, search string) []model.TicketSummary {
	q := normalize(search)
	if q == "" {
		return all
	}
	out := make([]model.TicketSummary, 0, len(all))
	for _, t := range all {
		if strings.Contains(t.NumberText(), q) || contains(t.JobNumber, q) {
			out = append(out, t)
		}
	}
	return out
}
