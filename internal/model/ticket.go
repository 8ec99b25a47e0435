package model

import "strconv"

// TicketRef carries the server-issued identifiers of a ticket header.
type TicketRef struct {
	TicketID       string `json:"ticket_id"`
	TicketNumber   *int64 `json:"ticket_number"`
	WeekEndingDate string `json:"weekending_date"`
}

// NumberText renders the ticket number for display and search; empty until assigned.
func (t TicketRef) NumberText() string {
	if t.TicketNumber == nil {
		return ""
	}
	return strconv.FormatInt(*t.TicketNumber, 10)
}

// TicketSummary is one row of the ticket list, joined to its job number.
type TicketSummary struct {
	TicketID       string  `json:"ticket_id"`
	TicketNumber   *int64  `json:"ticket_number"`
	TicketDate     string  `json:"ticket_date"`
	WeekEndingDate *string `json:"weekending_date"`
	JobID          string  `json:"job_id"`
	JobNumber      string  `json:"job_number"`
}

func (t TicketSummary) NumberText() string {
	if t.TicketNumber == nil {
		return ""
	}
	return strconv.FormatInt(*t.TicketNumber, 10)
}

// HeaderExtras are the optional header fields sent with create_ticket_header.
type HeaderExtras struct {
	PONumber *string `json:"po_number,omitempty"`
	Location *string `json:"location,omitempty"`
	Email    *string `json:"email,omitempty"`
}

func (e HeaderExtras) Empty() bool {
	return e.PONumber == nil && e.Location == nil && e.Email == nil
}

type CreateHeaderRequest struct {
	JobID      string
	TicketDate string
	Notes      *string
	Extras     HeaderExtras
}

type CreateWithLinesRequest struct {
	JobID      string
	TicketDate string
	Notes      *string
	Lines      LineBatch
}

type AppendLinesRequest struct {
	TicketID string
	Lines    LineBatch
}

type ListTicketsParams struct {
	Limit int
}
