// Package draft drives a ticket from an empty form to a persisted header with its line items.
package draft

import (
	"context"
	"errors"
	"fmt"
	"ops-portal/internal/calendar"
	"ops-portal/internal/lines"
	"ops-portal/internal/model"
	"ops-portal/internal/repository"
	apperrors "ops-portal/pkg/app_errors"
	"ops-portal/pkg/logger"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type MessageType string

const (
	MessageSuccess MessageType = "success"
	MessageError   MessageType = "error"
)

type Message struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// Header is the editable ticket header. Values are free text as typed.
type Header struct {
	JobID      string `json:"job_id"`
	TicketDate string `json:"ticket_date"`
	PONumber   string `json:"po_number"`
	Location   string `json:"location"`
	Email      string `json:"email"`
	Notes      string `json:"notes"`
}

// HeaderPatch changes only the fields that are set.
type HeaderPatch struct {
	JobID      *string `json:"job_id"`
	TicketDate *string `json:"ticket_date"`
	PONumber   *string `json:"po_number"`
	Location   *string `json:"location"`
	Email      *string `json:"email"`
	Notes      *string `json:"notes"`
}

// Reference is what the controller needs from the loaded lookups.
type Reference interface {
	Job(jobID string) (model.Job, bool)
	ResolveEmployee(code string) (string, bool)
}

// View is an immutable snapshot of the draft for rendering.
type View struct {
	Mode         Mode             `json:"mode"`
	State        State            `json:"state"`
	Busy         bool             `json:"busy"`
	Header       Header           `json:"header"`
	CustomerName string           `json:"customer_name"`
	Ticket       *model.TicketRef `json:"ticket"`
	// WeekEnding is the server value once known, otherwise the local preview.
	WeekEnding          string          `json:"weekending_date"`
	WeekEndingConfirmed bool            `json:"weekending_confirmed"`
	Lines               lines.Form      `json:"lines"`
	Payload             model.LineBatch `json:"payload"`
	Dirty               bool            `json:"dirty"`
	Message             *Message        `json:"message"`
}

// Controller owns one draft ticket. All methods are safe for concurrent use; remote calls run
// without holding the lock and their results are applied in the order they complete.
type Controller struct {
	tickets repository.TicketRepository
	mode    Mode

	mu      sync.Mutex
	state   State
	restore State // state to return to when an in-flight cancel fails
	gen     uint64
	header  Header
	ref     *model.TicketRef
	form    lines.Form
	message *Message
	lookup  Reference
}

func NewController(tickets repository.TicketRepository, mode Mode) *Controller {
	if mode == "" {
		mode = ModeIncremental
	}
	return &Controller{
		tickets: tickets,
		mode:    mode,
		state:   StateEmpty,
		form:    lines.NewForm(),
	}
}

// SetReference swaps the lookups used for customer names and employee codes.
func (c *Controller) SetReference(ref Reference) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookup = ref
}

func (c *Controller) transition(to State) error {
	if !c.state.CanTransitionTo(to) {
		return transitionError(c.state, to)
	}
	c.state = to
	return nil
}

func (c *Controller) resolver() lines.EmployeeResolver {
	if c.lookup == nil {
		return nil
	}
	return c.lookup.ResolveEmployee
}

func (c *Controller) fail(text string) {
	c.message = &Message{Type: MessageError, Text: text}
}

func (c *Controller) succeed(text string) {
	c.message = &Message{Type: MessageSuccess, Text: text}
}

// reset clears everything and starts a new generation so late responses are ignored.
func (c *Controller) reset() {
	c.gen++
	c.state = StateEmpty
	c.restore = ""
	c.header = Header{}
	c.ref = nil
	c.form = lines.NewForm()
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *Controller) view() View {
	v := View{
		Mode:    c.mode,
		State:   c.state,
		Busy:    c.state.Busy(),
		Header:  c.header,
		Lines:   c.form,
		Payload: c.form.Payload(c.header.TicketDate, c.resolver()),
		Dirty:   c.form.Dirty(),
	}
	if c.lookup != nil && c.header.JobID != "" {
		if job, ok := c.lookup.Job(c.header.JobID); ok {
			v.CustomerName = job.Customer()
		}
	}
	if c.ref != nil {
		ref := *c.ref
		v.Ticket = &ref
	}
	if c.ref != nil && c.ref.WeekEndingDate != "" {
		v.WeekEnding = c.ref.WeekEndingDate
		v.WeekEndingConfirmed = true
	} else if we, err := calendar.WeekEndingString(c.header.TicketDate); err == nil {
		v.WeekEnding = we
	}
	if c.message != nil {
		m := *c.message
		v.Message = &m
	}
	return v
}

func applyPatch(h Header, p HeaderPatch) Header {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&h.JobID, p.JobID)
	set(&h.TicketDate, p.TicketDate)
	set(&h.PONumber, p.PONumber)
	set(&h.Location, p.Location)
	set(&h.Email, p.Email)
	if p.Notes != nil {
		h.Notes = *p.Notes
	}
	return h
}

// UpdateHeader applies the patch locally. In incremental mode, the first time job and date are
// both set on an empty draft the header is created remotely before returning.
func (c *Controller) UpdateHeader(ctx context.Context, patch HeaderPatch) (View, error) {
	c.mu.Lock()
	if patch.TicketDate != nil {
		if d := strings.TrimSpace(*patch.TicketDate); d != "" && !calendar.ValidDate(d) {
			c.mu.Unlock()
			return c.View(), apperrors.Validation("Ticket Date must be a date (YYYY-MM-DD).")
		}
	}

	prev := c.header
	c.header = applyPatch(c.header, patch)
	keyChanged := prev.JobID != c.header.JobID || prev.TicketDate != c.header.TicketDate

	if c.mode != ModeIncremental || !keyChanged || c.header.JobID == "" || c.header.TicketDate == "" ||
		c.state != StateEmpty || c.ref != nil {
		defer c.mu.Unlock()
		return c.view(), nil
	}

	if err := c.transition(StateCreating); err != nil {
		defer c.mu.Unlock()
		return c.view(), err
	}
	gen := c.gen
	req := model.CreateHeaderRequest{
		JobID:      c.header.JobID,
		TicketDate: c.header.TicketDate,
		Notes:      model.OptionalString(c.header.Notes),
		Extras: model.HeaderExtras{
			PONumber: model.OptionalString(c.header.PONumber),
			Location: model.OptionalString(c.header.Location),
			Email:    model.OptionalString(c.header.Email),
		},
	}
	c.message = nil
	c.mu.Unlock()

	ref, err := c.tickets.CreateHeader(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		logger.WithComponent("draft").Info("discarding stale header response", zap.String("operation", "create_header"))
		return c.view(), nil
	}
	if err != nil {
		logger.WithComponent("draft").Error("create header failed",
			zap.String("job_id", req.JobID),
			zap.Error(err))
		_ = c.transition(StateEmpty)
		c.fail(apperrors.UserMessage(err, repository.FnCreateHeader, "Failed to create draft ticket"))
		return c.view(), err
	}

	_ = c.transition(StateDrafted)
	c.adopt(*ref)
	c.succeed(fmt.Sprintf("Draft ticket %s started.", ticketLabel(c.ref)))
	return c.view(), nil
}

// adopt takes server identifiers as authoritative. Fields the response leaves empty keep
// their previous value.
func (c *Controller) adopt(ref model.TicketRef) {
	if c.ref == nil {
		c.ref = &model.TicketRef{}
	}
	if ref.TicketID != "" {
		c.ref.TicketID = ref.TicketID
	}
	if ref.TicketNumber != nil {
		n := *ref.TicketNumber
		c.ref.TicketNumber = &n
	}
	if ref.WeekEndingDate != "" {
		c.ref.WeekEndingDate = ref.WeekEndingDate
	}
}

func ticketLabel(ref *model.TicketRef) string {
	if ref == nil {
		return "(created)"
	}
	if n := ref.NumberText(); n != "" {
		return n
	}
	if ref.TicketID != "" {
		return ref.TicketID
	}
	return "(created)"
}

// editable rejects line edits while a batch is in flight; a successful save resets the form,
// so rows edited meanwhile would be lost without ever being sent.
func (c *Controller) editable() error {
	if c.state == StateSubmitting || c.state == StateCancelling {
		return transitionError(c.state, c.state)
	}
	return nil
}

func (c *Controller) AddRow(kind lines.Kind) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return c.view(), err
	}
	form, err := c.form.Add(kind)
	if err != nil {
		return c.view(), err
	}
	c.form = form
	return c.view(), nil
}

func (c *Controller) RemoveRow(kind lines.Kind, i int) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return c.view(), err
	}
	form, err := c.form.Remove(kind, i)
	if err != nil {
		return c.view(), err
	}
	c.form = form
	return c.view(), nil
}

func (c *Controller) UpdateRow(kind lines.Kind, i int, field, value string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return c.view(), err
	}
	form, err := c.form.Update(kind, i, field, value)
	if err != nil {
		return c.view(), err
	}
	c.form = form
	return c.view(), nil
}

// SaveLines appends the qualifying rows to the drafted ticket. Success clears the line form;
// failure keeps every row for another attempt.
func (c *Controller) SaveLines(ctx context.Context) (View, error) {
	c.mu.Lock()
	if c.mode != ModeIncremental {
		defer c.mu.Unlock()
		return c.view(), fmt.Errorf("%w: saving lines requires an incremental draft", apperrors.ErrInvalidTransition)
	}
	if c.ref == nil || c.ref.TicketID == "" {
		defer c.mu.Unlock()
		return c.view(), apperrors.ErrNoDraft
	}
	batch := c.form.Payload(c.header.TicketDate, c.resolver())
	if batch.Len() == 0 {
		defer c.mu.Unlock()
		return c.view(), apperrors.Validation("Add at least one complete line before saving.")
	}
	if err := c.transition(StateSubmitting); err != nil {
		defer c.mu.Unlock()
		return c.view(), err
	}
	gen := c.gen
	req := model.AppendLinesRequest{TicketID: c.ref.TicketID, Lines: batch}
	c.message = nil
	c.mu.Unlock()

	err := c.tickets.AppendLines(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		logger.WithComponent("draft").Info("discarding stale append response",
			zap.String("operation", "append_lines"),
			zap.String("ticket_id", req.TicketID))
		return c.view(), nil
	}
	c.settle(StateDrafted)
	if err != nil {
		logger.WithComponent("draft").Error("append lines failed",
			zap.String("ticket_id", req.TicketID),
			zap.Error(err))
		c.fail(apperrors.UserMessage(err, repository.FnAppendLines, "Failed to save lines"))
		return c.view(), err
	}

	c.form = lines.NewForm()
	c.succeed(fmt.Sprintf("Lines added to ticket %s.", ticketLabel(c.ref)))
	return c.view(), nil
}

// settle ends a submission. A cancel may have started meanwhile; then the target becomes the
// state that cancel falls back to.
func (c *Controller) settle(to State) {
	if c.state == StateCancelling {
		c.restore = to
		return
	}
	_ = c.transition(to)
}

// Submit creates header and lines in one call. Header fields are kept for the next ticket.
func (c *Controller) Submit(ctx context.Context) (View, error) {
	c.mu.Lock()
	if c.mode != ModeSingle {
		defer c.mu.Unlock()
		return c.view(), fmt.Errorf("%w: submit requires single mode", apperrors.ErrInvalidTransition)
	}
	c.message = nil
	if c.header.JobID == "" || c.header.TicketDate == "" {
		defer c.mu.Unlock()
		err := apperrors.Validation("Job and Ticket Date are required.")
		c.fail(err.Error())
		return c.view(), err
	}
	if err := c.transition(StateSubmitting); err != nil {
		defer c.mu.Unlock()
		return c.view(), err
	}
	gen := c.gen
	req := model.CreateWithLinesRequest{
		JobID:      c.header.JobID,
		TicketDate: c.header.TicketDate,
		Notes:      model.OptionalString(c.header.Notes),
		Lines:      c.form.Payload(c.header.TicketDate, c.resolver()),
	}
	c.mu.Unlock()

	ref, err := c.tickets.CreateWithLines(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return c.view(), nil
	}
	_ = c.transition(StateEmpty)
	if err != nil {
		logger.WithComponent("draft").Error("create ticket with lines failed",
			zap.String("job_id", req.JobID),
			zap.Error(err))
		c.fail(apperrors.UserMessage(err, repository.FnCreateWithLines, "Failed to save"))
		return c.view(), err
	}

	c.form = lines.NewForm()
	c.succeed(fmt.Sprintf("Ticket %s created with all lines.", ticketLabel(ref)))
	return c.view(), nil
}

// Cancel deletes the drafted header. A dirty line form needs confirmed=true. Cancelling a draft
// that was never persisted only clears the form.
func (c *Controller) Cancel(ctx context.Context, confirmed bool) (View, error) {
	c.mu.Lock()
	if c.state == StateEmpty {
		defer c.mu.Unlock()
		if c.form.Dirty() && !confirmed {
			return c.view(), apperrors.ErrConfirmationRequired
		}
		c.reset()
		c.message = nil
		return c.view(), nil
	}
	if c.mode != ModeIncremental || c.ref == nil {
		defer c.mu.Unlock()
		return c.view(), transitionError(c.state, StateCancelling)
	}
	if !c.state.CanTransitionTo(StateCancelling) {
		defer c.mu.Unlock()
		return c.view(), transitionError(c.state, StateCancelling)
	}
	if c.form.Dirty() && !confirmed {
		defer c.mu.Unlock()
		return c.view(), apperrors.ErrConfirmationRequired
	}
	c.restore = c.state
	_ = c.transition(StateCancelling)
	gen := c.gen
	ticketID := c.ref.TicketID
	c.message = nil
	c.mu.Unlock()

	err := c.tickets.Delete(ctx, ticketID)
	if errors.Is(err, apperrors.ErrTicketNotFound) {
		err = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return c.view(), nil
	}
	if err != nil {
		logger.WithComponent("draft").Error("cancel draft failed",
			zap.String("ticket_id", ticketID),
			zap.Error(err))
		_ = c.transition(c.restore)
		c.restore = ""
		c.fail(apperrors.UserMessage(err, "", "Failed to cancel draft"))
		return c.view(), err
	}

	c.reset()
	c.succeed("Draft ticket cancelled.")
	return c.view(), nil
}

// Refresh re-reads the server identifiers of the drafted ticket.
func (c *Controller) Refresh(ctx context.Context) (View, error) {
	c.mu.Lock()
	if c.ref == nil || c.ref.TicketID == "" || c.state == StateCancelling {
		defer c.mu.Unlock()
		return c.view(), apperrors.ErrNoDraft
	}
	gen := c.gen
	ticketID := c.ref.TicketID
	c.mu.Unlock()

	ref, err := c.tickets.FindRef(ctx, ticketID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.ref == nil || c.ref.TicketID != ticketID {
		return c.view(), nil
	}
	if err != nil {
		logger.WithComponent("draft").Warn("refresh draft failed",
			zap.String("ticket_id", ticketID),
			zap.Error(err))
		c.fail(apperrors.UserMessage(err, "", "Failed to refresh ticket"))
		return c.view(), err
	}
	c.adopt(*ref)
	return c.view(), nil
}
