package model

// Job is a read-only snapshot of a jobs row, joined to its customer for display.
type Job struct {
	JobID        string  `json:"job_id" db:"job_id"`
	JobNumber    string  `json:"job_number" db:"job_number"`
	PONumber     *string `json:"po_number" db:"po_number"`
	WorkOrder    *string `json:"work_order" db:"work_order"`
	Location     *string `json:"location" db:"location"`
	CustomerID   *string `json:"customer_id" db:"customer_id"`
	CustomerName *string `json:"customer_name" db:"-"`
}

type Employee struct {
	EmployeeID string `json:"employee_id" db:"employee_id"`
	BadgeID    string `json:"badge_id" db:"badge_id"`
	FirstName  string `json:"first_name" db:"first_name"`
	LastName   string `json:"last_name" db:"last_name"`
}

type PayCode struct {
	PayCodeID string `json:"pay_code_id" db:"pay_code_id"`
	Code      string `json:"code" db:"code"`
}

type Customer struct {
	CustomerID string `json:"customer_id" db:"customer_id"`
	Name       string `json:"name" db:"name"`
}

// Suggestions are the distinct header values already used on tickets, offered as autocomplete.
type Suggestions struct {
	PONumbers []string `json:"po_numbers"`
	Locations []string `json:"locations"`
	Emails    []string `json:"emails"`
}

// ReferenceLimits caps the one-shot lookup reads.
type ReferenceLimits struct {
	Jobs      int
	Employees int
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (j Job) PO() string       { return deref(j.PONumber) }
func (j Job) WO() string       { return deref(j.WorkOrder) }
func (j Job) Loc() string      { return deref(j.Location) }
func (j Job) Customer() string { return deref(j.CustomerName) }
