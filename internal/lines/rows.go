package lines

import (
	"fmt"

	"ops-portal/internal/model"
	apperrors "ops-portal/pkg/app_errors"
)

// EmployeeResolver maps an employee badge code to its employee id.
type EmployeeResolver func(code string) (string, bool)

func unknownField(kind Kind, field string) error {
	return fmt.Errorf("%w: %s.%s", apperrors.ErrUnknownField, kind, field)
}

type LaborRow struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	PayCodeID    string `json:"pay_code_id"`
	Hours        string `json:"hours"`
	DayDate      string `json:"day_date"`
}

func BlankLabor() LaborRow {
	return LaborRow{Hours: "8"}
}

func (r LaborRow) With(field, value string) (LaborRow, error) {
	switch field {
	case "employee_id":
		r.EmployeeID = value
	case "employee_code":
		r.EmployeeCode = value
	case "pay_code_id":
		r.PayCodeID = value
	case "hours":
		r.Hours = value
	case "day_date":
		r.DayDate = value
	default:
		return r, unknownField(KindLabor, field)
	}
	return r, nil
}

func (r LaborRow) Blank() bool {
	return r == BlankLabor()
}

func (r LaborRow) employee(resolve EmployeeResolver) string {
	if r.EmployeeID != "" {
		return r.EmployeeID
	}
	if r.EmployeeCode == "" || resolve == nil {
		return ""
	}
	id, _ := resolve(r.EmployeeCode)
	return id
}

// line qualifies the row: employee, pay code and strictly positive hours are all required.
func (r LaborRow) line(ticketDate string, resolve EmployeeResolver) (model.LaborLine, bool) {
	employeeID := r.employee(resolve)
	hours := model.ParseNumber(r.Hours)
	if employeeID == "" || r.PayCodeID == "" || hours == nil || !hours.IsPositive() {
		return model.LaborLine{}, false
	}
	day := r.DayDate
	if day == "" {
		day = ticketDate
	}
	return model.LaborLine{
		EmployeeID: employeeID,
		PayCodeID:  r.PayCodeID,
		Hours:      *hours,
		DayDate:    day,
	}, true
}

type EquipmentRow struct {
	EquipmentCode string `json:"equipment_code"`
	Quantity      string `json:"quantity"`
	Hours         string `json:"hours"`
	Rate          string `json:"rate"`
	Cost          string `json:"cost"`
	Notes         string `json:"notes"`
}

func (r EquipmentRow) With(field, value string) (EquipmentRow, error) {
	switch field {
	case "equipment_code":
		r.EquipmentCode = value
	case "quantity":
		r.Quantity = value
	case "hours":
		r.Hours = value
	case "rate":
		r.Rate = value
	case "cost":
		r.Cost = value
	case "notes":
		r.Notes = value
	default:
		return r, unknownField(KindEquipment, field)
	}
	return r, nil
}

func (r EquipmentRow) Blank() bool {
	return r == EquipmentRow{}
}

func (r EquipmentRow) line() (model.EquipmentLine, bool) {
	if r.EquipmentCode == "" || !(model.Positive(r.Hours) || model.Positive(r.Quantity)) {
		return model.EquipmentLine{}, false
	}
	return model.EquipmentLine{
		EquipmentCode: r.EquipmentCode,
		Quantity:      model.ParseNumber(r.Quantity),
		Hours:         model.ParseNumber(r.Hours),
		Rate:          model.ParseNumber(r.Rate),
		Cost:          model.ParseNumber(r.Cost),
		Notes:         model.OptionalString(r.Notes),
	}, true
}

type MaterialRow struct {
	MaterialCode string `json:"material_code"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
	Rate         string `json:"rate"`
	Cost         string `json:"cost"`
	Notes        string `json:"notes"`
}

func (r MaterialRow) With(field, value string) (MaterialRow, error) {
	switch field {
	case "material_code":
		r.MaterialCode = value
	case "quantity":
		r.Quantity = value
	case "unit":
		r.Unit = value
	case "rate":
		r.Rate = value
	case "cost":
		r.Cost = value
	case "notes":
		r.Notes = value
	default:
		return r, unknownField(KindMaterial, field)
	}
	return r, nil
}

func (r MaterialRow) Blank() bool {
	return r == MaterialRow{}
}

func (r MaterialRow) line() (model.MaterialLine, bool) {
	qty := model.ParseNumber(r.Quantity)
	if r.MaterialCode == "" || qty == nil || !qty.IsPositive() {
		return model.MaterialLine{}, false
	}
	return model.MaterialLine{
		MaterialCode: r.MaterialCode,
		Quantity:     *qty,
		Unit:         model.OptionalString(r.Unit),
		Rate:         model.ParseNumber(r.Rate),
		Cost:         model.ParseNumber(r.Cost),
		Notes:        model.OptionalString(r.Notes),
	}, true
}

type ServiceRow struct {
	ServiceCode string `json:"service_code"`
	Quantity    string `json:"quantity"`
	Hours       string `json:"hours"`
	Rate        string `json:"rate"`
	Cost        string `json:"cost"`
	Notes       string `json:"notes"`
}

func (r ServiceRow) With(field, value string) (ServiceRow, error) {
	switch field {
	case "service_code":
		r.ServiceCode = value
	case "quantity":
		r.Quantity = value
	case "hours":
		r.Hours = value
	case "rate":
		r.Rate = value
	case "cost":
		r.Cost = value
	case "notes":
		r.Notes = value
	default:
		return r, unknownField(KindService, field)
	}
	return r, nil
}

func (r ServiceRow) Blank() bool {
	return r == ServiceRow{}
}

func (r ServiceRow) line() (model.ServiceLine, bool) {
	if r.ServiceCode == "" || !(model.Positive(r.Hours) || model.Positive(r.Quantity)) {
		return model.ServiceLine{}, false
	}
	return model.ServiceLine{
		ServiceCode: r.ServiceCode,
		Quantity:    model.ParseNumber(r.Quantity),
		Hours:       model.ParseNumber(r.Hours),
		Rate:        model.ParseNumber(r.Rate),
		Cost:        model.ParseNumber(r.Cost),
		Notes:       model.OptionalString(r.Notes),
	}, true
}
