package lines

import (
	"fmt"
	"ops-portal/internal/model"
	apperrors "ops-portal/pkg/app_errors"
)

type Kind string

const (
	KindLabor     Kind = "labor"
	KindEquipment Kind = "equipment"
	KindMaterial  Kind = "material"
	KindService   Kind = "service"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindLabor, KindEquipment, KindMaterial, KindService:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownLineKind, s)
}

// Form holds the four line groups of a ticket.
type Form struct {
	Labor     Group[LaborRow]     `json:"labor"`
	Equipment Group[EquipmentRow] `json:"equipment"`
	Materials Group[MaterialRow]  `json:"materials"`
	Services  Group[ServiceRow]   `json:"services"`
}

// NewForm is the reset state: one blank labor row and no other rows.
func NewForm() Form {
	return Form{Labor: NewGroup(BlankLabor())}
}

func (f Form) Add(kind Kind) (Form, error) {
	switch kind {
	case KindLabor:
		f.Labor = f.Labor.Add(BlankLabor())
	case KindEquipment:
		f.Equipment = f.Equipment.Add(EquipmentRow{})
	case KindMaterial:
		f.Materials = f.Materials.Add(MaterialRow{})
	case KindService:
		f.Services = f.Services.Add(ServiceRow{})
	default:
		return f, apperrors.ErrUnknownLineKind
	}
	return f, nil
}

func (f Form) Remove(kind Kind, i int) (Form, error) {
	var err error
	switch kind {
	case KindLabor:
		f.Labor, err = f.Labor.Remove(i)
	case KindEquipment:
		f.Equipment, err = f.Equipment.Remove(i)
	case KindMaterial:
		f.Materials, err = f.Materials.Remove(i)
	case KindService:
		f.Services, err = f.Services.Remove(i)
	default:
		err = apperrors.ErrUnknownLineKind
	}
	return f, err
}

func (f Form) Update(kind Kind, i int, field, value string) (Form, error) {
	var err error
	switch kind {
	case KindLabor:
		f.Labor, err = f.Labor.Update(i, field, value)
	case KindEquipment:
		f.Equipment, err = f.Equipment.Update(i, field, value)
	case KindMaterial:
		f.Materials, err = f.Materials.Update(i, field, value)
	case KindService:
		f.Services, err = f.Services.Update(i, field, value)
	default:
		err = apperrors.ErrUnknownLineKind
	}
	return f, err
}

// Dirty reports whether the user has typed anything into any row.
func (f Form) Dirty() bool {
	return f.Labor.Dirty() || f.Equipment.Dirty() || f.Materials.Dirty() || f.Services.Dirty()
}

// Payload keeps only qualifying rows and maps them to their wire shape. Labor rows default
// their day to ticketDate.
func (f Form) Payload(ticketDate string, resolve EmployeeResolver) model.LineBatch {
	batch := model.NewLineBatch()
	for _, r := range f.Labor.rows {
		if l, ok := r.line(ticketDate, resolve); ok {
			batch.Labor = append(batch.Labor, l)
		}
	}
	for _, r := range f.Equipment.rows {
		if l, ok := r.line(); ok {
			batch.Equipment = append(batch.Equipment, l)
		}
	}
	for _, r := range f.Materials.rows {
		if l, ok := r.line(); ok {
			batch.Materials = append(batch.Materials, l)
		}
	}
	for _, r := range f.Services.rows {
		if l, ok := r.line(); ok {
			batch.Services = append(batch.Services, l)
		}
	}
	return batch
}
