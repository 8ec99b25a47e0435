package model

// LineBatch is the wire payload of qualifying line rows, one slice per line kind.
// Slices are never nil so they encode as [] rather than null.
type LineBatch struct {
	Labor     []LaborLine     `json:"labor"`
	Equipment []EquipmentLine `json:"equipment"`
	Materials []MaterialLine  `json:"materials"`
	Services  []ServiceLine   `json:"services"`
}

func NewLineBatch() LineBatch {
	return LineBatch{
		Labor:     []LaborLine{},
		Equipment: []EquipmentLine{},
		Materials: []MaterialLine{},
		Services:  []ServiceLine{},
	}
}

func (b LineBatch) Len() int {
	return len(b.Labor) + len(b.Equipment) + len(b.Materials) + len(b.Services)
}

type LaborLine struct {
	EmployeeID string `json:"employee_id"`
	PayCodeID  string `json:"pay_code_id"`
	Hours      Number `json:"hours"`
	DayDate    string `json:"day_date"`
}

type EquipmentLine struct {
	EquipmentCode string  `json:"equipment_code"`
	Quantity      *Number `json:"quantity"`
	Hours         *Number `json:"hours"`
	Rate          *Number `json:"rate"`
	Cost          *Number `json:"cost"`
	Notes         *string `json:"notes"`
}

type MaterialLine struct {
	MaterialCode string  `json:"material_code"`
	Quantity     Number  `json:"quantity"`
	Unit         *string `json:"unit"`
	Rate         *Number `json:"rate"`
	Cost         *Number `json:"cost"`
	Notes        *string `json:"notes"`
}

type ServiceLine struct {
	ServiceCode string  `json:"service_code"`
	Quantity    *Number `json:"quantity"`
	Hours       *Number `json:"hours"`
	Rate        *Number `json:"rate"`
	Cost        *Number `json:"cost"`
	Notes       *string `json:"notes"`
}
