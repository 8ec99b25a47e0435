package lines_test

import (
	"encoding/json"
	"testing"

	"ops-portal/internal/lines"
	apperrors "ops-portal/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_AddRemoveRoundTrip(t *testing.T) {
	base := lines.NewGroup(
		lines.EquipmentRow{EquipmentCode: "EX-1", Hours: "2"},
		lines.EquipmentRow{EquipmentCode: "EX-2", Quantity: "1"},
	)

	added := base.Add(lines.EquipmentRow{})
	require.Equal(t, 3, added.Len())

	back, err := added.Remove(2)
	require.NoError(t, err)
	assert.Equal(t, base.Rows(), back.Rows())

	t.Run("Labor", func(t *testing.T) {
		g := lines.NewGroup(lines.BlankLabor())
		after, err := g.Add(lines.BlankLabor()).Remove(1)
		require.NoError(t, err)
		assert.Equal(t, g.Rows(), after.Rows())
	})

	t.Run("Empty group", func(t *testing.T) {
		var g lines.Group[lines.ServiceRow]
		after, err := g.Add(lines.ServiceRow{}).Remove(0)
		require.NoError(t, err)
		assert.Equal(t, g.Rows(), after.Rows())
	})
}

func TestGroup_Immutable(t *testing.T) {
	base := lines.NewGroup(lines.BlankLabor(), lines.BlankLabor())

	updated, err := base.Update(0, "employee_id", "E1")
	require.NoError(t, err)
	assert.Equal(t, "", base.Rows()[0].EmployeeID)
	assert.Equal(t, "E1", updated.Rows()[0].EmployeeID)
	assert.Equal(t, "8", updated.Rows()[0].Hours)

	removed, err := updated.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Len())
	assert.Equal(t, 1, removed.Len())
	assert.Equal(t, "", removed.Rows()[0].EmployeeID)

	rows := updated.Rows()
	rows[1].EmployeeID = "mutated"
	assert.Equal(t, "", updated.Rows()[1].EmployeeID)
}

func TestGroup_Errors(t *testing.T) {
	g := lines.NewGroup(lines.MaterialRow{})

	_, err := g.Remove(3)
	assert.ErrorIs(t, err, apperrors.ErrRowNotFound)

	_, err = g.Update(-1, "unit", "kg")
	assert.ErrorIs(t, err, apperrors.ErrRowNotFound)

	_, err = g.Update(0, "colour", "red")
	assert.ErrorIs(t, err, apperrors.ErrUnknownField)
}

func TestForm_PayloadScenario(t *testing.T) {
	f := lines.NewForm()
	var err error
	f, err = f.Update(lines.KindLabor, 0, "employee_id", "E1")
	require.NoError(t, err)
	f, err = f.Update(lines.KindLabor, 0, "pay_code_id", "P1")
	require.NoError(t, err)
	f, err = f.Add(lines.KindEquipment)
	require.NoError(t, err)

	batch := f.Payload("2024-03-14", nil)
	require.Len(t, batch.Labor, 1)
	assert.Equal(t, "E1", batch.Labor[0].EmployeeID)
	assert.Equal(t, "P1", batch.Labor[0].PayCodeID)
	assert.Equal(t, "2024-03-14", batch.Labor[0].DayDate)
	assert.Empty(t, batch.Equipment)

	raw, err := json.Marshal(batch)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"labor": [{"employee_id": "E1", "pay_code_id": "P1", "hours": 8, "day_date": "2024-03-14"}],
		"equipment": [],
		"materials": [],
		"services": []
	}`, string(raw))
}

func TestForm_PayloadQualification(t *testing.T) {
	t.Run("Labor hours must be positive", func(t *testing.T) {
		for _, hours := range []string{"0", "-2", "", "abc"} {
			f := lines.NewForm()
			f, _ = f.Update(lines.KindLabor, 0, "employee_id", "E1")
			f, _ = f.Update(lines.KindLabor, 0, "pay_code_id", "P1")
			f, _ = f.Update(lines.KindLabor, 0, "hours", hours)
			assert.Empty(t, f.Payload("2024-03-14", nil).Labor, hours)
		}
	})

	t.Run("Labor employee code resolves to id", func(t *testing.T) {
		resolve := func(code string) (string, bool) {
			if code == "B-7" {
				return "E7", true
			}
			return "", false
		}
		f := lines.NewForm()
		f, _ = f.Update(lines.KindLabor, 0, "employee_code", "B-7")
		f, _ = f.Update(lines.KindLabor, 0, "pay_code_id", "P1")
		f, _ = f.Update(lines.KindLabor, 0, "day_date", "2024-03-15")
		f, _ = f.Add(lines.KindLabor)
		f, _ = f.Update(lines.KindLabor, 1, "employee_code", "unknown")
		f, _ = f.Update(lines.KindLabor, 1, "pay_code_id", "P1")

		batch := f.Payload("2024-03-14", resolve)
		require.Len(t, batch.Labor, 1)
		assert.Equal(t, "E7", batch.Labor[0].EmployeeID)
		assert.Equal(t, "2024-03-15", batch.Labor[0].DayDate)
	})

	t.Run("Rows without identifying code are dropped", func(t *testing.T) {
		f := lines.Form{}
		f, _ = f.Add(lines.KindEquipment)
		f, _ = f.Update(lines.KindEquipment, 0, "hours", "5")
		f, _ = f.Update(lines.KindEquipment, 0, "quantity", "3")
		f, _ = f.Add(lines.KindMaterial)
		f, _ = f.Update(lines.KindMaterial, 0, "quantity", "3")
		f, _ = f.Add(lines.KindService)
		f, _ = f.Update(lines.KindService, 0, "hours", "1")

		batch := f.Payload("2024-03-14", nil)
		assert.Zero(t, batch.Len())
	})

	t.Run("Equipment and services need hours or quantity", func(t *testing.T) {
		f := lines.Form{}
		f, _ = f.Add(lines.KindEquipment)
		f, _ = f.Update(lines.KindEquipment, 0, "equipment_code", "EX-1")
		f, _ = f.Add(lines.KindEquipment)
		f, _ = f.Update(lines.KindEquipment, 1, "equipment_code", "EX-2")
		f, _ = f.Update(lines.KindEquipment, 1, "quantity", "2")
		f, _ = f.Update(lines.KindEquipment, 1, "rate", "n/a")
		f, _ = f.Add(lines.KindService)
		f, _ = f.Update(lines.KindService, 0, "service_code", "SV")
		f, _ = f.Update(lines.KindService, 0, "hours", "1.5")

		batch := f.Payload("2024-03-14", nil)
		require.Len(t, batch.Equipment, 1)
		assert.Equal(t, "EX-2", batch.Equipment[0].EquipmentCode)
		assert.Nil(t, batch.Equipment[0].Hours)
		assert.Nil(t, batch.Equipment[0].Rate)
		assert.Nil(t, batch.Equipment[0].Notes)
		assert.Equal(t, "2", batch.Equipment[0].Quantity.String())
		require.Len(t, batch.Services, 1)
		assert.Equal(t, "1.5", batch.Services[0].Hours.String())
	})

	t.Run("Materials need positive quantity", func(t *testing.T) {
		f := lines.Form{}
		f, _ = f.Add(lines.KindMaterial)
		f, _ = f.Update(lines.KindMaterial, 0, "material_code", "M-1")
		f, _ = f.Update(lines.KindMaterial, 0, "unit", "kg")
		assert.Empty(t, f.Payload("", nil).Materials)

		f, _ = f.Update(lines.KindMaterial, 0, "quantity", "12.5")
		f, _ = f.Update(lines.KindMaterial, 0, "cost", "40")
		batch := f.Payload("", nil)
		require.Len(t, batch.Materials, 1)

		raw, err := json.Marshal(batch.Materials[0])
		require.NoError(t, err)
		assert.JSONEq(t, `{"material_code":"M-1","quantity":12.5,"unit":"kg","rate":null,"cost":40,"notes":null}`, string(raw))
	})
}

func TestForm_Dirty(t *testing.T) {
	f := lines.NewForm()
	assert.False(t, f.Dirty())

	f, _ = f.Add(lines.KindService)
	assert.False(t, f.Dirty())

	f2, _ := f.Update(lines.KindService, 0, "notes", "x")
	assert.True(t, f2.Dirty())
	assert.False(t, f.Dirty())

	f3, _ := f.Update(lines.KindLabor, 0, "hours", "6")
	assert.True(t, f3.Dirty())
}

func TestForm_UnknownKind(t *testing.T) {
	_, err := lines.ParseKind("vehicle")
	assert.ErrorIs(t, err, apperrors.ErrUnknownLineKind)

	k, err := lines.ParseKind("material")
	require.NoError(t, err)
	assert.Equal(t, lines.KindMaterial, k)

	_, err = lines.NewForm().Add(lines.Kind("vehicle"))
	assert.ErrorIs(t, err, apperrors.ErrUnknownLineKind)
}

func TestForm_JSON(t *testing.T) {
	raw, err := json.Marshal(lines.NewForm())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"labor": [{"employee_id":"","employee_code":"","pay_code_id":"","hours":"8","day_date":""}],
		"equipment": [],
		"materials": [],
		"services": []
	}`, string(raw))
}
