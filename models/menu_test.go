package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDishDecoding(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantID    DishID
		wantPrice Price
		wantErr   bool
	}{
		{"numeric id and price", `{"id":12,"price":150000}`, "12", 150000, false},
		{"string id and price", `{"id":"12","price":"150000"}`, "12", 150000, false},
		{"price with separators", `{"id":"a","price":"150.000"}`, "a", 150000, false},
		{"null price", `{"id":3,"price":null}`, "3", 0, false},
		{"bad price", `{"id":3,"price":"abc"}`, "", 0, true},
		{"NaN price text", `{"id":3,"price":"NaN"}`, "", 0, true},
		{"bad id", `{"id":true}`, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Dish
			err := json.Unmarshal([]byte(tt.payload), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, d.ID)
			assert.Equal(t, tt.wantPrice, d.Price)
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    Price
		wantErr bool
	}{
		{"", 0, false},
		{"  45000 ", 45000, false},
		{"12.5", 12.5, false},
		{"1,250,000", 1250000, false},
		{"1.250.000", 1250000, false},
		{"mười", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"+Inf", 0, true},
		{"-inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDishInputValidate(t *testing.T) {
	valid := DishInput{Name: "Lẩu thái", Description: "Lẩu chua cay", Price: 250000, Category: CategorySeafood}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(*DishInput)
		field string
	}{
		{"missing name", func(in *DishInput) { in.Name = " " }, "name"},
		{"missing description", func(in *DishInput) { in.Description = "" }, "description"},
		{"missing category", func(in *DishInput) { in.Category = "" }, "category"},
		{"negative price", func(in *DishInput) { in.Price = -1 }, "price"},
		{"NaN price", func(in *DishInput) { in.Price = Price(math.NaN()) }, "price"},
		{"infinite price", func(in *DishInput) { in.Price = Price(math.Inf(1)) }, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			err := in.Validate()
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestDishWithInputKeepsID(t *testing.T) {
	d := Dish{ID: "7", Name: "Old", Price: 10}
	updated := d.WithInput(DishInput{Name: "New", Price: 20, Category: CategoryGrilled})
	assert.Equal(t, DishID("7"), updated.ID)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, d.Input().Name, "Old")
}

func TestSelectionSet(t *testing.T) {
	s := NewSelectionSet("1", "2", "1")
	assert.Equal(t, []DishID{"1", "2"}, s.IDs())

	before := s.IDs()
	assert.True(t, s.Toggle("3"))
	assert.False(t, s.Toggle("3"))
	assert.Equal(t, before, s.IDs())

	assert.False(t, s.Toggle("1"))
	assert.Equal(t, []DishID{"2"}, s.IDs())
	assert.True(t, s.Toggle("1"))
	assert.Equal(t, []DishID{"2", "1"}, s.IDs())

	ids := s.IDs()
	ids[0] = "mutated"
	assert.True(t, s.Has("2"))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("2"))
	assert.True(t, s.Toggle("2"))
}

func TestFormModal(t *testing.T) {
	var m FormModal
	assert.False(t, m.IsOpen())

	m.OpenEdit(Dish{ID: "4", Name: "Gà nướng", Price: 160000})
	assert.True(t, m.IsOpen())
	assert.Equal(t, ModalEdit, m.Mode)
	assert.Equal(t, DishID("4"), m.EditID)
	assert.Equal(t, "Gà nướng", m.Fields.Name)

	m.Fields.Name = "typed but discarded"
	m.Close()
	assert.Equal(t, ModalClosed, m.Mode)
	assert.Empty(t, m.Fields.Name)

	m.OpenCreate()
	assert.Equal(t, ModalCreate, m.Mode)
	assert.Empty(t, m.EditID)

	var c ConfirmModal
	c.Request("9")
	assert.True(t, c.Open)
	c.Close()
	assert.False(t, c.Open)
	assert.Empty(t, c.TargetID)
}
