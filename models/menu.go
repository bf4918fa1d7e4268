package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DishID is the backend's key for a dish. The backend sends it either as a
// JSON number or a JSON string; both decode to the same text form.
type DishID string

func (id *DishID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = DishID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("dish id: %w", err)
	}
	*id = DishID(n.String())
	return nil
}

func (id DishID) String() string { return string(id) }

// Price is kept as a number everywhere; the wire may carry it as a number or
// as numeric text.
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParsePrice(s)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	*p = Price(f)
	return nil
}

// ParsePrice reads a price typed into the form. Plain decimals are accepted
// first; otherwise "." and "," are treated as thousands separators
// ("150.000" -> 150000). Empty text is zero.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		stripped := strings.NewReplacer(".", "", ",", "", " ", "").Replace(s)
		f, err = strconv.ParseFloat(stripped, 64)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	return Price(f), nil
}

type Dish struct {
	ID          DishID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Price  `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
}

// DishInput is the record payload sent on create and update; the server owns
// the id.
type DishInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Price  `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
}

func (d Dish) Input() DishInput {
	return DishInput{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		Category:    d.Category,
	}
}

// WithInput returns d with every field except the id replaced by in.
func (d Dish) WithInput(in DishInput) Dish {
	return Dish{
		ID:          d.ID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
	}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (in DishInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return &ValidationError{Field: "name", Message: "is required"}
	case strings.TrimSpace(in.Description) == "":
		return &ValidationError{Field: "description", Message: "is required"}
	case strings.TrimSpace(in.Category) == "":
		return &ValidationError{Field: "category", Message: "is required"}
	case math.IsNaN(float64(in.Price)) || math.IsInf(float64(in.Price), 0):
		return &ValidationError{Field: "price", Message: "must be a finite number"}
	case in.Price < 0:
		return &ValidationError{Field: "price", Message: "must not be negative"}
	}
	return nil
}
