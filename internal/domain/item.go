package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidItem   = errors.New("invalid item payload")
	ErrNegativeValue = errors.New("negative value")
)

type Item struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
}

// NegativeValueError reports which numeric field broke the non-negative rule.
type NegativeValueError struct {
	Field string
}

func (e *NegativeValueError) Error() string {
	return e.Field + " cannot be negative"
}

func (e *NegativeValueError) Is(target error) bool {
	return target == ErrNegativeValue
}

// Message is the client-facing form of the error, e.g. "Price cannot be negative".
func (e *NegativeValueError) Message() string {
	if e.Field == "" {
		return "Value cannot be negative"
	}

	return strings.ToUpper(e.Field[:1]) + e.Field[1:] + " cannot be negative"
}

// CheckNonNegative enforces price >= 0 and quantity >= 0, price first.
func (i Item) CheckNonNegative() error {
	if i.Price < 0 {
		return &NegativeValueError{Field: "price"}
	}
	if i.Quantity < 0 {
		return &NegativeValueError{Field: "quantity"}
	}

	return nil
}
