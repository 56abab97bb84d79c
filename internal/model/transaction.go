// Package model defines the entities persisted by billfold.
package model

import (
	"math"
	"time"
)

// DateLayout is the canonical date-only format used for storage and display.
const DateLayout = "2006-01-02"

// Transaction is a single income or expense entry. Amount is an integer count
// of minor currency units (cents); conversion to a decimal major-unit value
// happens only at the presentation edge. Category is always fully populated
// on reads; stores join it eagerly and never lazy-load.
type Transaction struct {
	Date        time.Time
	Name        string
	Description string
	Category    Category
	Amount      int64
	ID          int64
}

// NewTransaction returns a transient transaction.
func NewTransaction(name, description string, date time.Time, amount int64, category Category) *Transaction {
	return &Transaction{
		ID:          TransientID,
		Name:        name,
		Description: description,
		Date:        date,
		Amount:      amount,
		Category:    category,
	}
}

// Persisted reports whether the transaction has a database identity.
func (t *Transaction) Persisted() bool {
	return t.ID != TransientID
}

// Major returns the amount as decimal major units for display.
func (t *Transaction) Major() float64 {
	return MinorToMajor(t.Amount)
}

// MinorToMajor converts cents to a decimal major-unit value.
func MinorToMajor(minor int64) float64 {
	return float64(minor) / 100
}

// MajorToMinor converts a decimal major-unit value to cents with half-up
// rounding, so 12.345 and 12.346 both survive the round trip at cent
// precision.
func MajorToMinor(major float64) int64 {
	return int64(math.Round(major * 100))
}
