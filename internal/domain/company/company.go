// Package company defines the company record read model.
package company

import (
	"regexp"
	"time"
)

// Fiscal years covered by the tax-history columns.
const (
	FirstTaxYear = 2020
	LastTaxYear  = 2025
)

var binRegex = regexp.MustCompile(`^[0-9]{12}$`)

// ValidBIN reports whether s is a well-formed 12-digit business
// identification number.
func ValidBIN(s string) bool { return binRegex.MatchString(s) }

// Record is one registered legal entity, hydrated once at the store
// boundary. Tax figures are keyed by fiscal year; a missing year means
// "no data", never zero.
type Record struct {
	BIN      string
	Name     string
	OKED     string
	Activity string
	KATO     string
	Locality string
	KRP      string
	Size     string

	Taxes         map[int]float64
	LastTaxUpdate *time.Time

	Contacts *string
	Website  *string
}

// MostRecentTax returns the tax figure for the highest fiscal year that
// has data. ok is false when the record has no tax data at all.
func (r *Record) MostRecentTax() (year int, amount float64, ok bool) {
	for y := LastTaxYear; y >= FirstTaxYear; y-- {
		if v, present := r.Taxes[y]; present {
			return y, v, true
		}
	}
	return 0, 0, false
}
