package patient

import (
	"errors"
	"strings"
)

// ErrNegativeAge is returned by Validate when an age below zero is supplied.
var ErrNegativeAge = errors.New("age must be a non-negative integer")

// Attributes is the structured patient input shared by the risk, insights and
// outcome engines. Every field is optional; absent fields contribute nothing.
type Attributes struct {
	Age         *int     `json:"age,omitempty"`
	Diseases    []string `json:"diseases"`
	Medications []string `json:"medications"`
	Symptoms    []string `json:"symptoms"`
}

// Validate checks the constraints the engines rely on.
func (a Attributes) Validate() error {
	if a.Age != nil && *a.Age < 0 {
		return ErrNegativeAge
	}
	return nil
}

// HasAge reports whether an age was supplied.
func (a Attributes) HasAge() bool {
	return a.Age != nil
}

// AgeOrZero returns the supplied age, or 0 when absent.
func (a Attributes) AgeOrZero() int {
	if a.Age == nil {
		return 0
	}
	return *a.Age
}

// LowerDiseases returns the disease names lower-cased, in input order.
func (a Attributes) LowerDiseases() []string {
	out := make([]string, len(a.Diseases))
	for i, d := range a.Diseases {
		out[i] = strings.ToLower(d)
	}
	return out
}

// knownAge reports whether the age is usable as a confidence data point.
// Zero is treated as unknown, like an absent age.
func (a Attributes) knownAge() bool {
	return a.Age != nil && *a.Age != 0
}

// PresentFields counts the populated fields among age, diseases, medications
// and symptoms. Empty lists and an age of 0 count as absent.
func (a Attributes) PresentFields() int {
	n := 0
	if a.knownAge() {
		n++
	}
	if len(a.Diseases) > 0 {
		n++
	}
	if len(a.Medications) > 0 {
		n++
	}
	if len(a.Symptoms) > 0 {
		n++
	}
	return n
}

// DataPoints is the number of individual facts supplied: one per list entry
// plus one for a non-zero age.
func (a Attributes) DataPoints() int {
	n := len(a.Diseases) + len(a.Medications) + len(a.Symptoms)
	if a.knownAge() {
		n++
	}
	return n
}

// IntPtr is a convenience for building Attributes literals.
func IntPtr(v int) *int { return &v }
