package breaks

import (
	"fmt"
	"strings"
)

// Validation is the outcome of an overlap check.
type Validation struct {
	IsValid bool
	Errors  []string
}

// OverlapError is returned by break mutations rejected for overlapping.
type OverlapError struct {
	Errors []string
}

func (e *OverlapError) Error() string {
	return "break overlaps: " + strings.Join(e.Errors, "; ")
}

// Err converts a failed validation into an *OverlapError.
func (v Validation) Err() error {
	if v.IsValid {
		return nil
	}
	return &OverlapError{Errors: v.Errors}
}

// ValidateOverlap checks candidate against every concrete break in
// existing. Breaks that only touch do not overlap. Planned, open and
// malformed breaks on either side never conflict.
func ValidateOverlap(candidate Break, existing []Break) Validation {
	return validate(candidate, existing, -1)
}

// ValidateAt checks a replacement for the break at index against all other
// breaks in list.
func ValidateAt(list []Break, index int, candidate Break) Validation {
	return validate(candidate, list, index)
}

func validate(candidate Break, existing []Break, skip int) Validation {
	v := Validation{IsValid: true}
	if candidate.Kind() != KindConcrete {
		return v
	}
	cs, ce := *candidate.Start, *candidate.End
	for i, b := range existing {
		if i == skip || b.Kind() != KindConcrete {
			continue
		}
		es, ee := *b.Start, *b.End
		if cs < ee && ce > es {
			v.Errors = append(v.Errors, fmt.Sprintf("%s-%s overlaps break %d (%s-%s)",
				cs, ce, i+1, es, ee))
		}
	}
	v.IsValid = len(v.Errors) == 0
	return v
}
