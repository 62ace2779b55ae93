package goal

import "errors"

// Engine error taxonomy. "Unready" is deliberately absent: insufficient
// input is not an error and is reported as an ok=false return instead.
var (
	// ErrInvariantViolation marks a broken engine invariant: macro
	// percentages not summing to 100, or a strategy emitting sub-fractions
	// beyond their parent total. It is surfaced, never silently corrected.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrConfigOutOfRange marks external configuration outside its valid
	// range. Recoverable by clamping or defaulting at the boundary.
	ErrConfigOutOfRange = errors.New("configuration out of range")
)
