package enums

import "fmt"

// AvailabilityStatus gates whether a sale may be recorded for an artwork.
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "AVAILABLE"
	AvailabilitySold      AvailabilityStatus = "SOLD"
)

var validAvailabilityStatuses = []AvailabilityStatus{
	AvailabilityAvailable,
	AvailabilitySold,
}

// String returns the literal string for the status.
func (s AvailabilityStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s AvailabilityStatus) IsValid() bool {
	for _, candidate := range validAvailabilityStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAvailabilityStatus converts raw input into an AvailabilityStatus.
func ParseAvailabilityStatus(value string) (AvailabilityStatus, error) {
	for _, candidate := range validAvailabilityStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability status %q", value)
}
