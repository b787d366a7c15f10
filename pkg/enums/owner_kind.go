package enums

import (
	"fmt"
	"strings"
)

// OwnerKind selects which table a premium media attachment belongs to.
type OwnerKind string

const (
	OwnerKindArtist  OwnerKind = "ARTIST"
	OwnerKindArtwork OwnerKind = "ARTWORK"
)

var validOwnerKinds = []OwnerKind{
	OwnerKindArtist,
	OwnerKindArtwork,
}

// String returns the literal string for the kind.
func (o OwnerKind) String() string {
	return string(o)
}

// IsValid reports whether the kind is known.
func (o OwnerKind) IsValid() bool {
	for _, candidate := range validOwnerKinds {
		if candidate == o {
			return true
		}
	}
	return false
}

// PathSegment returns the lowercase form used in storage object paths.
func (o OwnerKind) PathSegment() string {
	return strings.ToLower(string(o))
}

// ParseOwnerKind converts raw input into an OwnerKind.
func ParseOwnerKind(value string) (OwnerKind, error) {
	for _, candidate := range validOwnerKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid owner kind %q", value)
}
