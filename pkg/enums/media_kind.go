package enums

import "fmt"

// MediaKind classifies a premium media attachment.
type MediaKind string

const (
	MediaKindImage MediaKind = "IMAGE"
	MediaKindVideo MediaKind = "VIDEO"
	MediaKindAudio MediaKind = "AUDIO"
	MediaKindText  MediaKind = "TEXT"
)

var validMediaKinds = []MediaKind{
	MediaKindImage,
	MediaKindVideo,
	MediaKindAudio,
	MediaKindText,
}

// String returns the literal string for the kind.
func (m MediaKind) String() string {
	return string(m)
}

// IsValid reports whether the kind is known.
func (m MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsTimeBased reports whether a duration makes sense for the kind.
func (m MediaKind) IsTimeBased() bool {
	return m == MediaKindVideo || m == MediaKindAudio
}

// ParseMediaKind converts raw input into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}
