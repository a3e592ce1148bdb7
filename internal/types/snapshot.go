package types

import "github.com/google/uuid"

// Snapshot is an opaque, serialized image of the whole drawing surface at one instant.
// The zero value is the blank snapshot.
type Snapshot struct {
	ID     uuid.UUID // Identifies this capture in logs and redisplay completions
	Data   []byte    // Encoded image (PNG)
	Width  int
	Height int
}

// NewSnapshot wraps encoded image data with a fresh ID.
func NewSnapshot(data []byte, width, height int) Snapshot {
	return Snapshot{
		ID:     uuid.New(),
		Data:   data,
		Width:  width,
		Height: height,
	}
}

// IsBlank reports whether the snapshot carries no image.
func (s Snapshot) IsBlank() bool {
	return len(s.Data) == 0
}

// Short returns an abbreviated ID for log lines.
func (s Snapshot) Short() string {
	if s.IsBlank() {
		return "blank"
	}
	return s.ID.String()[:8]
}
