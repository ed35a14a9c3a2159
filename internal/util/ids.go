package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewID generates an opaque identifier for saves and share links.
func NewID() (string, error) {
	return gonanoid.New()
}
