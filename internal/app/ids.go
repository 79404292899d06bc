package app

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator issues identifiers for games and records.
type IDGenerator interface {
	NewID() string
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
