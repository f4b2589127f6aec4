package repository

import (
	"errors"

	"github.com/google/uuid"
)

// DefaultAllocateAttempts bounds the collision-retry loop. A random 128-bit
// identifier essentially never collides; the bound exists to fail fast when
// a broken existence predicate always reports true.
const DefaultAllocateAttempts = 1000

var ErrAllocationExhausted = errors.New("identifier allocation exhausted")

// AllocateID draws random identifiers until one passes the existence check.
// Predicate errors propagate immediately; exhausting maxAttempts returns
// ErrAllocationExhausted.
func AllocateID(exists func(id string) (bool, error), maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultAllocateAttempts
	}
	for i := 0; i < maxAttempts; i++ {
		candidate, err := uuid.NewRandom()
		if err != nil {
			return "", err
		}
		id := candidate.String()
		taken, err := exists(id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrAllocationExhausted
}
