// Package health aggregates the readiness checks a serving host depends on.
package health

import (
	"context"
	"fmt"
)

// Checker verifies one dependency of the serving host.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// ReadinessUseCase answers whether the host is able to serve traffic.
type ReadinessUseCase interface {
	Ready(ctx context.Context) error
}

type service struct {
	checkers []Checker
}

// NewService builds the readiness check backing /dry_run from the given
// checkers.
func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers}
}

// Ready runs every checker in order and reports the first failure, prefixed
// with the checker's name.
func (s *service) Ready(ctx context.Context) error {
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
	}
	return nil
}
