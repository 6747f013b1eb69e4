package checkers

import (
	"context"
	"errors"

	"github.com/rchudinov/chainserve/pkg/executor"
)

// ExecutorChecker reports whether the hosted executor is in place.
type ExecutorChecker struct {
	exec *executor.Executor
}

func NewExecutorChecker(exec *executor.Executor) *ExecutorChecker {
	return &ExecutorChecker{exec: exec}
}

func (c *ExecutorChecker) Name() string { return "executor" }

func (c *ExecutorChecker) Check(ctx context.Context) error {
	if c.exec == nil || c.exec.Chain() == nil {
		return errors.New("executor not initialized")
	}
	return nil
}
