// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package services

import (
	"context"
	"errors"
	"fmt"
)

// Runner is a loop that blocks until its context is canceled. Satisfied by
// *sync.Poller and *sync.Sweeper.
type Runner interface {
	RunWithContext(ctx context.Context) error
	Name() string
}

// RunnerService adapts a Runner to suture.Service.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRunnerService wraps runner, naming the service after it.
func NewRunnerService(runner Runner) *RunnerService {
	return &RunnerService{runner: runner, name: runner.Name()}
}

// Serve implements suture.Service.
//
// A runner that returns before ctx is done is reported as a failure so the
// supervisor restarts it with backoff.
func (s *RunnerService) Serve(ctx context.Context) error {
	err := s.runner.RunWithContext(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("returned without cancellation")
	}
	return fmt.Errorf("%s stopped: %w", s.name, err)
}

// String implements fmt.Stringer; suture uses it in event logs.
func (s *RunnerService) String() string {
	return s.name
}
