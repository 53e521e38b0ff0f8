package build

import (
	"context"
	"time"

	"github.com/kalkulator/blogbuilder/internal/artifacts"
	"github.com/kalkulator/blogbuilder/internal/config"
)

// Service executes builds.
type Service interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request contains all inputs of one build.
type Request struct {
	// Config is the fully resolved configuration.
	Config *config.Config

	// Timeout bounds the whole batch. Zero means no limit.
	Timeout time.Duration
}

// Result describes a finished build.
type Result struct {
	Status  Status
	BuildID string

	// Loaded counts posts accepted by the loader; Published those that reached artifacts.
	Loaded    int
	Published int

	Copy artifacts.CopyResult

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Status represents the outcome of a build.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess reports whether the build completed.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}
