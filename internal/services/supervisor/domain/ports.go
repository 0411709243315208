// Package domain defines the public ports for the supervisor service
package domain

import (
	"context"

	pdomain "mbot/internal/services/pipeline/domain"
)

// SupervisorPort runs every configured pipeline until shutdown
type SupervisorPort interface {
	// Run blocks until every pipeline stopped. It returns SourceUnavailable when none could start
	Run(ctx context.Context) error
	// States reports the lifecycle state of each pipeline by name
	States() map[string]pdomain.State
	// Stop fires the shutdown signal; reports whether this call fired it
	Stop() bool
}
