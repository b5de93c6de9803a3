// Package archive keeps whole benchmark sessions in a SQL database so runs
// from different days and machines can be listed and reloaded.
package archive

import (
	"context"
	"time"

	"scalebench/internal/benchmark"
)

// Session describes one archived run of the harness.
type Session struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Hostname    string    `json:"hostname"`
	CPUModel    string    `json:"cpu_model"`
	LogicalCPUs int       `json:"logical_cpus"`
	Statistic   string    `json:"statistic"`
	Note        string    `json:"note,omitempty"`
}

// Store persists sessions and their measurements.
type Store interface {
	Close() error
	SaveSession(ctx context.Context, s Session, t *benchmark.Timings) error
	LoadSession(ctx context.Context, id string) (*Session, *benchmark.Timings, error)
	ListSessions(ctx context.Context, limit int) ([]Session, error)
}
