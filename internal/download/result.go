package download

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/consensus-export/internal/model"
)

// Outcome classifies a finished task.
type Outcome int

const (
	Downloaded Outcome = iota + 1
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Downloaded:
		return "downloaded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrAssetNotListed is returned when no catalog entry matches a task's asset type.
var ErrAssetNotListed = errors.New("asset type not listed for snap time")

// Result is the outcome of one task.
type Result struct {
	Task    model.Task
	Asset   model.Asset // First matching catalog entry; SubAsset only when unresolved
	Outcome Outcome
	Files   []string // Sink locations written, in order
	Bytes   int64    // Total bytes written
	Err     error    // Set when Outcome == Failed
}

// Summary is the outcome of a whole run.
type Summary struct {
	RunID      uuid.UUID
	Client     string
	SnapDate   string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []Result
}

// Count returns the number of results with outcome o.
func (s *Summary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// Duration returns the wall-clock duration of the run.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Observer is notified once per finished task.
type Observer interface {
	Observe(Result)
}

// ObserverFunc is a function adapter for Observer.
type ObserverFunc func(Result)

func (f ObserverFunc) Observe(r Result) {
	f(r)
}
