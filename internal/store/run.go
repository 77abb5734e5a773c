package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/journey/internal/ir"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one persisted build of a timeline under a recurrence policy.
type Run struct {
	ID             string    // UUIDv7, assigned by NewRun
	Seq            int64     // Insert order, assigned by WriteRun
	GraphID        string    // ir.GraphID of the graph
	TimelineHash   string    // ir.TimelineHash of the normalized events
	Policy         string    // Recurrence policy the graph was built with
	Suffixes       Suffixes  // State suffixes the graph was built with
	Source         string    // Input path, "-" for stdin
	BuilderVersion string    // ir.BuilderVersion at build time
	Graph          *ir.Graph // Full graph including folded nodes
	Raw            []byte    // Raw input; only set on write, see ReadRawTimeline
}

// Suffixes are the deployment and build state suffixes of a build. Together
// with the timeline hash and policy they identify a run.
type Suffixes struct {
	Deployment string
	Build      string
}

// RunSummary is the listing view of a run.
type RunSummary struct {
	ID      string   `json:"id"`
	Seq     int64    `json:"seq"`
	GraphID string   `json:"graph_id"`
	Policy  string   `json:"policy"`
	Source  string   `json:"source"`
	Stats   ir.Stats `json:"stats"`
}

// NewRun prepares a run for writing: it computes content hashes and assigns
// a time-ordered UUIDv7 id.
func NewRun(source string, events []ir.Event, g *ir.Graph, raw []byte) (Run, error) {
	graphID, err := ir.GraphID(g)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}
	timelineHash, err := ir.TimelineHash(events)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}

	return Run{
		ID:             uuid.Must(uuid.NewV7()).String(),
		GraphID:        graphID,
		TimelineHash:   timelineHash,
		Policy:         g.Policy,
		Suffixes:       Suffixes{Deployment: g.DeploymentSuffix, Build: g.BuildSuffix},
		Source:         source,
		BuilderVersion: ir.BuilderVersion,
		Graph:          g,
		Raw:            raw,
	}, nil
}
