package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/journey/internal/ir"
)

// ReadRun retrieves a run with its full graph.
// Returns an error wrapping ErrNotFound if the id does not exist.
// Raw is left empty; use ReadRawTimeline for the original input.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	var statsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, graph_id, timeline_hash, policy, deployment_suffix, build_suffix,
		       source, stats, builder_version
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&run.ID, &run.Seq, &run.GraphID, &run.TimelineHash, &run.Policy,
		&run.Suffixes.Deployment, &run.Suffixes.Build,
		&run.Source, &statsJSON, &run.BuilderVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	stats, err := unmarshalStats(statsJSON)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	nodes, err := s.readNodes(ctx, id)
	if err != nil {
		return Run{}, err
	}
	edges, err := s.readEdges(ctx, id)
	if err != nil {
		return Run{}, err
	}

	run.Graph = &ir.Graph{
		Policy:           run.Policy,
		Nodes:            nodes,
		Edges:            edges,
		Stats:            stats,
		DeploymentSuffix: run.Suffixes.Deployment,
		BuildSuffix:      run.Suffixes.Build,
	}
	return run, nil
}

// ReadRawTimeline returns the decompressed raw input of a run.
func (s *Store) ReadRawTimeline(ctx context.Context, id string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT raw_timeline FROM runs WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read raw timeline %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read raw timeline %s: %w", id, err)
	}
	return decompress(blob)
}

// ListRuns returns all runs ordered by seq ASC.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, graph_id, policy, source, stats
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		var statsJSON string
		if err := rows.Scan(&r.ID, &r.Seq, &r.GraphID, &r.Policy, &r.Source, &statsJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.Stats, err = unmarshalStats(statsJSON); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// FindRunsByGraph returns the ids of runs that produced graphID, ordered by seq.
func (s *Store) FindRunsByGraph(ctx context.Context, graphID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM runs WHERE graph_id = ? ORDER BY seq ASC
	`, graphID)
	if err != nil {
		return nil, fmt.Errorf("query runs by graph: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run ids: %w", err)
	}
	return ids, nil
}

func (s *Store) readNodes(ctx context.Context, runID string) ([]ir.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, idx, state, occurrences, track, effective_track, metadata, artifact_tag,
		       live, attributed_to, first_seen, folded_into
		FROM nodes
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	nodes := []ir.Node{}
	for rows.Next() {
		var n ir.Node
		var occJSON string
		var track, effective, metadata, artifact sql.NullString
		if err := rows.Scan(
			&n.ID, &n.Index, &n.State, &occJSON, &track, &effective, &metadata, &artifact,
			&n.Live, &n.AttributedTo, &n.FirstSeen, &n.FoldedInto,
		); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if n.Occurrences, err = unmarshalOccurrences(occJSON); err != nil {
			return nil, err
		}
		n.Track = fromNullable(track)
		n.EffectiveTrack = fromNullable(effective)
		n.Metadata = fromNullable(metadata)
		n.ArtifactTag = fromNullable(artifact)
		nodes = append(nodes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return nodes, nil
}

func (s *Store) readEdges(ctx context.Context, runID string) ([]ir.Edge, error) {
	// Edge ids are edge-<target index>; order by the target's index.
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.source, e.target, e.kind
		FROM edges e
		JOIN nodes n ON n.run_id = e.run_id AND n.id = e.target
		WHERE e.run_id = ?
		ORDER BY n.idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	edges := []ir.Edge{}
	for rows.Next() {
		var e ir.Edge
		var kind string
		if err := rows.Scan(&e.ID, &e.Source, &e.Target, &kind); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		e.Kind = ir.EdgeKind(kind)
		edges = append(edges, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}
	return edges, nil
}
