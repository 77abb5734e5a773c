package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/journey/internal/ir"
)

// WriteRun inserts a run with all of its nodes and edges in one transaction.
// Returns the stored run id and whether a new record was inserted.
//
// Uses ON CONFLICT DO NOTHING on (timeline_hash, policy, deployment_suffix,
// build_suffix) for idempotency. If the same timeline was already built with
// the same settings, returns the existing run id and inserted=false; nothing
// else is written.
func (s *Store) WriteRun(ctx context.Context, run Run) (id string, inserted bool, err error) {
	if run.Graph == nil {
		return "", false, fmt.Errorf("write run: nil graph")
	}

	statsJSON, err := marshalStats(run.Graph.Stats)
	if err != nil {
		return "", false, fmt.Errorf("write run: %w", err)
	}
	raw, err := compress(run.Raw)
	if err != nil {
		return "", false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return "", false, fmt.Errorf("write run: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, graph_id, timeline_hash, policy, deployment_suffix, build_suffix,
		 source, stats, raw_timeline, builder_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(timeline_hash, policy, deployment_suffix, build_suffix) DO NOTHING
	`,
		run.ID,
		seq,
		run.GraphID,
		run.TimelineHash,
		run.Policy,
		run.Suffixes.Deployment,
		run.Suffixes.Build,
		run.Source,
		statsJSON,
		raw,
		run.BuilderVersion,
	)
	if err != nil {
		return "", false, fmt.Errorf("write run: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("write run: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM runs
			WHERE timeline_hash = ? AND policy = ?
			  AND deployment_suffix = ? AND build_suffix = ?
		`, run.TimelineHash, run.Policy, run.Suffixes.Deployment, run.Suffixes.Build).Scan(&id)
		if err != nil {
			return "", false, fmt.Errorf("write run: select existing: %w", err)
		}
		return id, false, nil
	}

	if err := writeNodes(ctx, tx, run.ID, run.Graph.Nodes); err != nil {
		return "", false, err
	}
	if err := writeEdges(ctx, tx, run.ID, run.Graph.Edges); err != nil {
		return "", false, err
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("write run: commit: %w", err)
	}

	return run.ID, true, nil
}

func writeNodes(ctx context.Context, tx *sql.Tx, runID string, nodes []ir.Node) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes
		(run_id, id, idx, state, occurrences, track, effective_track, metadata, artifact_tag,
		 live, attributed_to, first_seen, folded_into)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write nodes: prepare: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		occ, err := marshalOccurrences(n.Occurrences)
		if err != nil {
			return fmt.Errorf("write node %s: %w", n.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			runID,
			n.ID,
			n.Index,
			n.State,
			occ,
			nullable(n.Track),
			nullable(n.EffectiveTrack),
			nullable(n.Metadata),
			nullable(n.ArtifactTag),
			n.Live,
			n.AttributedTo,
			n.FirstSeen,
			n.FoldedInto,
		)
		if err != nil {
			return fmt.Errorf("write node %s: %w", n.ID, err)
		}
	}
	return nil
}

func writeEdges(ctx context.Context, tx *sql.Tx, runID string, edges []ir.Edge) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (run_id, id, source, target, kind)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write edges: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.ExecContext(ctx, runID, e.ID, e.Source, e.Target, string(e.Kind)); err != nil {
			return fmt.Errorf("write edge %s: %w", e.ID, err)
		}
	}
	return nil
}
