package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainGraph    = "journey/graph/v1"
	DomainTimeline = "journey/timeline/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// GraphID computes a content-addressed ID for the visible part of a graph.
// Two builds of the same input under the same policy produce the same ID.
// Stats are excluded; they are derived from the nodes and edges.
func GraphID(g *Graph) (string, error) {
	canonical, err := MarshalGraph(g)
	if err != nil {
		return "", fmt.Errorf("GraphID: %w", err)
	}
	return hashWithDomain(DomainGraph, canonical), nil
}

// MarshalGraph returns the canonical JSON of the visible graph: the bytes
// GraphID hashes and golden files record.
func MarshalGraph(g *Graph) ([]byte, error) {
	canonical, err := MarshalCanonical(graphObject(g.Visible()))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph: %w", err)
	}
	return canonical, nil
}

// TimelineHash computes a content-addressed ID for a sequence of normalized events.
func TimelineHash(events []Event) (string, error) {
	list := make([]any, len(events))
	for i, e := range events {
		list[i] = eventObject(e)
	}
	canonical, err := MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("TimelineHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTimeline, canonical), nil
}

// MustGraphID is like GraphID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustGraphID(g *Graph) string {
	id, err := GraphID(g)
	if err != nil {
		panic(err)
	}
	return id
}

func graphObject(g *Graph) map[string]any {
	nodes := make([]any, len(g.Nodes))
	for i, n := range g.Nodes {
		obj := map[string]any{
			"id":          n.ID,
			"index":       n.Index,
			"state":       n.State,
			"occurrences": n.Occurrences,
			"live":        n.Live,
		}
		putOptional(obj, "track", n.Track)
		putOptional(obj, "effective_track", n.EffectiveTrack)
		putOptional(obj, "artifact_tag", n.ArtifactTag)
		nodes[i] = obj
	}

	edges := make([]any, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = map[string]any{
			"id":     e.ID,
			"source": e.Source,
			"target": e.Target,
			"kind":   string(e.Kind),
		}
	}

	return map[string]any{
		"policy": g.Policy,
		"nodes":  nodes,
		"edges":  edges,
	}
}

func eventObject(e Event) map[string]any {
	obj := map[string]any{
		"index":       e.Index,
		"state":       e.State,
		"occurrences": e.Occurrences,
	}
	putOptional(obj, "track", e.Track)
	putOptional(obj, "metadata", e.Metadata)
	putOptional(obj, "artifact_tag", e.ArtifactTag)
	return obj
}

// putOptional omits absent values; canonical JSON has no null.
func putOptional(obj map[string]any, key string, p *string) {
	if p != nil {
		obj[key] = *p
	}
}
