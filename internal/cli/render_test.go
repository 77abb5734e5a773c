package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/journey/internal/ir"
)

func TestFormatOccurrence(t *testing.T) {
	assert.Equal(t, "Mar 1, 2024, 02:05 PM", formatOccurrence("2024-03-01T14:05:00Z"))
	assert.Equal(t, "yesterday", formatOccurrence("yesterday"))
	assert.Equal(t, "", formatOccurrence(""))
}

func TestTrackLabel(t *testing.T) {
	assert.Equal(t, "untracked", trackLabel(nil))
	assert.Equal(t, `""`, trackLabel(ir.StrPtr("")))
	assert.Equal(t, "main", trackLabel(ir.StrPtr("main")))
}

func TestDotQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, dotQuote("plain"))
	assert.Equal(t, `"a\"b"`, dotQuote(`a"b`))
	assert.Equal(t, `"line1\nline2"`, dotQuote("line1\nline2"))
	assert.Equal(t, `"back\\slash"`, dotQuote(`back\slash`))
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc", truncateID("abc"))
	assert.Equal(t, "0123456789ab", truncateID("0123456789abcdef"))
}

func TestWriteGraphText_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	err := writeGraphText(buf, GraphResult{GraphID: "id", Policy: "forward"})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "(no nodes)")
	assert.Contains(t, buf.String(), "(no edges)")
}

func TestWriteGraphDOT_FoldedNodeDashed(t *testing.T) {
	result := GraphResult{
		Nodes: []ir.Node{
			{ID: "node-0", State: "A", Live: true},
			{ID: "node-1", State: "A", Live: false, FoldedInto: "node-0"},
		},
		Edges: []ir.Edge{{ID: "edge-1", Source: "node-0", Target: "node-1", Kind: ir.EdgeRecurrence}},
	}
	buf := &bytes.Buffer{}
	assert.NoError(t, writeGraphDOT(buf, result))

	out := buf.String()
	assert.Contains(t, out, `"node-1" [label="untracked\nA", style=dashed];`)
	assert.Contains(t, out, `"node-0" -> "node-1" [style=dashed];`)
}
