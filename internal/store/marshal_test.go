package store

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/journey/internal/ir"
)

func TestMarshalOccurrences(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"nil", nil, "[]"},
		{"empty", []string{}, "[]"},
		{"values", []string{"2024-03-01T10:00:00Z", "b<c"}, `["2024-03-01T10:00:00Z","b<c"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := marshalOccurrences(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshalOccurrences_Empty(t *testing.T) {
	occ, err := unmarshalOccurrences("")
	require.NoError(t, err)
	assert.NotNil(t, occ)
	assert.Empty(t, occ)
}

func TestMarshalStats_RoundTrip(t *testing.T) {
	stats := ir.Stats{Events: 5, LiveNodes: 4, Edges: 3, Attributed: 1, Folded: 1, Untracked: 1, TrackCount: 1}

	data, err := marshalStats(stats)
	require.NoError(t, err)

	got, err := unmarshalStats(data)
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}

func TestNullable(t *testing.T) {
	assert.False(t, nullable(nil).Valid)

	ns := nullable(ir.StrPtr(""))
	assert.True(t, ns.Valid)
	require.NotNil(t, fromNullable(ns))
	assert.Equal(t, "", *fromNullable(ns))
}

func TestCompress_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte(`{"state":"CodeBuild","branch":"main"},`), 100)

	packed, err := compress(data)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(data))

	got, err := decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDecompress_Garbage(t *testing.T) {
	_, err := decompress([]byte("not zstd"))
	assert.Error(t, err)
}
