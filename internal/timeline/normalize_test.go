package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/journey/internal/ir"
)

func TestNormalize_TimestampCoercion(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected []string
	}{
		{"scalar", "2024-01-01T10:00:00Z", []string{"2024-01-01T10:00:00Z"}},
		{"list", []any{"a", "b"}, []string{"a", "b"}},
		{"missing", nil, []string{}},
		{"empty string", "", []string{}},
		{"empty list", []any{}, []string{}},
		{"list with null keeps position", []any{"a", nil, "b"}, []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{"state": "Created"}
			if tt.value != nil {
				rec["time"] = tt.value
			}
			events, err := Normalize([]Record{rec})
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.NotNil(t, events[0].Occurrences)
			assert.Equal(t, tt.expected, events[0].Occurrences)
		})
	}
}

func TestNormalize_FieldAliases(t *testing.T) {
	records := []Record{
		{"state": "Created", "time": "t0", "branch": "main"},
		{"milestone": "Build", "timestamp": []any{"t1"}, "repo": "svc", "artifact": "1.2.3-2024-01-01-abc"},
		{"milestone": "Deployment", "timestamp": "t2", "additional_info": "deployed v1.2.3-2024-01-01-abc"},
		{"state": "Deployment", "metadata": "m", "artifact_tag": "tag"},
	}

	events, err := Normalize(records)
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, "Created", events[0].State)
	assert.Equal(t, "main", ir.StrOrEmpty(events[0].Track))

	assert.Equal(t, "Build", events[1].State)
	assert.Equal(t, "svc", ir.StrOrEmpty(events[1].Track))
	assert.Equal(t, "1.2.3-2024-01-01-abc", ir.StrOrEmpty(events[1].ArtifactTag))
	assert.Equal(t, []string{"t1"}, events[1].Occurrences)

	assert.Nil(t, events[2].Track)
	assert.Equal(t, "deployed v1.2.3-2024-01-01-abc", ir.StrOrEmpty(events[2].Metadata))

	assert.Equal(t, "m", ir.StrOrEmpty(events[3].Metadata))
	assert.Equal(t, "tag", ir.StrOrEmpty(events[3].ArtifactTag))

	for i, ev := range events {
		assert.Equal(t, i, ev.Index)
	}
}

func TestNormalize_AbsentVersusEmptyTrack(t *testing.T) {
	events, err := Normalize([]Record{
		{"state": "A"},
		{"state": "B", "branch": nil},
		{"state": "C", "branch": ""},
	})
	require.NoError(t, err)

	assert.Nil(t, events[0].Track)
	assert.Nil(t, events[1].Track, "null means untracked")
	require.NotNil(t, events[2].Track, "empty string is a track name")
	assert.Equal(t, "", *events[2].Track)
}

func TestNormalize_NullAliasFallsThrough(t *testing.T) {
	events, err := Normalize([]Record{{"state": nil, "milestone": "Build", "branch": nil, "repo": "svc"}})
	require.NoError(t, err)
	assert.Equal(t, "Build", events[0].State)
	assert.Equal(t, "svc", ir.StrOrEmpty(events[0].Track))
}

func TestNormalize_MalformedState(t *testing.T) {
	tests := []struct {
		name   string
		record Record
	}{
		{"missing", Record{"time": "t0"}},
		{"null", Record{"state": nil}},
		{"empty", Record{"state": ""}},
		{"whitespace", Record{"milestone": "   "}},
		{"not a string", Record{"state": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := Normalize([]Record{{"state": "ok"}, tt.record})
			require.Error(t, err)
			assert.Nil(t, events, "no partial result")
			assert.True(t, IsMalformed(err))

			var me *MalformedEventError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, 1, me.Index)
			assert.Equal(t, "state", me.Field)
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	errs := Validate([]Record{
		{"state": "A"},
		{},
		{"state": "B"},
		{"milestone": ""},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "index 1")
	assert.Contains(t, errs[1].Error(), "index 3")

	assert.Nil(t, Validate([]Record{{"state": "A"}}))
}

func TestNormalize_Empty(t *testing.T) {
	events, err := Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}
