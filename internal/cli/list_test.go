package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journey.db")

	out, _, err := execute(NewRootCommand(), "", "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No runs found.\n", out)
}

func TestList_Text(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journey.db")
	first := storeTimeline(t, db, "testdata/timeline.json")
	second := storeTimeline(t, db, "testdata/envelope.json")

	out, _, err := execute(NewRootCommand(), "", "list", "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, first)
	assert.Contains(t, out, second)
	assert.Less(t, strings.Index(out, first), strings.Index(out, second))
	assert.Contains(t, out, "testdata/envelope.json")
}

func TestList_JSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journey.db")
	id := storeTimeline(t, db, "testdata/timeline.json", "--policy", "fold")

	out, _, err := execute(NewRootCommand(), "", "list", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, id, resp.Data.Runs[0].ID)
	assert.Equal(t, "fold", resp.Data.Runs[0].Policy)
	assert.Equal(t, 1, resp.Data.Runs[0].Stats.Folded)
}
