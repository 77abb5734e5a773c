package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/journey/internal/ir"
)

func TestCorrelationKey(t *testing.T) {
	tests := []struct {
		name     string
		metadata *string
		key      string
		ok       bool
	}{
		{"absent", nil, "", false},
		{"empty", ir.StrPtr(""), "", false},
		{"no fragment", ir.StrPtr("deployed to prod"), "", false},
		{"bare fragment", ir.StrPtr("1.2.3-2024-01-01-xyz"), "3-2024-01-01-xyz", true},
		{"prefixed", ir.StrPtr("v1.2.3-2024-01-01-xyz"), "3-2024-01-01-xyz", true},
		{"embedded", ir.StrPtr("image svc:10.20.30-2023-12-31-a1b2c3 rolled out"), "30-2023-12-31-a1b2c3", true},
		{"first of two", ir.StrPtr("1.0.0-2024-02-02-aaa then 2.0.0-2024-03-03-bbb"), "0-2024-02-02-aaa", true},
		{"underscore token", ir.StrPtr("4.5.6-2024-05-06-rc_1"), "6-2024-05-06-rc_1", true},
		{"missing token", ir.StrPtr("1.2.3-2024-01-01-"), "", false},
		{"short date", ir.StrPtr("1.2.3-24-01-01-xyz"), "", false},
		{"two components", ir.StrPtr("1.2-2024-01-01-xyz"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := CorrelationKey(tt.metadata)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestArtifactMatches(t *testing.T) {
	assert.True(t, artifactMatches("3-2024-01-01-xyz", ir.StrPtr("1.2.3-2024-01-01-xyz")))
	assert.True(t, artifactMatches("3-2024-01-01-xyz", ir.StrPtr("registry/svc:1.2.3-2024-01-01-xyz-amd64")))
	assert.False(t, artifactMatches("3-2024-01-01-xyz", ir.StrPtr("1.2.4-2024-01-01-xyz")))
	assert.False(t, artifactMatches("3-2024-01-01-xyz", nil))
}
