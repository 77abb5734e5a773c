package engine

import (
	"regexp"
	"strings"
)

var (
	// versionFragment matches <major>.<minor>.<patch>-<yyyy-mm-dd>-<token>.
	versionFragment = regexp.MustCompile(`\d+\.\d+\.\d+-\d{4}-\d{2}-\d{2}-\w+`)

	// afterMinor captures everything after the <major>.<minor>. prefix.
	afterMinor = regexp.MustCompile(`\d+\.\d+\.(.*)`)
)

// CorrelationKey extracts the version fragment from deployment metadata and
// drops its <major>.<minor>. prefix, so "deployed v1.2.3-2024-01-01-xyz"
// yields "3-2024-01-01-xyz". Returns false when metadata is absent or holds
// no fragment.
func CorrelationKey(metadata *string) (string, bool) {
	if metadata == nil {
		return "", false
	}
	fragment := versionFragment.FindString(*metadata)
	if fragment == "" {
		return "", false
	}
	m := afterMinor.FindStringSubmatch(fragment)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// artifactMatches reports whether key appears anywhere inside tag.
// Containment rather than equality tolerates artifact-tag formatting variance.
func artifactMatches(key string, tag *string) bool {
	return tag != nil && strings.Contains(*tag, key)
}
