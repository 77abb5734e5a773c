package engine

import (
	"strings"

	"github.com/roach88/journey/internal/ir"
)

// attributor finds the build a deployment shipped. builds holds the indices
// of processed build nodes in input order; it only ever grows, so lookups
// see nothing after the current node.
type attributor struct {
	deploymentSuffix string
	buildSuffix      string
	builds           []int
}

func (a *attributor) isDeployment(n *ir.Node) bool {
	return strings.HasSuffix(n.State, a.deploymentSuffix)
}

func (a *attributor) isBuild(n *ir.Node) bool {
	return strings.HasSuffix(n.State, a.buildSuffix)
}

// find returns the earliest processed build whose artifact tag contains the
// deployment's correlation key.
func (a *attributor) find(nodes []ir.Node, deployment *ir.Node) (int, bool) {
	key, ok := CorrelationKey(deployment.Metadata)
	if !ok {
		return -1, false
	}
	for _, idx := range a.builds {
		if artifactMatches(key, nodes[idx].ArtifactTag) {
			return idx, true
		}
	}
	return -1, false
}

// record adds a processed node to the build index when it is a build.
func (a *attributor) record(nodes []ir.Node, idx int) {
	if a.isBuild(&nodes[idx]) {
		a.builds = append(a.builds, idx)
	}
}
