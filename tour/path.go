package tour

import (
	"errors"
	"fmt"

	"github.com/railsched/railsched/network"
)

// ErrEmptyPath indicates a Path constructor was given zero nodes.
var ErrEmptyPath = errors.New("tour: empty path")

// ErrPathNotReachable indicates consecutive nodes in a Path do not
// satisfy CanReach.
var ErrPathNotReachable = errors.New("tour: path nodes are not reachability-consistent")

// ErrPathAllDepots indicates a Path constructor received only depot
// nodes, which is disallowed: a Path must contain at least one
// non-depot node.
var ErrPathAllDepots = errors.New("tour: path must contain at least one non-depot node")

// Path is an ordered node sequence similar to Tour but without the
// start/end-depot obligation: it must contain at least one non-depot
// node, and consecutive nodes must satisfy CanReach. Paths are the
// unit of path-exchange moves and of tour insertion/removal results.
type Path struct {
	nodes []network.NodeIdx
	nw    *network.Network
}

// NewPath validates nodes and builds a Path.
func NewPath(nodes []network.NodeIdx, nw *network.Network) (Path, error) {
	if len(nodes) == 0 {
		return Path{}, ErrEmptyPath
	}
	hasNonDepot := false
	for _, n := range nodes {
		if !nw.Node(n).IsDepot() {
			hasNonDepot = true
			break
		}
	}
	if !hasNonDepot {
		return Path{}, ErrPathAllDepots
	}
	for i := 0; i+1 < len(nodes); i++ {
		if !nw.CanReach(nodes[i], nodes[i+1]) {
			return Path{}, fmt.Errorf("%w: %d cannot reach %d", ErrPathNotReachable, nodes[i], nodes[i+1])
		}
	}
	return NewTrustedPath(nodes, nw), nil
}

// NewTrustedPath builds a Path without validation; callers (tour.Insert
// and tour.Remove) that already know the invariants hold use this to
// avoid a redundant O(n) scan.
func NewTrustedPath(nodes []network.NodeIdx, nw *network.Network) Path {
	cp := make([]network.NodeIdx, len(nodes))
	copy(cp, nodes)
	return Path{nodes: cp, nw: nw}
}

// NewSingleNodePath builds a one-node Path.
func NewSingleNodePath(n network.NodeIdx, nw *network.Network) Path {
	return Path{nodes: []network.NodeIdx{n}, nw: nw}
}

// Nodes returns the Path's node sequence. Callers must not mutate the
// returned slice.
func (p Path) Nodes() []network.NodeIdx { return p.nodes }

// Len returns the number of nodes.
func (p Path) Len() int { return len(p.nodes) }

// IsEmpty reports whether the path has zero nodes (the zero Path value,
// or a NewTrustedPath result such as an empty conflict; NewPath rejects
// empty input).
func (p Path) IsEmpty() bool { return len(p.nodes) == 0 }

// First returns the first node.
func (p Path) First() network.NodeIdx { return p.nodes[0] }

// Last returns the last node.
func (p Path) Last() network.NodeIdx { return p.nodes[len(p.nodes)-1] }

// DropFirst returns a copy of p without its first node.
func (p Path) DropFirst() Path {
	return NewTrustedPath(p.nodes[1:], p.nw)
}

// DropLast returns a copy of p without its last node.
func (p Path) DropLast() Path {
	return NewTrustedPath(p.nodes[:len(p.nodes)-1], p.nw)
}
