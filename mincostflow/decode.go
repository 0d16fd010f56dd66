package mincostflow

import "github.com/railsched/railsched/network"

// Decode walks tn's candidate nodes in chronological order and pairs
// incoming flow units to open partial tours by a FIFO per predecessor
// node: every start-depot's spawned units open a
// fresh thread; every movement edge with positive flow moves `flow`
// threads from its predecessor's FIFO queue onto the successor node;
// threads arriving at an end-depot are closed out as finished tours.
// Build sorts tn.candidates by start time already, so depots (Earliest
// for start, Latest for end) naturally bracket the walk.
func (tn *TypeNetwork) Decode() [][]network.NodeIdx {
	queues := make(map[network.NodeIdx][][]network.NodeIdx)
	var finished [][]network.NodeIdx

	for _, d := range tn.candidates {
		node := tn.nw.Node(d)
		if node.Kind != network.StartDepot {
			continue
		}
		edge, ok := tn.depotEdge[d]
		if !ok {
			continue
		}
		spawned := edge.Flow(tn.graph)
		for i := int64(0); i < spawned; i++ {
			queues[d] = append(queues[d], []network.NodeIdx{d})
		}
	}

	for _, v := range tn.candidates {
		node := tn.nw.Node(v)
		if node.Kind == network.StartDepot {
			continue
		}
		var arriving [][]network.NodeIdx
		for _, u := range tn.candidates {
			if u == v {
				continue
			}
			edge, ok := tn.movement[pair{u, v}]
			if !ok {
				continue
			}
			flow := edge.Flow(tn.graph)
			for i := int64(0); i < flow && len(queues[u]) > 0; i++ {
				thread := queues[u][0]
				queues[u] = queues[u][1:]
				extended := append(append([]network.NodeIdx(nil), thread...), v)
				arriving = append(arriving, extended)
			}
		}
		if node.Kind == network.EndDepot {
			finished = append(finished, arriving...)
			continue
		}
		queues[v] = append(queues[v], arriving...)
	}

	return finished
}
