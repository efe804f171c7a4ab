package callgraph

// Forward returns every node reachable from start by following call
// edges one or more hops (start itself is never included, even when a
// cycle leads back to it), via a standard breadth-first search over
// g.Edges.
func Forward(g Graph, start NodeID) []NodeID {
	visited := map[NodeID]bool{start: true}
	queue := []NodeID{start}
	var out []NodeID

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if int(cur) >= len(g.Edges) {
			continue
		}
		for _, next := range g.Edges[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

// Reaches reports whether target is reachable from start (inclusive of
// start == target).
func Reaches(g Graph, start, target NodeID) bool {
	if start == target {
		return true
	}
	for _, n := range Forward(g, start) {
		if n == target {
			return true
		}
	}
	return false
}
