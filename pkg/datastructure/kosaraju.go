package datastructure

import (
	"sort"

	"github.com/lintang-b-s/livetraffic/pkg/util"
)

// StronglyConnectedComponents runs kosaraju's algorithm over the junctions. Every component is
// sorted by name and components are ordered by their smallest name. Two junctions have a route
// in both directions iff they share a component.
func (bt *BaseTopology) StronglyConnectedComponents() [][]string {
	n := len(bt.nodes)
	index := make(map[string]int, n)
	for i, u := range bt.nodes {
		index[u] = i
	}

	order := make([]int, 0, n)
	visited := make([]bool, n)
	for v := 0; v < n; v++ {
		if !visited[v] {
			bt.dfs(v, index, &order, visited, false)
		}
	}

	order = util.ReverseG[int](order)

	// reset visited
	visited = make([]bool, n)
	components := make([][]string, 0, 1)
	for _, v := range order {
		if visited[v] {
			continue
		}
		members := make([]int, 0, 4)
		bt.dfs(v, index, &members, visited, true)

		component := make([]string, 0, len(members))
		for _, u := range members {
			component = append(component, bt.nodes[u])
		}
		sort.Strings(component)
		components = append(components, component)
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

func (bt *BaseTopology) dfs(v int, index map[string]int, output *[]int, visited []bool, reversed bool) {
	visited[v] = true

	if !reversed {
		bt.ForOutEdgesOf(bt.nodes[v], func(e OutEdge) {
			if w := index[e.GetHead()]; !visited[w] {
				bt.dfs(w, index, output, visited, reversed)
			}
		})
	} else {
		// transpose graph: follow incoming roads
		bt.ForInEdgesOf(bt.nodes[v], func(e Edge) {
			if w := index[e.From]; !visited[w] {
				bt.dfs(w, index, output, visited, reversed)
			}
		})
	}

	*output = append(*output, v)
}
