package compiler

import (
	"fmt"
	"strings"
)

// CycleError reports models whose foreign keys reference each other in a
// loop, so no creation order satisfies them.
type CycleError struct {
	Path []string // Cycle path: ["a", "b", "a"]
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("reference cycle: %s", strings.Join(e.Path, " → "))
}

// Order sorts models so that every referenced table is created before the
// tables referencing it. Models keep their declaration order where no
// reference constrains them. Self references and references to tables
// outside models are ignored.
//
// Uses Tarjan's algorithm; any strongly connected component with more than
// one model is a cycle.
func Order(models []Model) ([]Model, error) {
	byEntity := make(map[string]int, len(models))
	for i, m := range models {
		byEntity[m.Spec.Entity] = i
	}

	graph := buildReferenceGraph(models, byEntity)
	sccs := tarjanSCC(len(models), graph)

	ordered := make([]Model, 0, len(models))
	for _, scc := range sccs {
		if len(scc) > 1 {
			return nil, &CycleError{Path: reconstructCyclePath(scc, graph, models)}
		}
		ordered = append(ordered, models[scc[0]])
	}
	return ordered, nil
}

// referenceGraph maps a model index to the indexes of the models it
// references.
type referenceGraph [][]int

func buildReferenceGraph(models []Model, byEntity map[string]int) referenceGraph {
	graph := make(referenceGraph, len(models))
	for i, m := range models {
		for _, ref := range m.References {
			j, ok := byEntity[ref.Table]
			if !ok || j == i {
				continue
			}
			graph[i] = append(graph[i], j)
		}
	}
	return graph
}

// tarjanSCC returns the strongly connected components of graph. A
// component is emitted only after every component it reaches, so the
// result lists referenced models first.
func tarjanSCC(n int, graph referenceGraph) [][]int {
	var (
		index   = 0
		stack   []int
		indices = make([]int, n)
		lowlink = make([]int, n)
		onStack = make([]bool, n)
		sccs    [][]int
	)
	for i := range indices {
		indices[i] = -1
	}

	var strongConnect func(int)
	strongConnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if indices[w] < 0 {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// If v is a root node, pop the stack and create an SCC
		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for v := 0; v < n; v++ {
		if indices[v] < 0 {
			strongConnect(v)
		}
	}
	return sccs
}

// reconstructCyclePath follows edges inside scc from its lowest-indexed
// model until it returns to the start.
func reconstructCyclePath(scc []int, graph referenceGraph, models []Model) []string {
	members := make(map[int]bool, len(scc))
	start := scc[0]
	for _, v := range scc {
		members[v] = true
		start = min(start, v)
	}

	path := []string{models[start].Spec.Entity}
	visited := map[int]bool{start: true}
	current := start
	for {
		next := -1
		for _, w := range graph[current] {
			if members[w] && (!visited[w] || w == start) {
				next = w
				break
			}
		}
		if next < 0 {
			break
		}
		path = append(path, models[next].Spec.Entity)
		if next == start {
			break
		}
		visited[next] = true
		current = next
	}
	return path
}
