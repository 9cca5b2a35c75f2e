package graph

import (
	"sort"
)

// Cycles returns the strongly connected components of the DependsOn relation
// that contain a cycle, including endpoints referencing themselves. Each
// component is sorted and components are ordered by their first endpoint.
func (g *Graph) Cycles() [][]string {
	t := tarjan{
		g:       g,
		index:   map[string]int{},
		lowlink: map[string]int{},
		onStack: map[string]bool{},
	}
	for _, v := range g.Endpoints() {
		if _, seen := t.index[v]; !seen {
			t.connect(v)
		}
	}
	sort.Slice(t.cycles, func(i, j int) bool { return t.cycles[i][0] < t.cycles[j][0] })
	return t.cycles
}

type tarjan struct {
	g       *Graph
	next    int
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	cycles  [][]string
}

func (t *tarjan) connect(v string) {
	t.index[v] = t.next
	t.lowlink[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.DependsOn(v) {
		if _, seen := t.index[w]; !seen {
			t.connect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}
	var component []string
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		component = append(component, w)
		if w == v {
			break
		}
	}
	if len(component) > 1 || t.selfLoop(v) {
		sort.Strings(component)
		t.cycles = append(t.cycles, component)
	}
}

func (t *tarjan) selfLoop(v string) bool {
	n := t.g.nodes[v]
	_, ok := n.dependsOn[v]
	return ok
}
