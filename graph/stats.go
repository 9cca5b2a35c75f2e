package graph

import "sort"

// Count pairs an endpoint with a number of neighbours.
type Count struct {
	Endpoint string `json:"endpoint"`
	Count    int    `json:"count"`
}

// Stats summarizes a graph.
type Stats struct {
	Endpoints  int `json:"endpoints"`
	Edges      int `json:"edges"`
	References int `json:"references"`
	Isolated   int `json:"isolated"`
	Unresolved int `json:"unresolved"`
	Cycles     int `json:"cycles"`
	// MostDependedBy and MostDependsOn hold the top endpoints by in- and
	// out-degree. Ties are broken by name.
	MostDependedBy []Count `json:"most_depended_by"`
	MostDependsOn  []Count `json:"most_depends_on"`
}

// Stats computes summary statistics. topN bounds the ranking lists.
func (g *Graph) Stats(topN int) Stats {
	s := Stats{
		Endpoints:  len(g.nodes),
		Unresolved: len(g.Unresolved),
		Cycles:     len(g.Cycles()),
	}
	var in, out []Count
	for _, name := range g.Endpoints() {
		n := g.nodes[name]
		if len(n.dependsOn) == 0 && len(n.dependedBy) == 0 {
			s.Isolated++
		}
		s.Edges += len(n.dependsOn)
		for _, fields := range n.dependsOn {
			s.References += len(fields)
		}
		if len(n.dependedBy) > 0 {
			in = append(in, Count{Endpoint: name, Count: len(n.dependedBy)})
		}
		if len(n.dependsOn) > 0 {
			out = append(out, Count{Endpoint: name, Count: len(n.dependsOn)})
		}
	}
	s.MostDependedBy = top(in, topN)
	s.MostDependsOn = top(out, topN)
	return s
}

func top(counts []Count, n int) []Count {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Endpoint < counts[j].Endpoint
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
