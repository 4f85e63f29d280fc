package graph

// NodeRecord describes one vertex for presentation and report consumers
type NodeRecord struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// EdgeRecord describes one undirected edge for presentation and report consumers
type EdgeRecord struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Label  string   `json:"label"`
	Weight *float64 `json:"weight,omitempty"`
}

// View is a read-only structural dump of a graph
type View struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// Export returns a copy of the graph structure.
// Node ids are page URLs; each undirected edge is emitted once.
func (g *Graph[W]) Export() View {
	g.mu.RLock()
	defer g.mu.RUnlock()

	view := View{
		Nodes: make([]NodeRecord, 0, len(g.order)),
		Edges: make([]EdgeRecord, 0, g.edges),
	}

	emitted := make(map[string]bool, len(g.order))
	for _, name := range g.order {
		v := g.vertices[name]
		view.Nodes = append(view.Nodes, NodeRecord{ID: v.url, Label: v.name})

		for _, n := range v.order {
			// Every edge to an already-emitted vertex was written from that side
			if emitted[n] {
				continue
			}
			u := g.vertices[n]
			view.Edges = append(view.Edges, EdgeRecord{
				Source: v.url,
				Target: u.url,
				Label:  v.name + " to " + u.name,
				Weight: weightOf(v.adj[n]),
			})
		}
		emitted[name] = true
	}

	return view
}

// weightOf returns nil for unweighted edges
func weightOf[W Weight](w W) *float64 {
	if f, ok := any(w).(float64); ok {
		return &f
	}
	return nil
}

// Label returns the label of the node with the given id, or "" when absent
func (v View) Label(id string) string {
	for _, n := range v.Nodes {
		if n.ID == id {
			return n.Label
		}
	}
	return ""
}
