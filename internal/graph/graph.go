// Package graph holds the undirected page graph assembled by a crawl.
package graph

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrMissingVertex is returned when an operation references a name that is not in the graph
	ErrMissingVertex = errors.New("missing vertex")
	// ErrSelfLoop is returned when an edge would connect a vertex to itself
	ErrSelfLoop = errors.New("self loop")
	// ErrIsolatedVertex is returned when a weight statistic is requested for a vertex without edges
	ErrIsolatedVertex = errors.New("vertex has no edges")
)

// Unit is the edge attribute of an unweighted graph
type Unit struct{}

// Weight constrains the edge attribute a Graph can carry
type Weight interface {
	Unit | float64
}

// Neighbor is one entry of a vertex's adjacency
type Neighbor[W Weight] struct {
	Name   string
	Weight W
}

// vertex represents one discovered page
type vertex[W Weight] struct {
	name  string
	url   string
	adj   map[string]W
	order []string // neighbor names in insertion order
}

// Graph is an undirected graph keyed by canonical page name
type Graph[W Weight] struct {
	vertices map[string]*vertex[W]
	order    []string
	edges    int
	mu       sync.RWMutex
}

// New creates an empty graph
func New[W Weight]() *Graph[W] {
	return &Graph[W]{
		vertices: make(map[string]*vertex[W]),
	}
}

// AddVertex inserts a vertex with no neighbors; it is a no-op when name already exists
func (g *Graph[W]) AddVertex(name, url string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.vertices[name]; exists {
		return
	}

	g.vertices[name] = &vertex[W]{
		name: name,
		url:  url,
		adj:  make(map[string]W),
	}
	g.order = append(g.order, name)
}

// HasVertex reports whether name is a vertex of the graph
func (g *Graph[W]) HasVertex(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, exists := g.vertices[name]
	return exists
}

// AddEdge inserts the edge name1-name2, overwriting the weight of an existing edge.
// Both endpoints must already be vertices.
func (g *Graph[W]) AddEdge(name1, name2 string, w W) error {
	if name1 == name2 {
		return fmt.Errorf("%w: %q", ErrSelfLoop, name1)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	v1, ok := g.vertices[name1]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingVertex, name1)
	}
	v2, ok := g.vertices[name2]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingVertex, name2)
	}

	if _, exists := v1.adj[name2]; !exists {
		v1.order = append(v1.order, name2)
		v2.order = append(v2.order, name1)
		g.edges++
	}
	v1.adj[name2] = w
	v2.adj[name1] = w

	return nil
}

// Adjacent reports whether an edge joins name1 and name2.
// Missing vertices are simply not adjacent.
func (g *Graph[W]) Adjacent(name1, name2 string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v1, ok := g.vertices[name1]
	if !ok {
		return false
	}
	_, ok = v1.adj[name2]
	return ok
}

// Weight returns the attribute of edge name1-name2 and whether the edge exists
func (g *Graph[W]) Weight(name1, name2 string) (W, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var zero W
	v1, ok := g.vertices[name1]
	if !ok {
		return zero, false
	}
	w, ok := v1.adj[name2]
	return w, ok
}

// Neighbors returns the neighbors of name with their edge attribute, in insertion order
func (g *Graph[W]) Neighbors(name string) ([]Neighbor[W], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vertices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingVertex, name)
	}

	neighbors := make([]Neighbor[W], 0, len(v.order))
	for _, n := range v.order {
		neighbors = append(neighbors, Neighbor[W]{Name: n, Weight: v.adj[n]})
	}
	return neighbors, nil
}

// NeighborNames returns only the names of the neighbors of name
func (g *Graph[W]) NeighborNames(name string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vertices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingVertex, name)
	}

	names := make([]string, len(v.order))
	copy(names, v.order)
	return names, nil
}

// Degree returns the number of edges incident to name
func (g *Graph[W]) Degree(name string) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vertices[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingVertex, name)
	}
	return len(v.adj), nil
}

// URL returns the fetchable address stored for name
func (g *Graph[W]) URL(name string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vertices[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingVertex, name)
	}
	return v.url, nil
}

// VertexNames returns every vertex name in insertion order
func (g *Graph[W]) VertexNames() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, len(g.order))
	copy(names, g.order)
	return names
}

// Len returns the number of vertices
func (g *Graph[W]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// EdgeCount returns the number of undirected edges
func (g *Graph[W]) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges
}

// Connected reports whether a path of edges joins name1 and name2.
// The search keeps a visited set, so cyclic graphs terminate.
func (g *Graph[W]) Connected(name1, name2 string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.vertices[name1]; !ok {
		return false
	}
	if _, ok := g.vertices[name2]; !ok {
		return false
	}

	visited := map[string]bool{name1: true}
	stack := []string{name1}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == name2 {
			return true
		}

		for _, next := range g.vertices[current].order {
			if visited[next] {
				continue
			}
			visited[next] = true
			stack = append(stack, next)
		}
	}

	return false
}

// AverageWeight returns the mean weight of the edges incident to name
func AverageWeight(g *Graph[float64], name string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vertices[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingVertex, name)
	}
	if len(v.adj) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrIsolatedVertex, name)
	}

	total := 0.0
	for _, w := range v.adj {
		total += w
	}
	return total / float64(len(v.adj)), nil
}
