// Package tna builds transition network models from ordered learner
// activity sequences and computes graph metrics over them. The numerical
// algorithms (betweenness, closeness, PageRank, Louvain communities) come
// from gonum; this package is the orchestration around them.
package tna

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Weighting modes
const (
	ModeTNA  = "tna"  // raw transition counts
	ModeFTNA = "ftna" // row-normalized transition frequencies
	ModeATNA = "atna" // time-decayed counts (later steps weigh less)
)

// Event is one learner action in time
type Event struct {
	UserID uint
	Action string
	At     time.Time
}

// Edge is a weighted directed transition between two actions
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
	Count  int64   `json:"count"`
}

// Model is a weighted directed transition graph
type Model struct {
	Mode  string   `json:"mode"`
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// Centrality holds per-node metrics
type Centrality struct {
	Node        string  `json:"node"`
	InStrength  float64 `json:"in_strength"`
	OutStrength float64 `json:"out_strength"`
	Betweenness float64 `json:"betweenness"`
	Closeness   float64 `json:"closeness"`
	PageRank    float64 `json:"pagerank"`
}

// Summary holds whole-network statistics
type Summary struct {
	Nodes          int     `json:"nodes"`
	Edges          int     `json:"edges"`
	Density        float64 `json:"density"`
	MeanWeight     float64 `json:"mean_weight"`
	TotalCount     int64   `json:"total_count"`
	TopTransitions []Edge  `json:"top_transitions"`
}

// ExtractSequences splits each user's time-ordered events into session
// sequences, starting a new session whenever the gap between consecutive
// events exceeds idleGap. Input is sorted by (user, time) first, so callers
// can pass events in any order.
func ExtractSequences(events []Event, idleGap time.Duration) [][]string {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].UserID != events[j].UserID {
			return events[i].UserID < events[j].UserID
		}
		return events[i].At.Before(events[j].At)
	})

	var sequences [][]string
	var current []string
	var lastUser uint
	var lastAt time.Time

	for i, e := range events {
		newSession := i == 0 || e.UserID != lastUser || e.At.Sub(lastAt) > idleGap
		if newSession {
			if len(current) > 0 {
				sequences = append(sequences, current)
			}
			current = nil
		}
		current = append(current, e.Action)
		lastUser = e.UserID
		lastAt = e.At
	}
	if len(current) > 0 {
		sequences = append(sequences, current)
	}
	return sequences
}

// Build constructs a transition model from session sequences. decay only
// applies to ModeATNA: the k-th transition within a session contributes
// decay^k instead of 1.
func Build(mode string, sequences [][]string, decay float64) (*Model, error) {
	switch mode {
	case ModeTNA, ModeFTNA, ModeATNA:
	default:
		return nil, fmt.Errorf("unknown model mode %q", mode)
	}

	counts := make(map[[2]string]int64)
	weights := make(map[[2]string]float64)
	nodeSet := make(map[string]bool)

	for _, seq := range sequences {
		for k := 0; k+1 < len(seq); k++ {
			key := [2]string{seq[k], seq[k+1]}
			counts[key]++
			nodeSet[seq[k]] = true
			nodeSet[seq[k+1]] = true

			w := 1.0
			if mode == ModeATNA {
				w = math.Pow(decay, float64(k))
			}
			weights[key] += w
		}
		// A one-event session still contributes its node
		if len(seq) == 1 {
			nodeSet[seq[0]] = true
		}
	}

	if mode == ModeFTNA {
		// Row-normalize: outgoing weights of each node sum to 1
		rowTotals := make(map[string]float64)
		for key, w := range weights {
			rowTotals[key[0]] += w
		}
		for key := range weights {
			weights[key] /= rowTotals[key[0]]
		}
	}

	nodes := make([]string, 0, len(nodeSet))
	for n := range nodeSet {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	edges := make([]Edge, 0, len(weights))
	for key, w := range weights {
		edges = append(edges, Edge{From: key[0], To: key[1], Weight: w, Count: counts[key]})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	return &Model{Mode: mode, Nodes: nodes, Edges: edges}, nil
}

// Prune drops edges whose weight falls below threshold relative to the
// heaviest edge, then removes nodes left without any edge. A threshold of
// 0.05 keeps edges weighing at least 5% of the maximum.
func (m *Model) Prune(threshold float64) {
	if threshold <= 0 || len(m.Edges) == 0 {
		return
	}

	maxWeight := 0.0
	for _, e := range m.Edges {
		if e.Weight > maxWeight {
			maxWeight = e.Weight
		}
	}
	cutoff := threshold * maxWeight

	kept := m.Edges[:0]
	connected := make(map[string]bool)
	for _, e := range m.Edges {
		if e.Weight >= cutoff {
			kept = append(kept, e)
			connected[e.From] = true
			connected[e.To] = true
		}
	}
	m.Edges = kept

	nodes := m.Nodes[:0]
	for _, n := range m.Nodes {
		if connected[n] {
			nodes = append(nodes, n)
		}
	}
	m.Nodes = nodes
}

// toDirected builds the gonum graph and the node index mapping. Self
// transitions stay in the model but are excluded here: path-based metrics
// ignore them and the simple graph forbids self-edges.
func (m *Model) toDirected() (*simple.WeightedDirectedGraph, map[string]int64) {
	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	index := make(map[string]int64, len(m.Nodes))
	for i, n := range m.Nodes {
		index[n] = int64(i)
		g.AddNode(simple.Node(int64(i)))
	}
	for _, e := range m.Edges {
		if e.From == e.To {
			continue
		}
		g.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(index[e.From]),
			T: simple.Node(index[e.To]),
			W: e.Weight,
		})
	}
	return g, index
}

// Centralities computes per-node metrics with gonum
func (m *Model) Centralities() []Centrality {
	g, index := m.toDirected()

	betweenness := network.Betweenness(g)
	closeness := network.Closeness(g, path.DijkstraAllPaths(g))
	pagerank := network.PageRank(g, 0.85, 1e-6)

	inStrength := make(map[string]float64)
	outStrength := make(map[string]float64)
	for _, e := range m.Edges {
		outStrength[e.From] += e.Weight
		inStrength[e.To] += e.Weight
	}

	result := make([]Centrality, len(m.Nodes))
	for i, n := range m.Nodes {
		id := index[n]
		result[i] = Centrality{
			Node:        n,
			InStrength:  inStrength[n],
			OutStrength: outStrength[n],
			Betweenness: finite(betweenness[id]),
			Closeness:   finite(closeness[id]),
			PageRank:    finite(pagerank[id]),
		}
	}
	return result
}

// finite maps NaN and ±Inf to 0 so the metrics survive JSON encoding.
// Closeness is +Inf for nodes nothing reaches, which any pure-source
// action produces.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Communities detects communities with gonum's Louvain modularization.
// Louvain works on undirected graphs, so edge weights are folded across
// directions first. Returns node -> community index.
func (m *Model) Communities() map[string]int {
	index := make(map[string]int64, len(m.Nodes))
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i, n := range m.Nodes {
		index[n] = int64(i)
		g.AddNode(simple.Node(int64(i)))
	}

	folded := make(map[[2]int64]float64)
	for _, e := range m.Edges {
		if e.From == e.To {
			continue
		}
		a, b := index[e.From], index[e.To]
		if a > b {
			a, b = b, a
		}
		folded[[2]int64{a, b}] += e.Weight
	}
	for key, w := range folded {
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(key[0]), T: simple.Node(key[1]), W: w})
	}

	reduced := community.Modularize(g, 1.0, nil)

	assignment := make(map[string]int, len(m.Nodes))
	for ci, nodes := range reduced.Communities() {
		for _, n := range nodes {
			// Node IDs are indices into m.Nodes
			assignment[m.Nodes[n.ID()]] = ci
		}
	}
	return assignment
}

// Summarize computes whole-network statistics and the topN heaviest
// transitions
func (m *Model) Summarize(topN int) Summary {
	s := Summary{Nodes: len(m.Nodes), Edges: len(m.Edges)}

	n := float64(len(m.Nodes))
	if n > 1 {
		// Directed density; self-loops excluded from the possible edge count
		s.Density = float64(len(m.Edges)) / (n * (n - 1))
	}

	totalWeight := 0.0
	for _, e := range m.Edges {
		totalWeight += e.Weight
		s.TotalCount += e.Count
	}
	if len(m.Edges) > 0 {
		s.MeanWeight = totalWeight / float64(len(m.Edges))
	}

	top := make([]Edge, len(m.Edges))
	copy(top, m.Edges)
	sort.Slice(top, func(i, j int) bool { return top[i].Weight > top[j].Weight })
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	s.TopTransitions = top
	return s
}
