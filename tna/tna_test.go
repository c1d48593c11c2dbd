package tna

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(minutes int) time.Time {
	return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func TestExtractSequencesSplitsOnIdleGap(t *testing.T) {
	events := []Event{
		{UserID: 1, Action: "A", At: at(0)},
		{UserID: 1, Action: "B", At: at(5)},
		// 2h gap starts a new session
		{UserID: 1, Action: "C", At: at(125)},
		{UserID: 1, Action: "D", At: at(130)},
	}

	sequences := ExtractSequences(events, 30*time.Minute)

	require.Len(t, sequences, 2)
	assert.Equal(t, []string{"A", "B"}, sequences[0])
	assert.Equal(t, []string{"C", "D"}, sequences[1])
}

func TestExtractSequencesSplitsPerUser(t *testing.T) {
	events := []Event{
		{UserID: 2, Action: "X", At: at(0)},
		{UserID: 1, Action: "A", At: at(1)},
		{UserID: 2, Action: "Y", At: at(2)},
		{UserID: 1, Action: "B", At: at(3)},
	}

	sequences := ExtractSequences(events, 30*time.Minute)

	require.Len(t, sequences, 2)
	assert.Equal(t, []string{"A", "B"}, sequences[0])
	assert.Equal(t, []string{"X", "Y"}, sequences[1])
}

func TestBuildCountsTransitions(t *testing.T) {
	sequences := [][]string{
		{"A", "B", "A", "B"},
		{"A", "B"},
	}

	model, err := Build(ModeTNA, sequences, 0.9)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, model.Nodes)
	require.Len(t, model.Edges, 2)

	// A->B happens 3 times, B->A once
	assert.Equal(t, "A", model.Edges[0].From)
	assert.Equal(t, "B", model.Edges[0].To)
	assert.Equal(t, int64(3), model.Edges[0].Count)
	assert.Equal(t, 3.0, model.Edges[0].Weight)

	assert.Equal(t, "B", model.Edges[1].From)
	assert.Equal(t, "A", model.Edges[1].To)
	assert.Equal(t, int64(1), model.Edges[1].Count)
}

func TestBuildFTNARowNormalizes(t *testing.T) {
	sequences := [][]string{
		{"A", "B"},
		{"A", "B"},
		{"A", "C"},
	}

	model, err := Build(ModeFTNA, sequences, 0.9)
	require.NoError(t, err)

	weights := make(map[string]float64)
	for _, e := range model.Edges {
		weights[e.From+e.To] = e.Weight
	}

	// Outgoing weights of A sum to 1
	assert.InDelta(t, 2.0/3.0, weights["AB"], 1e-9)
	assert.InDelta(t, 1.0/3.0, weights["AC"], 1e-9)
}

func TestBuildATNADecaysLaterTransitions(t *testing.T) {
	sequences := [][]string{
		{"A", "B", "C"},
	}

	model, err := Build(ModeATNA, sequences, 0.5)
	require.NoError(t, err)

	weights := make(map[string]float64)
	for _, e := range model.Edges {
		weights[e.From+e.To] = e.Weight
	}

	// First transition weighs 0.5^0, second 0.5^1
	assert.InDelta(t, 1.0, weights["AB"], 1e-9)
	assert.InDelta(t, 0.5, weights["BC"], 1e-9)
}

func TestBuildRejectsUnknownMode(t *testing.T) {
	_, err := Build("bogus", [][]string{{"A", "B"}}, 0.9)
	assert.Error(t, err)
}

func TestPruneDropsWeakEdgesAndIsolatedNodes(t *testing.T) {
	model := &Model{
		Mode:  ModeTNA,
		Nodes: []string{"A", "B", "C"},
		Edges: []Edge{
			{From: "A", To: "B", Weight: 100, Count: 100},
			{From: "B", To: "C", Weight: 1, Count: 1},
		},
	}

	model.Prune(0.05)

	// B->C falls below 5% of the max weight; C becomes isolated
	require.Len(t, model.Edges, 1)
	assert.Equal(t, "A", model.Edges[0].From)
	assert.Equal(t, []string{"A", "B"}, model.Nodes)
}

func TestPruneZeroThresholdIsNoop(t *testing.T) {
	model := &Model{
		Nodes: []string{"A", "B"},
		Edges: []Edge{{From: "A", To: "B", Weight: 0.001, Count: 1}},
	}

	model.Prune(0)

	assert.Len(t, model.Edges, 1)
	assert.Len(t, model.Nodes, 2)
}

func TestCentralitiesStrengths(t *testing.T) {
	sequences := [][]string{
		{"A", "B", "C"},
		{"A", "B"},
	}

	model, err := Build(ModeTNA, sequences, 0.9)
	require.NoError(t, err)

	centralities := model.Centralities()
	require.Len(t, centralities, 3)

	byNode := make(map[string]Centrality)
	for _, c := range centralities {
		byNode[c.Node] = c
	}

	assert.Equal(t, 2.0, byNode["A"].OutStrength)
	assert.Equal(t, 0.0, byNode["A"].InStrength)
	assert.Equal(t, 2.0, byNode["B"].InStrength)
	assert.Equal(t, 1.0, byNode["B"].OutStrength)

	// B sits between A and C
	assert.Greater(t, byNode["B"].Betweenness, byNode["A"].Betweenness)

	// PageRank sums to roughly 1 over the graph
	total := 0.0
	for _, c := range centralities {
		total += c.PageRank
	}
	assert.InDelta(t, 1.0, total, 0.01)
}

func TestCentralitiesFiniteWithSourceNode(t *testing.T) {
	// ENROLL only ever starts sessions, so no node reaches it and its raw
	// closeness would be +Inf, which JSON cannot encode
	sequences := [][]string{
		{"ENROLL", "LECTURE_VIEW", "SUBMIT"},
		{"ENROLL", "LECTURE_VIEW"},
	}

	model, err := Build(ModeTNA, sequences, 0.9)
	require.NoError(t, err)

	centralities := model.Centralities()
	for _, c := range centralities {
		assert.False(t, math.IsInf(c.Closeness, 0), "closeness of %s must be finite", c.Node)
		assert.False(t, math.IsNaN(c.Betweenness), "betweenness of %s must be finite", c.Node)
		assert.False(t, math.IsNaN(c.PageRank), "pagerank of %s must be finite", c.Node)
	}

	_, err = json.Marshal(centralities)
	require.NoError(t, err)
}

func TestCommunitiesAssignsEveryNode(t *testing.T) {
	// Two dense pairs joined by one weak link
	sequences := [][]string{
		{"A", "B", "A", "B", "A", "B"},
		{"C", "D", "C", "D", "C", "D"},
		{"B", "C"},
	}

	model, err := Build(ModeTNA, sequences, 0.9)
	require.NoError(t, err)

	communities := model.Communities()
	assert.Len(t, communities, 4)
	for _, n := range model.Nodes {
		_, ok := communities[n]
		assert.True(t, ok, "node %s missing from community assignment", n)
	}
}

func TestSummarize(t *testing.T) {
	model := &Model{
		Nodes: []string{"A", "B", "C"},
		Edges: []Edge{
			{From: "A", To: "B", Weight: 3, Count: 3},
			{From: "B", To: "C", Weight: 1, Count: 1},
		},
	}

	summary := model.Summarize(1)

	assert.Equal(t, 3, summary.Nodes)
	assert.Equal(t, 2, summary.Edges)
	assert.InDelta(t, 2.0/6.0, summary.Density, 1e-9)
	assert.InDelta(t, 2.0, summary.MeanWeight, 1e-9)
	assert.Equal(t, int64(4), summary.TotalCount)
	require.Len(t, summary.TopTransitions, 1)
	assert.Equal(t, "A", summary.TopTransitions[0].From)
}

func TestEmptyInput(t *testing.T) {
	sequences := ExtractSequences(nil, 30*time.Minute)
	assert.Empty(t, sequences)

	model, err := Build(ModeTNA, sequences, 0.9)
	require.NoError(t, err)
	assert.Empty(t, model.Nodes)
	assert.Empty(t, model.Edges)

	summary := model.Summarize(10)
	assert.Zero(t, summary.Density)
	assert.Zero(t, summary.MeanWeight)
}
