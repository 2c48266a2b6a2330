// Package flow derives a Sankey-style node/link graph describing how team
// headcount moves between projects over consecutive time points.
package flow

import (
	"fmt"

	"github.com/papapumpkin/manpower/internal/plan"
)

// MaxColumns is the number of date-sorted time points a graph covers.
const MaxColumns = 3

// NodeKind distinguishes team nodes from project nodes.
type NodeKind string

// Node kinds.
const (
	NodeTeam    NodeKind = "team"
	NodeProject NodeKind = "project"
)

// Node is one box in the graph. Team nodes sit in column 0; project nodes in
// columns 1..MaxColumns, one per time point.
type Node struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Kind      NodeKind `json:"kind"`
	RefID     string   `json:"refId"`
	TimePoint string   `json:"timePoint,omitempty"`
	Column    int      `json:"column"`
	Value     float64  `json:"value"`
	Color     string   `json:"color"`
}

// TeamShare is one team's contribution to a link.
type TeamShare struct {
	TeamID string  `json:"teamId"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Value  float64 `json:"value"`
}

// Link carries headcount from Source to Target, broken down by team in
// order of first contribution.
type Link struct {
	Source string      `json:"source"`
	Target string      `json:"target"`
	Value  float64     `json:"value"`
	Teams  []TeamShare `json:"teams"`
}

// Graph is the built flow graph.
type Graph struct {
	TimePoints []plan.TimePoint `json:"timePoints"`
	Nodes      []Node           `json:"nodes"`
	Links      []Link           `json:"links"`
}

// TeamNodeID returns the node id of a team.
func TeamNodeID(teamID string) string { return "team/" + teamID }

// ProjectNodeID returns the node id of a project in the given column.
func ProjectNodeID(projectID string, column int) string {
	return fmt.Sprintf("project/%s/%d", projectID, column)
}

// Node looks up a node by id.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Outflow sums the values of links leaving the node.
func (g Graph) Outflow(id string) float64 {
	var sum float64
	for _, l := range g.Links {
		if l.Source == id {
			sum += l.Value
		}
	}
	return sum
}

// Inflow sums the values of links entering the node.
func (g Graph) Inflow(id string) float64 {
	var sum float64
	for _, l := range g.Links {
		if l.Target == id {
			sum += l.Value
		}
	}
	return sum
}

// merge folds links with the same source and target together, summing
// values and per-team shares while keeping first-appearance order.
func merge(links []Link) []Link {
	out := make([]Link, 0, len(links))
	index := make(map[string]int)
	for _, l := range links {
		key := l.Source + "->" + l.Target
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			l.Teams = append([]TeamShare(nil), l.Teams...)
			out = append(out, l)
			continue
		}
		dst := &out[i]
		dst.Value += l.Value
		for _, s := range l.Teams {
			found := false
			for j := range dst.Teams {
				if dst.Teams[j].TeamID == s.TeamID {
					dst.Teams[j].Value += s.Value
					found = true
					break
				}
			}
			if !found {
				dst.Teams = append(dst.Teams, s)
			}
		}
	}
	return out
}
