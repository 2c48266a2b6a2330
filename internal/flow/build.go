package flow

import (
	"math"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
)

// Matrix is the read side of the allocation matrix.
type Matrix interface {
	Get(k alloc.Key) alloc.Cell
}

// Filter restricts the graph to the listed team and project ids. An empty
// list selects everything.
type Filter struct {
	Teams    []string `json:"teams,omitempty"`
	Projects []string `json:"projects,omitempty"`
}

// leftoverThreshold is the smallest pool remainder, and the smallest pushed
// amount, considered by the leftover push.
const leftoverThreshold = 0.5

// leftoverShare caps a leftover push at this fraction of the target's
// occupied headcount.
const leftoverShare = 0.2

// Build derives the flow graph over the first MaxColumns date-sorted time
// points. Projects and teams are visited in registry order at every step,
// so identical input always yields an identical graph.
//
// The first time point links teams to projects directly. Each later time
// point fills every project's per-team need first by inheriting from the
// same project's previous column, then first-fit from the other projects'
// unclaimed headcount. Headcount still unclaimed after that (more than 0.5)
// is pushed to at most one other project that uses the team, capped at 20%
// of its occupied and rounded to 0.1. The push is a heuristic and may leave
// headcount unassigned.
func Build(reg *plan.Registry, m Matrix, f Filter) Graph {
	sorted := reg.SortedTimePoints()
	if len(sorted) > MaxColumns {
		sorted = sorted[:MaxColumns]
	}

	b := &builder{
		m:        m,
		teams:    selectTeams(reg.Teams(), f.Teams),
		projects: selectProjects(reg.Projects(), f.Projects),
		tps:      sorted,
		present:  make(map[string]bool),
		teamByID: make(map[string]plan.Team),
	}
	for _, t := range b.teams {
		b.teamByID[t.ID] = t
	}

	g := Graph{TimePoints: sorted, Nodes: []Node{}}
	for _, t := range b.teams {
		g.Nodes = append(g.Nodes, Node{
			ID:     TeamNodeID(t.ID),
			Label:  t.Name,
			Kind:   NodeTeam,
			RefID:  t.ID,
			Column: 0,
			Value:  t.Capacity,
			Color:  t.Color,
		})
	}
	for i, tp := range sorted {
		for _, p := range b.projects {
			var total float64
			for _, t := range b.teams {
				total += b.occ(i, p.ID, t.ID)
			}
			if total <= 0 {
				continue
			}
			id := ProjectNodeID(p.ID, i+1)
			b.present[id] = true
			g.Nodes = append(g.Nodes, Node{
				ID:        id,
				Label:     p.Name,
				Kind:      NodeProject,
				RefID:     p.ID,
				TimePoint: tp.ID,
				Column:    i + 1,
				Value:     total,
				Color:     p.Color,
			})
		}
	}

	for i := range sorted {
		if i == 0 {
			b.seed()
		} else {
			b.transition(i)
		}
	}
	g.Links = merge(b.links)
	return g
}

type builder struct {
	m        Matrix
	teams    []plan.Team
	projects []plan.Project
	tps      []plan.TimePoint
	present  map[string]bool
	teamByID map[string]plan.Team
	links    []Link
}

func (b *builder) occ(i int, projectID, teamID string) float64 {
	return b.m.Get(alloc.Key{TimePoint: b.tps[i].ID, Project: projectID, Team: teamID}).Occupied
}

// node returns the id of the project's node at time point i and whether
// that node exists.
func (b *builder) node(projectID string, i int) (string, bool) {
	id := ProjectNodeID(projectID, i+1)
	return id, b.present[id]
}

func (b *builder) share(teamID string, v float64) TeamShare {
	t := b.teamByID[teamID]
	return TeamShare{TeamID: t.ID, Name: t.Name, Color: t.Color, Value: v}
}

func (b *builder) link(src, dst string, v float64, shares ...TeamShare) {
	b.links = append(b.links, Link{Source: src, Target: dst, Value: v, Teams: shares})
}

func (b *builder) seed() {
	for _, p := range b.projects {
		dst, ok := b.node(p.ID, 0)
		if !ok {
			continue
		}
		for _, t := range b.teams {
			if v := b.occ(0, p.ID, t.ID); v > 0 {
				b.link(TeamNodeID(t.ID), dst, v, b.share(t.ID, v))
			}
		}
	}
}

func (b *builder) transition(i int) {
	pool := newPool()
	for _, p := range b.projects {
		if _, ok := b.node(p.ID, i-1); !ok {
			continue
		}
		res := pool.add(p.ID)
		for _, t := range b.teams {
			if v := b.occ(i-1, p.ID, t.ID); v > 0 {
				res.set(t.ID, v)
			}
		}
	}

	for _, cur := range b.projects {
		dst, ok := b.node(cur.ID, i)
		if !ok {
			continue
		}
		needs := newAmounts()
		for _, t := range b.teams {
			if v := b.occ(i, cur.ID, t.ID); v > 0 {
				needs.set(t.ID, v)
			}
		}

		if src, ok := b.node(cur.ID, i-1); ok {
			var total float64
			var shares []TeamShare
			for _, t := range b.teams {
				need := needs.get(t.ID)
				inherited := math.Min(b.occ(i-1, cur.ID, t.ID), need)
				if inherited <= 0 {
					continue
				}
				total += inherited
				shares = append(shares, b.share(t.ID, inherited))
				needs.set(t.ID, math.Max(0, need-inherited))
				if res, ok := pool.byID[cur.ID]; ok {
					res.set(t.ID, math.Max(0, res.get(t.ID)-inherited))
				}
			}
			if total > 0 {
				b.link(src, dst, total, shares...)
			}
		}

		for _, teamID := range needs.order {
			remaining := needs.get(teamID)
			for _, srcID := range pool.order {
				if remaining <= 0 {
					break
				}
				res := pool.byID[srcID]
				avail := res.get(teamID)
				if avail <= 0 {
					continue
				}
				amt := math.Min(remaining, avail)
				src, _ := b.node(srcID, i-1)
				b.link(src, dst, amt, b.share(teamID, amt))
				remaining -= amt
				res.set(teamID, avail-amt)
			}
		}
	}

	b.pushLeftovers(i, pool)
}

func (b *builder) pushLeftovers(i int, pool *pool) {
	for _, srcID := range pool.order {
		src, _ := b.node(srcID, i-1)
		res := pool.byID[srcID]
		for _, teamID := range res.order {
			rem := res.get(teamID)
			if rem <= leftoverThreshold {
				continue
			}
			for _, target := range b.projects {
				if target.ID == srcID {
					continue
				}
				dst, ok := b.node(target.ID, i)
				if !ok {
					continue
				}
				o := b.occ(i, target.ID, teamID)
				if o <= 0 {
					continue
				}
				amt := math.Min(rem, o*leftoverShare)
				if amt <= leftoverThreshold {
					continue
				}
				v := roundTenth(amt)
				b.link(src, dst, v, b.share(teamID, v))
				break
			}
		}
	}
}

func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func selectTeams(all []plan.Team, ids []string) []plan.Team {
	if len(ids) == 0 {
		return all
	}
	want := toSet(ids)
	var out []plan.Team
	for _, t := range all {
		if want[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

func selectProjects(all []plan.Project, ids []string) []plan.Project {
	if len(ids) == 0 {
		return all
	}
	want := toSet(ids)
	var out []plan.Project
	for _, p := range all {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	s := make(map[string]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}
