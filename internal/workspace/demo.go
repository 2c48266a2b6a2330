package workspace

import (
	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
)

// Demo returns the sample plan used by "manpower init" and "manpower reset":
// six teams, eight projects, and four quarterly time points.
func Demo() Document {
	return Document{
		Metadata: Metadata{
			Title:        "2024 R&D headcount plan",
			Version:      "1.0",
			TotalPersons: 50,
			LastUpdated:  "2024-01-01",
		},
		Teams: []plan.Team{
			{ID: "team-1", Name: "前端团队", Capacity: 12, Color: "#3498db", Badge: "①", Description: "Web and mobile frontend"},
			{ID: "team-2", Name: "后端团队", Capacity: 15, Color: "#e74c3c", Badge: "②", Description: "Core services and APIs"},
			{ID: "team-3", Name: "数据团队", Capacity: 8, Color: "#2ecc71", Badge: "③", Description: "Data platform and ML"},
			{ID: "team-4", Name: "测试团队", Capacity: 6, Color: "#f39c12", Badge: "④", Description: "QA and test automation"},
			{ID: "team-5", Name: "运维团队", Capacity: 5, Color: "#9b59b6", Badge: "⑤", Description: "Infrastructure and DevOps"},
			{ID: "team-6", Name: "产品团队", Capacity: 4, Color: "#1abc9c", Badge: "⑥", Description: "Product and design"},
		},
		Projects: []plan.Project{
			{ID: "project-1", Name: "CRM系统 v2.0", Status: plan.StatusDevelopment, Color: "#3498db", Pattern: plan.PatternSolid, Teams: []string{"team-1", "team-2", "team-4"}, ReleaseDate: "2024-07"},
			{ID: "project-2", Name: "数据分析平台", Status: plan.StatusDevelopment, Color: "#e74c3c", Pattern: plan.PatternSolid, Teams: []string{"team-2", "team-3", "team-6"}, ReleaseDate: "2024-10"},
			{ID: "project-3", Name: "移动端App", Status: plan.StatusPlanning, Color: "#2ecc71", Pattern: plan.PatternStripes, Teams: []string{"team-1", "team-2"}, ReleaseDate: "2024-10"},
			{ID: "project-4", Name: "用户中心升级", Status: plan.StatusDevelopment, Color: "#f39c12", Pattern: plan.PatternDots, Teams: []string{"team-2", "team-5"}, ReleaseDate: "2024-04"},
			{ID: "project-5", Name: "监控平台", Status: plan.StatusDevelopment, Color: "#9b59b6", Pattern: plan.PatternDots, Teams: []string{"team-5", "team-3"}, ReleaseDate: "2024-07"},
			{ID: "project-6", Name: "API网关优化", Status: plan.StatusPlanning, Color: "#1abc9c", Pattern: plan.PatternDots, Teams: []string{"team-2", "team-5"}, ReleaseDate: "2024-10"},
			{ID: "project-7", Name: "AI智能助手", Status: plan.StatusPlanning, Color: "#e67e22", Pattern: plan.PatternStripes, Teams: []string{"team-3", "team-1"}, ReleaseDate: "2024-12"},
			{ID: "project-8", Name: "微服务架构", Status: plan.StatusPlanning, Color: "#34495e", Pattern: plan.PatternStripes, Teams: []string{"team-2", "team-5"}, ReleaseDate: "2024-12"},
		},
		TimePoints: []plan.TimePoint{
			{ID: "time-1", Name: "Q1启动期", Date: "2024-01", Type: plan.TypeCurrent, Description: "Kickoff and requirements"},
			{ID: "time-2", Name: "Q2开发期", Date: "2024-04", Type: plan.TypeRelease, Description: "Core development"},
			{ID: "time-3", Name: "Q3发布期", Date: "2024-07", Type: plan.TypeRelease, Description: "Release and rollout"},
			{ID: "time-4", Name: "Q4优化期", Date: "2024-10", Type: plan.TypePlanning, Description: "Tuning and next-round planning"},
		},
		Allocations: demoAllocations(),
	}
}

func occ(o float64) alloc.Cell    { return alloc.Cell{Occupied: o} }
func pre(o, p float64) alloc.Cell { return alloc.Cell{Occupied: o, Prerelease: p} }

// row builds a team -> cell map from alternating id and cell arguments.
func row(kv ...any) map[string]alloc.Cell {
	m := make(map[string]alloc.Cell, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1].(alloc.Cell)
	}
	return m
}

func demoAllocations() alloc.Nested {
	return alloc.Nested{
		"time-1": {
			"project-1": row("team-1", occ(4), "team-2", occ(6), "team-4", occ(3), "team-6", occ(2)),
			"project-2": row("team-2", occ(3), "team-3", occ(5), "team-6", occ(1)),
			"project-4": row("team-2", occ(2), "team-5", occ(2)),
			"project-5": row("team-5", occ(3), "team-3", occ(1)),
		},
		"time-2": {
			"project-1": row("team-1", pre(8, 2), "team-2", pre(9, 1), "team-4", occ(4), "team-6", occ(1)),
			"project-2": row("team-2", occ(4), "team-3", occ(6), "team-6", occ(2)),
			"project-3": row("team-1", occ(2), "team-2", occ(1)),
			"project-4": row("team-2", pre(1, 1), "team-5", pre(1, 1)),
			"project-5": row("team-5", occ(3), "team-3", occ(1)),
		},
		"time-3": {
			"project-1": row("team-1", pre(6, 2), "team-2", pre(8, 2), "team-4", occ(2), "team-5", occ(1)),
			"project-2": row("team-2", occ(2), "team-3", pre(7, 1), "team-4", occ(2), "team-6", occ(1)),
			"project-3": row("team-1", occ(2), "team-2", occ(3), "team-4", occ(2)),
			"project-5": row("team-5", occ(4), "team-3", occ(0)),
		},
		"time-4": {
			"project-2": row("team-2", occ(1), "team-3", pre(3, 2), "team-4", occ(1)),
			"project-3": row("team-1", occ(4), "team-2", occ(4), "team-4", occ(2), "team-5", occ(1)),
			"project-6": row("team-2", occ(5), "team-5", occ(3)),
			"project-7": row("team-3", occ(3), "team-1", occ(2)),
			"project-8": row("team-2", occ(1), "team-5", occ(1), "team-6", occ(1)),
		},
	}
}
