package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/manpower/internal/stats"
	"github.com/papapumpkin/manpower/internal/telemetry"
	"github.com/papapumpkin/manpower/internal/ui"
	"github.com/papapumpkin/manpower/internal/workspace"
)

// usePlanDir points the plan, telemetry, and database paths at a fresh temp
// directory. Tests using it modify global viper state and must not run in
// parallel.
func usePlanDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	viper.Set("data_file", filepath.Join(dir, "plan.json"))
	viper.Set("telemetry_path", filepath.Join(dir, "events.jsonl"))
	viper.Set("db_path", filepath.Join(dir, "plan.db"))
	return dir
}

func readPlan(t *testing.T, dir string) workspace.Document {
	t.Helper()
	doc, err := workspace.ReadDocument(filepath.Join(dir, "plan.json"))
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	return doc
}

func subcommand(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("%s has no subcommand %q", parent.Name(), name)
	return nil
}

// setFlag sets a flag for the duration of the test.
func setFlag(t *testing.T, c *cobra.Command, name, value string) {
	t.Helper()
	f := c.Flags().Lookup(name)
	if f == nil {
		t.Fatalf("%s has no flag %q", c.Name(), name)
	}
	old := f.Value.String()
	if err := c.Flags().Set(name, value); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sv, ok := f.Value.(interface{ Replace([]string) error }); ok && old == "[]" {
			_ = sv.Replace(nil)
		} else {
			_ = c.Flags().Set(name, old)
		}
		f.Changed = false
	})
}

func TestCommandsRegistered(t *testing.T) {
	t.Parallel()

	want := []string{"init", "reset", "cell", "team", "project", "timepoint", "stats", "flow",
		"persondays", "distribution", "check", "report", "import", "export", "db", "serve", "tui", "telemetry"}
	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("expected %q subcommand to be registered on rootCmd", name)
		}
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	dir := usePlanDir(t)

	if err := writeDemo(false); err != nil {
		t.Fatalf("first init: %v", err)
	}
	err := writeDemo(false)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second init error = %v, want already exists", err)
	}
	if err := writeDemo(true); err != nil {
		t.Fatalf("forced init: %v", err)
	}
	if doc := readPlan(t, dir); len(doc.Teams) != 6 {
		t.Errorf("len(Teams) = %d, want 6", len(doc.Teams))
	}
}

func TestMissingPlanHintsInit(t *testing.T) {
	usePlanDir(t)
	_, err := openSession()
	if err == nil || !strings.Contains(err.Error(), "manpower init") {
		t.Fatalf("openSession error = %v, want init hint", err)
	}
}

func TestCellSetReconcilesAndSaves(t *testing.T) {
	dir := usePlanDir(t)
	if err := writeDemo(false); err != nil {
		t.Fatal(err)
	}

	if err := runCellSet(cellSetCmd, []string{"time-1", "project-1", "team-1", "prerelease", "1"}); err != nil {
		t.Fatalf("cell set: %v", err)
	}

	doc := readPlan(t, dir)
	if got := doc.Allocations["time-1"]["project-1"]["team-1"].Prerelease; got != 1 {
		t.Errorf("edited prerelease = %v, want 1", got)
	}
	if got := doc.Allocations["time-2"]["project-1"]["team-1"].Occupied; got != 3 {
		t.Errorf("next occupied = %v, want 3", got)
	}

	events, err := telemetry.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(events) != 3 || events[0].Kind != telemetry.KindCellEdit {
		t.Errorf("events = %+v, want one edit and two writes", events)
	}
}

func TestCellSetRejectsUnknownIDs(t *testing.T) {
	usePlanDir(t)
	if err := writeDemo(false); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"time point", []string{"time-9", "project-1", "team-1", "occupied", "1"}, "unknown time point"},
		{"project", []string{"time-1", "project-9", "team-1", "occupied", "1"}, "unknown project"},
		{"team", []string{"time-1", "project-1", "team-9", "occupied", "1"}, "unknown team"},
		{"field", []string{"time-1", "project-1", "team-1", "total", "1"}, "unknown field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCellSet(cellSetCmd, tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestStatsJSON(t *testing.T) {
	usePlanDir(t)
	if err := writeDemo(false); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	statsCmd.SetOut(&buf)
	t.Cleanup(func() { statsCmd.SetOut(nil) })
	setFlag(t, statsCmd, "json", "true")

	if err := runStats(statsCmd, nil); err != nil {
		t.Fatalf("stats: %v", err)
	}
	var g stats.Global
	if err := json.Unmarshal(buf.Bytes(), &g); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if g.TotalCapacity != 50 || g.TimePointsCounted != 4 {
		t.Errorf("stats = %+v", g)
	}
}

func TestTeamAddUpdateRemove(t *testing.T) {
	dir := usePlanDir(t)
	if err := writeDemo(false); err != nil {
		t.Fatal(err)
	}

	add := subcommand(t, teamCmd, "add")
	setFlag(t, add, "id", "team-x")
	setFlag(t, add, "capacity", "3")
	if err := runTeamAdd(add, []string{"Security"}); err != nil {
		t.Fatalf("team add: %v", err)
	}
	doc := readPlan(t, dir)
	if len(doc.Teams) != 7 || doc.Teams[6].ID != "team-x" || doc.Teams[6].Capacity != 3 {
		t.Fatalf("teams after add = %+v", doc.Teams)
	}

	update := subcommand(t, teamCmd, "update")
	setFlag(t, update, "capacity", "4")
	if err := runTeamUpdate(update, []string{"team-x"}); err != nil {
		t.Fatalf("team update: %v", err)
	}
	doc = readPlan(t, dir)
	if got := doc.Teams[6]; got.Capacity != 4 || got.Name != "Security" {
		t.Errorf("team after update = %+v, want capacity 4 and name kept", got)
	}

	remove := subcommand(t, teamCmd, "remove")
	if err := remove.RunE(remove, []string{"team-x"}); err != nil {
		t.Fatalf("team remove: %v", err)
	}
	if doc = readPlan(t, dir); len(doc.Teams) != 6 {
		t.Errorf("len(Teams) after remove = %d, want 6", len(doc.Teams))
	}
}

func TestProjectAddRejectsUnknownTeam(t *testing.T) {
	usePlanDir(t)
	if err := writeDemo(false); err != nil {
		t.Fatal(err)
	}
	add := subcommand(t, projectCmd, "add")
	setFlag(t, add, "teams", "team-1,team-42")

	err := runProjectAdd(add, []string{"Billing"})
	if err == nil || !strings.Contains(err.Error(), `unknown team "team-42"`) {
		t.Fatalf("error = %v", err)
	}
}

func TestExportImportEntities(t *testing.T) {
	dir := usePlanDir(t)
	if err := writeDemo(false); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "entities.toml")

	setFlag(t, exportCmd, "entities", "true")
	if err := runExport(exportCmd, []string{path}); err != nil {
		t.Fatalf("export: %v", err)
	}

	// Wipe the registry, then restore it from the exported file.
	if err := runTimePointRemove(t, "time-4"); err != nil {
		t.Fatal(err)
	}
	setFlag(t, importCmd, "entities", "true")
	if err := runImport(importCmd, []string{path}); err != nil {
		t.Fatalf("import: %v", err)
	}

	doc := readPlan(t, dir)
	if len(doc.TimePoints) != 4 {
		t.Errorf("len(TimePoints) = %d, want 4", len(doc.TimePoints))
	}
	if got := doc.Allocations["time-1"]["project-1"]["team-1"].Occupied; got != 4 {
		t.Errorf("allocations not kept: occupied = %v", got)
	}
}

func runTimePointRemove(t *testing.T, id string) error {
	t.Helper()
	remove := subcommand(t, timepointCmd, "remove")
	return remove.RunE(remove, []string{id})
}

func TestDBSaveLoad(t *testing.T) {
	dir := usePlanDir(t)
	if err := writeDemo(false); err != nil {
		t.Fatal(err)
	}
	for _, c := range []*cobra.Command{dbSaveCmd, dbLoadCmd, dbHistoryCmd} {
		c.SetContext(t.Context())
	}

	if err := runDBSave(dbSaveCmd, nil); err != nil {
		t.Fatalf("db save: %v", err)
	}
	if err := runCellSet(cellSetCmd, []string{"time-1", "project-1", "team-1", "occupied", "9"}); err != nil {
		t.Fatal(err)
	}
	if err := runDBLoad(dbLoadCmd, nil); err != nil {
		t.Fatalf("db load: %v", err)
	}
	if got := readPlan(t, dir).Allocations["time-1"]["project-1"]["team-1"].Occupied; got != 4 {
		t.Errorf("occupied after load = %v, want 4", got)
	}

	var buf bytes.Buffer
	dbHistoryCmd.SetOut(&buf)
	t.Cleanup(func() { dbHistoryCmd.SetOut(nil) })
	if err := runDBHistory(dbHistoryCmd, nil); err != nil {
		t.Fatalf("db history: %v", err)
	}
	if !strings.Contains(buf.String(), "#1") {
		t.Errorf("history = %q", buf.String())
	}
}

func TestEventFilter(t *testing.T) {
	t.Parallel()

	lines := strings.Join([]string{
		`{"ts":"2024-01-01T10:00:00Z","kind":"cell_edit","subject":"time-1/project-1/team-1"}`,
		`{"ts":"2024-01-01T10:00:01Z","kind":"entity_added","subject":"team-7"}`,
		`not json`,
		``,
	}, "\n")

	tests := []struct {
		name   string
		kinds  []string
		want   []string
		absent []string
	}{
		{"all kinds", nil, []string{"cell_edit", "entity_added", "unreadable event"}, nil},
		{"filtered", []string{"entity_added"}, []string{"team-7"}, []string{"cell_edit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			show := eventFilter(ui.NewTo(&buf), tt.kinds)
			if err := drain(bufio.NewReader(strings.NewReader(lines)), show); err != nil {
				t.Fatalf("drain: %v", err)
			}
			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}
