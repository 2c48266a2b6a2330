package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/config"
	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/telemetry"
	"github.com/papapumpkin/manpower/internal/workspace"
)

// session is a loaded plan file with its telemetry emitter.
type session struct {
	cfg     config.Config
	ws      *workspace.Workspace
	emitter *telemetry.Emitter
}

// openSession loads the configured plan file. A missing file is reported
// with a hint to run init.
func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	doc, err := workspace.ReadDocument(cfg.DataFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no plan at %s: run `manpower init` first", cfg.DataFile)
	}
	if err != nil {
		return nil, err
	}
	return newSession(cfg, doc)
}

func newSession(cfg config.Config, doc workspace.Document) (*session, error) {
	em, err := telemetry.NewEmitter(cfg.TelemetryPath)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:     cfg,
		ws:      workspace.New(doc, workspace.WithEmitter(em)),
		emitter: em,
	}, nil
}

// save writes the workspace back to the plan file.
func (s *session) save() error {
	return workspace.WriteDocument(s.cfg.DataFile, s.ws.Document())
}

func (s *session) close() {
	_ = s.emitter.Close()
}

// checkIDs reports the first id that is not registered.
func (s *session) checkIDs(timePoint, project, team string) error {
	var err error
	s.ws.Read(func(reg *plan.Registry, _ *alloc.Matrix) {
		switch {
		case timePoint != "" && !has(reg.TimePoint(timePoint)):
			err = fmt.Errorf("unknown time point %q", timePoint)
		case project != "" && !has(reg.Project(project)):
			err = fmt.Errorf("unknown project %q", project)
		case team != "" && !has(reg.Team(team)):
			err = fmt.Errorf("unknown team %q", team)
		}
	})
	return err
}

func has[T any](_ T, ok bool) bool { return ok }

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// isStderrTTY reports whether stderr is attached to a terminal.
func isStderrTTY() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
