package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/manpower/internal/config"
	"github.com/papapumpkin/manpower/internal/telemetry"
	"github.com/papapumpkin/manpower/internal/ui"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "View the JSONL log of plan edits",
	Long: `Reads and formats the telemetry file: one line per cell write, entity
change, import, and snapshot.

With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.NoArgs,
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	telemetryCmd.Flags().StringSlice("kind", nil, "only show these event kinds")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, _ []string) error {
	follow, _ := cmd.Flags().GetBool("follow")
	kinds, _ := cmd.Flags().GetStringSlice("kind")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path := cfg.TelemetryPath

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	p := ui.NewTo(cmd.OutOrStdout())
	show := eventFilter(p, kinds)

	// Print all existing events.
	reader := bufio.NewReader(f)
	if err := drain(reader, show); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", path, err)
	}

	if !follow {
		return nil
	}
	return tailFollow(reader, path, show)
}

// eventFilter returns a printer for event lines, restricted to kinds when
// any are given.
func eventFilter(p *ui.Printer, kinds []string) func(line string) {
	allowed := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	return func(line string) {
		var evt telemetry.Event
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			p.Warn("unreadable event: " + line)
			return
		}
		if len(allowed) > 0 && !allowed[evt.Kind] {
			return
		}
		p.Event(evt)
	}
}

// drain prints every complete line available from r.
func drain(r *bufio.Reader, show func(string)) error {
	for {
		line, err := r.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			show(line)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(r *bufio.Reader, path string, show func(string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	for event := range watcher.Events {
		if !event.Has(fsnotify.Write) {
			continue
		}
		if err := drain(r, show); err != nil {
			return fmt.Errorf("telemetry: read %s: %w", path, err)
		}
	}
	return nil
}
