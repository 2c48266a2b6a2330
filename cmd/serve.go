package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/manpower/internal/mcpserver"
	"github.com/papapumpkin/manpower/internal/reconcile"
	"github.com/papapumpkin/manpower/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the plan to agents as MCP tools over SSE",
	Long: `Starts an MCP server exposing the plan's cells, statistics, flow graph,
and person-days as tools. Every set_cell is reconciled and written back to
the plan file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (default server.port config, 8392)")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	printer := ui.New()
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	var saveMu sync.Mutex
	srv := mcpserver.NewServer(s.ws, s.cfg.Server.Port, &mcpserver.Config{
		OnChange: func(res reconcile.Result) {
			saveMu.Lock()
			defer saveMu.Unlock()
			if err := s.save(); err != nil {
				printer.Error(fmt.Sprintf("failed to save plan: %v", err))
				return
			}
			if s.cfg.Verbose {
				printer.Writes(res)
			}
		},
	})

	ctx, cancel := setupSignalContext(printer)
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("manpower MCP server listening on %s (plan %s)", srv.Addr(), s.cfg.DataFile))

	<-ctx.Done()
	stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return srv.Stop(stopCtx)
}

// setupSignalContext returns a context that is canceled on SIGINT or SIGTERM.
func setupSignalContext(printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		printer.Info("\nshutting down...")
		cancel()
	}()
	return ctx, cancel
}
