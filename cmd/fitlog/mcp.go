// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/fitlog/internal/events"
	"github.com/harperreed/fitlog/internal/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "fitlog": {
        "command": "fitlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_record        Log sets x reps at a weight
  list_records      List records newest first
  update_record     Change sets, reps, weight or date
  delete_record     Delete a record, returning an undo token
  undo_delete       Restore a deleted record
  list_exercises    List exercises
  add_exercise      Create an exercise
  rename_exercise   Rename an exercise
  delete_exercise   Delete an exercise and its records
  check_groups      Verify and optionally rebuild groups

AVAILABLE RESOURCES:

  fitlog://recent      Most recent records
  fitlog://exercises   All exercises
  fitlog://summary     Counts and latest record per exercise`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bus := events.NewBus(0)
		server, err := mcp.NewServer(repo, maint,
			mcp.WithBus(bus),
			mcp.WithScrollConfig(cfg.Scroll),
			mcp.WithLogger(log))
		if err != nil {
			return err
		}
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		go func() {
			for ev := range bus.Events() {
				log.Debug("event", zap.Stringer("kind", ev.Kind), zap.Int64("record_id", ev.RecordID))
			}
		}()
		defer bus.Close()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
