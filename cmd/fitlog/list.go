// ABOUTME: CLI command for listing records newest first.
// ABOUTME: Pages through the scroll engine and prints runs grouped by exercise.
package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/scroll"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	listExercises []string
	listLimit     int
	listFormat    string
)

type listedRecord struct {
	models.Record `yaml:",inline"`
	Exercise      string `json:"exercise" yaml:"exercise"`
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List records, newest first",
	Long: `List logged records in canonical order, newest first.

Consecutive records of one exercise print under a single group header.

Examples:
  fitlog list
  fitlog list -n 100
  fitlog list -e squat -e bench
  fitlog list --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if listLimit <= 0 {
			return fmt.Errorf("limit must be greater than 0")
		}

		var ids []int64
		for _, ref := range listExercises {
			e, err := resolveExercise(ctx, repo, ref)
			if err != nil {
				return err
			}
			ids = append(ids, e.ID)
		}

		engine := scroll.New(repo, maint, models.NewFilter(ids...),
			scroll.WithConfig(cfg.Scroll),
			scroll.WithLogger(log))
		defer engine.Close()

		if err := engine.Fill(ctx, listLimit); err != nil {
			return err
		}

		var records []*models.Record
		for _, item := range engine.Items() {
			if item.Record == nil {
				continue
			}
			records = append(records, item.Record)
			if len(records) == listLimit {
				break
			}
		}

		names, err := exerciseNames(ctx, repo)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch listFormat {
		case "json":
			return writeJSON(out, labelRecords(records, names))
		case "yaml":
			return writeYAML(out, labelRecords(records, names))
		case "text":
			printRecords(out, records, names, engine.HasMore())
			return nil
		default:
			return fmt.Errorf("unknown format: %s (use text, json or yaml)", listFormat)
		}
	},
}

func labelRecords(records []*models.Record, names map[int64]string) []listedRecord {
	out := make([]listedRecord, len(records))
	for i, r := range records {
		out[i] = listedRecord{Record: *r, Exercise: names[r.ExerciseID]}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func printRecords(w io.Writer, records []*models.Record, names map[int64]string, hasMore bool) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	faint := color.New(color.Faint)
	header := color.New(color.Bold)

	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		padRight("GROUP", 6), padRight("EXERCISE", 20), padRight("SETS", 16), "DATE")

	group := int64(-1)
	for _, r := range records {
		groupCol := padRight("", 6)
		nameCol := padRight("", 20)
		if r.GroupIndex != group {
			group = r.GroupIndex
			groupCol = header.Sprint(padRight(fmt.Sprintf("#%d", r.GroupIndex), 6))
			nameCol = header.Sprint(padRight(truncate(names[r.ExerciseID], 20), 20))
		}
		fmt.Fprintf(w, "%s  %s  %s  %s %s\n",
			groupCol,
			nameCol,
			padRight(formatRecord(r), 16),
			faint.Sprint(r.Time().Format("2006-01-02 15:04")),
			faint.Sprintf("[%d]", r.ID))
	}

	if hasMore {
		faint.Fprintln(w, "... more records available, raise --limit to see them")
	}
}

func init() {
	listCmd.Flags().StringArrayVarP(&listExercises, "exercise", "e", nil, "only show this exercise (repeatable)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "number of records to show")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(listCmd)
}
