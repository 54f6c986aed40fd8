package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"trendline-overlay/internal/batch"
	"trendline-overlay/internal/logging"
	"trendline-overlay/internal/overlay"
)

type batchItem struct {
	Source string          `json:"source"`
	Report *overlay.Report `json:"report,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func newBatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <files...>",
		Short: "Detect trend lines for many series concurrently",
		Long: `Detect trend lines for many series concurrently.

Every file is an independent run. Results are listed in argument order; a
failing file does not stop the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			workers := app.Config.Batch.Workers
			if cmd.Flags().Changed("workers") {
				workers, _ = cmd.Flags().GetInt("workers")
			}
			if workers < 0 {
				return fmt.Errorf("--workers must be non-negative, got %d", workers)
			}

			req, err := detectRequest(cmd, app, "")
			if err != nil {
				return err
			}
			svc, _, err := app.Service()
			if err != nil {
				return err
			}

			logger := logging.WithOperation(app.Logger, "batch")
			start := time.Now()
			outcomes := batch.Run(cmd.Context(), workers, args, func(ctx context.Context, source string) (*overlay.Report, error) {
				r := req
				r.Source = source
				return svc.Run(ctx, r)
			})

			items := make([]batchItem, len(outcomes))
			failed := 0
			for i, o := range outcomes {
				items[i] = batchItem{Source: args[i], Report: o.Result}
				if o.Err != nil {
					items[i].Error = o.Err.Error()
					failed++
				}
			}
			logger.Info().
				Int("series", len(args)).
				Int("failed", failed).
				Dur("duration", time.Since(start)).
				Msg("Batch complete")

			if output.IsJSON() {
				if err := output.JSON(items); err != nil {
					return err
				}
			} else {
				printBatch(output, items, time.Since(start))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d series failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().Int("workers", 0, "concurrent workers, 0 for one per CPU (default from config)")
	cmd.Flags().String("mode", "", "overlay mode: pivot or regression (default from config)")
	cmd.Flags().Int("window", 0, "pivot window (default from config)")
	cmd.Flags().Float64("epsilon", 0, "containment tolerance (default from config)")
	cmd.Flags().Float64("touch-tolerance", 0, "touch tolerance (default from config)")

	return cmd
}

func printBatch(output *Output, items []batchItem, elapsed time.Duration) {
	table := NewTable(output, "SOURCE", "CANDLES", "LINE", "POINTS", "END")
	for _, item := range items {
		source := TruncateLeft(item.Source, 40)
		if item.Report == nil {
			table.AddRow(source, "-", "error", "-", item.Error)
			continue
		}
		r := item.Report
		end := "-"
		if r.Found() {
			end = FormatPrice(r.Points[len(r.Points)-1].Y)
		}
		table.AddRow(source, FormatCount(r.Candles), batchLineLabel(r), strconv.Itoa(len(r.Points)), end)
	}
	table.Render()
	output.Println()
	output.Dim("%d series in %s", len(items), FormatDuration(elapsed))
}

func batchLineLabel(r *overlay.Report) string {
	switch {
	case r.Result != nil && r.Result.Selected != nil:
		return string(r.Result.Selected.Type)
	case r.Regression != nil:
		return "regression"
	}
	return "none"
}
