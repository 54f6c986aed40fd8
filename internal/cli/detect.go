package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"trendline-overlay/internal/analysis"
	"trendline-overlay/internal/analysis/trendline"
	"trendline-overlay/internal/models"
	"trendline-overlay/internal/overlay"
)

func newDetectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Detect the trend line of a candle series",
		Long: `Detect the trend line of a candle series stored in a CSV or JSON file.

Prints the selected line and its 0, 2 or 3 chart points. An empty point list
means no line satisfied the containment and touch rules.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			req, err := detectRequest(cmd, app, args[0])
			if err != nil {
				return err
			}

			svc, _, err := app.Service()
			if err != nil {
				return err
			}
			report, err := svc.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(report)
			}
			printReport(output, report)
			return nil
		},
	}

	cmd.Flags().String("mode", "", "overlay mode: pivot or regression (default from config)")
	cmd.Flags().Int("window", 0, "pivot window (default from config)")
	cmd.Flags().Float64("epsilon", 0, "containment tolerance (default from config)")
	cmd.Flags().Float64("touch-tolerance", 0, "touch tolerance (default from config)")

	return cmd
}

// detectRequest builds a request from config values overridden by explicitly set flags.
func detectRequest(cmd *cobra.Command, app *App, source string) (overlay.Request, error) {
	modeName := app.Config.Engine.Mode
	if cmd.Flags().Changed("mode") {
		modeName, _ = cmd.Flags().GetString("mode")
	}
	mode, err := analysis.ParseMode(modeName)
	if err != nil {
		return overlay.Request{}, err
	}

	req := overlay.Request{Source: source, Mode: mode}
	params, changed := paramsFromFlags(cmd, app.Config.EngineParams())
	if changed {
		req.Params = &params
	}
	return req, nil
}

// windowFromFlags applies --window to params.
func windowFromFlags(cmd *cobra.Command, params trendline.Params) (trendline.Params, bool) {
	if !cmd.Flags().Changed("window") {
		return params, false
	}
	params.Window, _ = cmd.Flags().GetInt("window")
	return params, true
}

func paramsFromFlags(cmd *cobra.Command, params trendline.Params) (trendline.Params, bool) {
	params, changed := windowFromFlags(cmd, params)
	if cmd.Flags().Changed("epsilon") {
		params.Epsilon, _ = cmd.Flags().GetFloat64("epsilon")
		changed = true
		if !cmd.Flags().Changed("touch-tolerance") {
			params.TouchTolerance = trendline.TouchToleranceFor(params.Epsilon)
		}
	}
	if cmd.Flags().Changed("touch-tolerance") {
		params.TouchTolerance, _ = cmd.Flags().GetFloat64("touch-tolerance")
		changed = true
	}
	return params, changed
}

func printReport(output *Output, report *overlay.Report) {
	output.Bold("Trend Line - %s", report.Source)
	output.Printf("  Mode:     %s (%s)\n", report.Mode, report.Strategy)
	output.Printf("  Candles:  %s\n", FormatCount(report.Candles))

	if res := report.Result; res != nil {
		output.Printf("  Pivots:   %d highs, %d lows\n", len(res.PivotHighs), len(res.PivotLows))
		if res.Selected != nil {
			line := res.Selected
			output.Printf("  Line:     %s\n", lineLabel(output, line))
			output.Printf("  Anchor A: #%d %s @ %s\n", line.PivotA.Index, FormatTime(line.PivotA.Time), FormatPrice(line.PivotA.Price))
			output.Printf("  Anchor B: #%d %s @ %s\n", line.PivotB.Index, FormatTime(line.PivotB.Time), FormatPrice(line.PivotB.Price))
			output.Printf("  Slope:    %s per candle\n", FormatSlope(line.Slope))
			output.Printf("  Touches:  %d\n", line.Touches)
		}
	}
	if line := report.Regression; line != nil {
		output.Printf("  Slope:    %s per candle\n", FormatSlope(line.Slope))
		output.Printf("  Intercept: %s\n", FormatPrice(line.Intercept))
	}
	output.Dim("  Computed in %s", FormatDuration(report.Duration))
	output.Println()

	if !report.Found() {
		output.Warning("No trend line found")
		return
	}

	table := NewTable(output, "X", "TIME", "PRICE")
	for _, p := range report.Points {
		table.AddRow(strconv.FormatInt(p.X, 10), FormatTime(p.X), FormatPrice(p.Y))
	}
	table.Render()
}

func lineLabel(output *Output, line *trendline.Candidate) string {
	if line.Type == models.LineSupport {
		return output.Green(string(line.Type))
	}
	return output.Red(string(line.Type))
}
