package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"trendline-overlay/internal/analysis/trendline"
	"trendline-overlay/internal/models"
)

type pivotsResult struct {
	Source  string              `json:"source"`
	Window  int                 `json:"window"`
	Candles int                 `json:"candles"`
	Highs   []models.PivotPoint `json:"highs"`
	Lows    []models.PivotPoint `json:"lows"`
}

func newPivotsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pivots <file>",
		Short: "List the pivot highs and lows of a candle series",
		Long: `List the pivot highs and lows of a candle series.

A pivot high is a candle whose high is strictly greater than every other high
within window candles on either side. Ties disqualify both candles.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			params, _ := windowFromFlags(cmd, app.Config.EngineParams())
			if err := params.Validate(); err != nil {
				return err
			}

			_, loader, err := app.Service()
			if err != nil {
				return err
			}
			candles, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			highs, lows := trendline.DetectPivots(candles, params.Window)
			result := pivotsResult{
				Source:  args[0],
				Window:  params.Window,
				Candles: len(candles),
				Highs:   nonNil(highs),
				Lows:    nonNil(lows),
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			printPivots(output, result)
			return nil
		},
	}

	cmd.Flags().Int("window", 0, "pivot window (default from config)")

	return cmd
}

func nonNil(pivots []models.PivotPoint) []models.PivotPoint {
	if pivots == nil {
		return []models.PivotPoint{}
	}
	return pivots
}

func printPivots(output *Output, result pivotsResult) {
	output.Bold("Pivots - %s", result.Source)
	output.Printf("  Candles: %s  Window: %d\n", FormatCount(result.Candles), result.Window)
	output.Println()

	if len(result.Highs)+len(result.Lows) == 0 {
		output.Warning("No pivots found")
		return
	}

	table := NewTable(output, "KIND", "INDEX", "TIME", "PRICE")
	for _, p := range mergeByIndex(result.Highs, result.Lows) {
		table.AddRow(string(p.Kind), strconv.Itoa(p.Index), FormatTime(p.Time), FormatPrice(p.Price))
	}
	table.Render()
}

// mergeByIndex interleaves two index-ordered pivot lists.
func mergeByIndex(a, b []models.PivotPoint) []models.PivotPoint {
	out := make([]models.PivotPoint, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Index <= b[j].Index {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
