package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diskmosaic/diskmosaic/pkg/portfolio"
	"github.com/diskmosaic/diskmosaic/pkg/weights"
)

// weightsCommand creates the weights command for inspecting resolved weights.
func (c *CLI) weightsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "weights [holdings.json|holdings.toml]",
		Short: "Show resolved item weights",
		Long: `Show resolved item weights.

Each item's weight is its valuation. Items without one fall back to the
median priced weight of their group, or a fixed default when no sibling
carries a valuation. Fallback weights are marked in the output.

The printed weights are exactly the values the layout engines use to
size cells and circles.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWeights(args[0])
		},
	}
}

// runWeights loads holdings and prints the resolved weight table.
func (c *CLI) runWeights(path string) error {
	prog := newProgress(c.Logger)

	h, err := portfolio.Load(path)
	if err != nil {
		return fmt.Errorf("load holdings %s: %w", path, err)
	}

	var total float64
	resolvedCount := 0
	for _, g := range h.Groups {
		fmt.Println(StyleTitle.Render(g.ID))

		resolved := weights.Resolve(g.Weighted())
		var groupTotal float64
		for _, item := range resolved {
			groupTotal += item.Weight
			resolvedCount++

			line := fmt.Sprintf("  %-16s %14.2f", item.ItemID, item.Weight)
			if item.Priced() {
				fmt.Println(StyleValue.Render(line))
			} else {
				fmt.Println(StyleDim.Render(line + "  (fallback)"))
			}
		}
		printDetail("group total: %.2f", groupTotal)
		printNewline()
		total += groupTotal
	}

	if resolvedCount == 0 {
		printInfo("No items to weigh")
		return nil
	}

	printKeyValue("total", StyleNumber.Render(fmt.Sprintf("%.2f", total)))
	prog.done(fmt.Sprintf("Resolved %d weights", resolvedCount))
	return nil
}
