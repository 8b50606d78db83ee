package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ifcqto/pkg/material"
)

// layersCommand creates the layers command, which apportions a free-text
// layer description such as "Concrete (200mm) | Insulation (100mm)".
func (c *CLI) layersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layers <text>",
		Short: "Apportion a free-text layer description",
		Long: `Apportion a free-text layer description.

Segments are separated by "|". A segment may carry a thickness in
millimetres in parentheses; each share is its thickness over the total.
When no segment has a thickness, the segments share equally.`,
		Example: `  ifcqto layers "Concrete (200mm) | Insulation (100mm)"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vols := material.ParseLayersString(strings.Join(args, " "))
			if vols.Len() == 0 {
				printWarning("No layers found")
				return nil
			}
			t := newTable([]string{"Material", "Share", "Volume", "Width (mm)"}, 1, 2, 3).Rows(materialRows(vols)...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
