package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
	"github.com/murraystephenson/TravelMap/pkg/filter"
	"github.com/spf13/cobra"
)

// printLayers writes the state of every entity as "+ key" (attached) or
// "- key" (detached), in catalog order.
func printLayers(w io.Writer, c *catalog.Catalog, layers *filter.LayerSet, visibleOnly bool) {
	for _, e := range c.Entities() {
		if layers.Has(e.Visual) {
			fmt.Fprintf(w, "+ %s\n", e.Key())
		} else if !visibleOnly {
			fmt.Fprintf(w, "- %s\n", e.Key())
		}
	}
}

var filterCmd = &cobra.Command{
	Use:   "filter [year|All]...",
	Short: "Show which towns and countries are visible, one selection after another",
	RunE: func(cmd *cobra.Command, args []string) error {
		visibleOnly, _ := cmd.Flags().GetBool("visible-only")

		c, _, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		c.BindAll(func(e *catalog.Entity) catalog.Handle { return e.Key() })

		if len(args) == 0 {
			args = []string{string(filter.All)}
		}
		layers := filter.NewLayerSet()
		ctl := filter.NewController(c, layers)
		for i, token := range args {
			sel := ctl.Select(token)
			if len(args) > 1 {
				if i > 0 {
					fmt.Println()
				}
				fmt.Printf("# %s\n", sel)
			}
			printLayers(os.Stdout, c, layers, visibleOnly)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().BoolP("visible-only", "v", false, "Only print visible entities")
}
