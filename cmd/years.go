package cmd

import (
	"fmt"

	"github.com/murraystephenson/TravelMap/pkg/filter"
	"github.com/spf13/cobra"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Print the year dropdown options",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		for _, o := range filter.YearOptions(c) {
			fmt.Println(o)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}
