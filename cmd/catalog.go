package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Load every source and print the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		kind, _ := cmd.Flags().GetString("kind")
		showReport, _ := cmd.Flags().GetBool("report")

		c, res, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		var entities []*catalog.Entity
		switch strings.ToLower(kind) {
		case "", "all":
			entities = c.Entities()
		case "point", "points":
			entities = c.Points()
		case "region", "regions":
			entities = c.Regions()
		default:
			return fmt.Errorf("unknown kind %q (use point, region or all)", kind)
		}

		if err := printEntities(entities, output); err != nil {
			return err
		}
		if showReport {
			for _, issue := range res.Report.Issues {
				fmt.Fprintln(os.Stderr, issue.Error())
			}
		}
		return nil
	},
}

func printEntities(entities []*catalog.Entity, output string) error {
	switch strings.ToLower(output) {
	case "json":
		type row struct {
			Key     string          `json:"key"`
			ID      string          `json:"id"`
			Kind    catalog.Kind    `json:"kind"`
			Country string          `json:"country,omitempty"`
			Lat     float64         `json:"lat,omitempty"`
			Lng     float64         `json:"lng,omitempty"`
			Years   catalog.YearSet `json:"years"`
		}
		rows := make([]row, 0, len(entities))
		for _, e := range entities {
			rows = append(rows, row{e.Key(), e.ID, e.Kind, e.Country, e.Lat, e.Lng, e.Years})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "geojson":
		for _, e := range entities {
			body, err := e.Feature().MarshalJSON()
			if err != nil {
				return err
			}
			fmt.Println(string(body))
		}
		return nil
	case "text", "":
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAME\tCOUNTRY\tYEARS\t")
		for _, e := range entities {
			years := e.Years.String()
			if years == "" {
				years = "never"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", e.Kind, e.ID, e.Country, years)
		}
		return w.Flush()
	}
	return fmt.Errorf("unknown output %q (use text, json or geojson)", output)
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringP("output", "o", "text", "Output format: text, json, geojson")
	catalogCmd.Flags().StringP("kind", "k", "all", "Entities to print: point, region, all")
	catalogCmd.Flags().Bool("report", false, "Print data-quality issues to stderr")
}
