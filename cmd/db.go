package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/tabwriter"

	"github.com/murraystephenson/TravelMap/internal/utils"
	"github.com/murraystephenson/TravelMap/pkg/catalog"
	"github.com/murraystephenson/TravelMap/pkg/sources"
	"github.com/murraystephenson/TravelMap/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the visits database",
}

func resolveDBPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("dbpath")
	if path == "" {
		path = viper.GetString("db.path")
	}
	return utils.GetAbsDBPath(path)
}

func openExistingDB(cmd *cobra.Command) (*storage.DB, string, error) {
	path, err := resolveDBPath(cmd)
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, path, fmt.Errorf("database file not found: %s", path)
	}
	db, err := storage.Open(path)
	return db, path, err
}

// importCmd snapshots the configured place sources into the database, one
// source at a time, so each keeps its own run history.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the configured place sources into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		client, err := httpClient(cmd)
		if err != nil {
			return err
		}
		cfgs, err := sourceConfigs("sources.places", "places")
		if err != nil {
			return err
		}
		b, err := configuredBuilder()
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		lock, err := utils.NewDBLock(path)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		for _, cfg := range cfgs {
			src, err := sources.New(cfg, sources.Options{Client: client})
			if err != nil {
				return err
			}
			if _, ok := src.(*sources.DBSource); ok {
				continue
			}
			c, res := sources.BuildCatalog(ctx, []sources.Source{src}, b, utils.Log)
			if res.Report.Count(catalog.DataSourceUnavailable) > 0 {
				utils.Log.Warnf("Skipping %s: source unavailable", src.Name())
				continue
			}
			changes, err := db.UpsertPlaces(ctx, src.Name(), storage.PlacesFromCatalog(src.Name(), c))
			if err != nil {
				return fmt.Errorf("import %s: %w", src.Name(), err)
			}
			utils.Log.Infof("Imported %s: %d places, %d changes", src.Name(), len(c.Points()), len(changes))
		}
		return nil
	},
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", dbPath)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		fmt.Println("--> Database schema:")
		schemaCmd := exec.Command(sqlitePath, dbPath, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, dbPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints statistics about the places in the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "SOURCE\tPLACES\tCOUNTRIES\tFIRST\tLAST\t")

		var totalPlaces int
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t\n", s.Source, s.PlaceCount, s.Countries, s.FirstYear, s.LastYear)
			totalPlaces += s.PlaceCount
		}

		fmt.Fprintln(w, " \t \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t \t \t \t\n", totalPlaces)

		return w.Flush()
	},
}

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent place changes (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		db, _, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()
		changes, err := db.ListRecentChanges(context.Background(), limit)
		if err != nil {
			return err
		}
		for _, c := range changes {
			ts := c.OccurredAt.Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %-7s  %s  %s, %s\n", ts, c.ChangeType, c.Source, c.City, c.Country)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(importCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.AddCommand(statsCmd)
	dbCmd.AddCommand(changesCmd)
	dbCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default: db.path or ~/.config/travelmap/travelmap.sqlite)")
	changesCmd.Flags().Int("limit", 50, "Number of recent changes to show")
}
