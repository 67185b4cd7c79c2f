package cmd

import (
	"context"
	"fmt"

	"github.com/murraystephenson/TravelMap/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the travel map web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srcs, err := configuredSources(cmd)
		if err != nil {
			return err
		}
		b, err := configuredBuilder()
		if err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("bind")
		if !cmd.Flags().Changed("bind") {
			addr = viper.GetString("server.bind")
		}

		srv := server.New(srcs, b, viper.GetString("server.username"), viper.GetString("server.password"))
		var center []float64
		if err := viper.UnmarshalKey("map.center", &center); err != nil || len(center) != 2 {
			return fmt.Errorf("map.center must be [lat, lng], got %v", center)
		}
		srv.Map = server.MapOptions{
			Center: [2]float64{center[0], center[1]},
			Zoom:   viper.GetInt("map.zoom"),
			Tiles:  viper.GetString("map.tiles"),
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		srv.Reload(ctx)
		go srv.ReloadEvery(ctx, viper.GetDuration("server.reload"))

		return srv.Start(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("bind", "b", ":9999", "Address to bind the server to (overrides server.bind)")
}
