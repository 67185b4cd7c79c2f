package cmd

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/murraystephenson/TravelMap/internal/utils"
	"github.com/murraystephenson/TravelMap/pkg/catalog"
	"github.com/murraystephenson/TravelMap/pkg/sources"
	"github.com/murraystephenson/TravelMap/pkg/whttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func httpClient(cmd *cobra.Command) (*retryablehttp.Client, error) {
	proxy, _ := cmd.Flags().GetString("proxy")
	return whttp.NewClient(viper.GetInt("http.retries"), proxy)
}

func sourceConfigs(key, records string) ([]sources.Config, error) {
	var cfgs []sources.Config
	if err := viper.UnmarshalKey(key, &cfgs); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	for i := range cfgs {
		if cfgs[i].Records == "" {
			cfgs[i].Records = records
		}
	}
	return cfgs, nil
}

// configuredSources builds the place sources followed by the region sources.
func configuredSources(cmd *cobra.Command) ([]sources.Source, error) {
	client, err := httpClient(cmd)
	if err != nil {
		return nil, err
	}
	places, err := sourceConfigs("sources.places", "places")
	if err != nil {
		return nil, err
	}
	regions, err := sourceConfigs("sources.regions", "regions")
	if err != nil {
		return nil, err
	}
	dbPath, err := utils.GetAbsDBPath(viper.GetString("db.path"))
	if err != nil {
		return nil, err
	}
	return sources.NewAll(append(places, regions...), sources.Options{Client: client, DBPath: dbPath})
}

func configuredBuilder() (*catalog.Builder, error) {
	mode, err := catalog.ParseMatchMode(viper.GetString("match"))
	if err != nil {
		return nil, err
	}
	return &catalog.Builder{Mode: mode}, nil
}

// loadCatalog loads every configured source and builds the catalog.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, *sources.Result, error) {
	srcs, err := configuredSources(cmd)
	if err != nil {
		return nil, nil, err
	}
	b, err := configuredBuilder()
	if err != nil {
		return nil, nil, err
	}
	c, res := sources.BuildCatalog(context.Background(), srcs, b, utils.Log)
	return c, res, nil
}
