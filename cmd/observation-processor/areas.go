package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"observation-processor/internal/model"
)

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "Spatial enrichment utilities",
}

var buildCacheCmd = &cobra.Command{
	Use:   "build-cache",
	Short: "Load the area index and write the position cache file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		engine, err := a.createEngine(cmd.Context())
		if err != nil {
			return err
		}
		if err := engine.PersistCache(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "areas: %d features, %d cached positions\n", engine.Index().Len(), engine.Cache().Len())
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve one coordinate to its areas and print the enriched location",
	RunE: func(cmd *cobra.Command, args []string) error {
		lon, _ := cmd.Flags().GetFloat64("lon")
		lat, _ := cmd.Flags().GetFloat64("lat")
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		engine, err := a.createEngine(cmd.Context())
		if err != nil {
			return err
		}
		obs := &model.ProcessedObservation{Location: &model.Location{DecimalLongitude: &lon, DecimalLatitude: &lat}}
		engine.Enrich(obs)
		engine.AttachDisplayValues(obs)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(obs.Location)
	},
}

func init() {
	resolveCmd.Flags().Float64("lon", 0, "decimal longitude (WGS84)")
	resolveCmd.Flags().Float64("lat", 0, "decimal latitude (WGS84)")
	_ = resolveCmd.MarkFlagRequired("lon")
	_ = resolveCmd.MarkFlagRequired("lat")

	areasCmd.AddCommand(buildCacheCmd, resolveCmd)
	rootCmd.AddCommand(areasCmd)
}
