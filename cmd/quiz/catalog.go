package main

import (
	"fmt"
	"os"

	"github.com/jscyril/golang_music_quiz/api"
	"github.com/jscyril/golang_music_quiz/internal/catalog"
	"github.com/spf13/cobra"
)

var scanOut string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and build song catalogs",
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a catalog file, or the built-in catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tracks []*api.Track
		if len(args) == 1 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read catalog file: %w", err)
			}
			if tracks, err = catalog.Decode(data); err != nil {
				return err
			}
		} else {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			tracks = cat.All()
		}

		warnings, err := catalog.Validate(tracks)
		for _, w := range warnings {
			fmt.Fprintln(cmd.OutOrStdout(), "warning:", w)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d tracks OK\n", len(tracks))
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan <dir>...",
	Short: "Build a catalog from local audio files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := scanOut
		if out == "" {
			out = defaultCatalogOut(cfg)
		}

		cat := catalog.NewCatalog()
		for _, scanErr := range cat.Scan(cmd.Context(), args) {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", scanErr)
		}
		if err := cat.Save(out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Found %d tracks, saved to %s\n", cat.Len(), out)
		if err := cat.CheckSize(); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "warning:", err)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanOut, "out", "o", "", "output file (default catalog_path or data dir)")
	catalogCmd.AddCommand(validateCmd, scanCmd)
	rootCmd.AddCommand(catalogCmd)
}
