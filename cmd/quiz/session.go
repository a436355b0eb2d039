package main

import (
	"errors"
	"fmt"

	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the saved unfinished session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved session snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		store, release, err := openStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer release()

		raw, err := store.Load(cmd.Context())
		if errors.Is(err, playerrors.ErrNoSnapshot) {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved session")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		store, release, err := openStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer release()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved session cleared")
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd, sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}
