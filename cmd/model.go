package main

import (
	"fmt"

	"linksum/internal/modelconfig"

	"github.com/spf13/cobra"
)

func newModelCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Show or change the default language model",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the default model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.defaultModel(cmd.Context()))

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <id>",
		Short: "Persist a new default model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := modelconfig.Config{Model: args[0]}

			if err := modelconfig.Save(a.cfg.ModelConfigPath, cfg); err != nil {
				return fmt.Errorf("save model config: %w", err)
			}

			a.log.InfoContext(cmd.Context(), "Default model is changed",
				"model", cfg.Model,
				"path", a.cfg.ModelConfigPath)

			fmt.Fprintf(cmd.OutOrStdout(), "Default model is set to %s\n", cfg.Model)

			return nil
		},
	})

	return cmd
}
