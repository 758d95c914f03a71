package cli

import (
	"github.com/spf13/cobra"

	"datepick/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change defaults in config.json",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := s.LoadConfig(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"dir":     s.Dir,
				"config":  cfg,
				"pattern": cfg.PatternOrDefault(),
				"keys":    store.ConfigKeys,
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a config key (an empty value clears it)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: store.ConfigKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := s.LoadConfig(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if args[0] == "pattern" && args[1] != "" {
				if err := checkPattern(cmd, args[1], false); err != nil {
					return err
				}
			}
			if err := s.SaveConfig(cmd.Context(), cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"config": cfg})
		},
	})

	return cmd
}
