package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/farmbook/internal/paths"
	"github.com/mesh-intelligence/farmbook/internal/sqlite"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func (a *app) initCmd() *cobra.Command {
	var global bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize farmbook storage",
		Long: `Create the configuration directory and config.yaml, then initialize the
storage backend. With --global the platform data directory is recorded in
config.yaml as data_dir.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, v, err := a.config()
			if err != nil {
				return err
			}

			if global && a.flags.dataDir == "" {
				dir, err := paths.DefaultDataDir()
				if err != nil {
					return fmt.Errorf("resolve data dir: %w", err)
				}
				if err := setConfigValue(paths.ConfigFile(configDir), cfgKeyDataDir, dir); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				if configDir, v, err = a.config(); err != nil {
					return err
				}
			}

			cfg, err := a.storeConfig(v)
			if err != nil {
				return err
			}

			if cfg.Backend == types.BackendSQLite {
				backend := sqlite.NewBackend()
				if err := backend.Attach(cfg); err != nil {
					return fmt.Errorf("initialize storage: %w", err)
				}
				if err := backend.Detach(); err != nil {
					return fmt.Errorf("finalize storage: %w", err)
				}
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"config_dir": configDir,
					"data_dir":   cfg.DataDir,
					"backend":    cfg.Backend,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "farmbook initialized successfully")
			printDetail(cmd.OutOrStdout(),
				[]string{"Config", "Backend", "Data"},
				[]string{paths.ConfigFile(configDir), cfg.Backend, orDash(cfg.DataDir)})
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "store data in the platform data directory")
	return cmd
}
