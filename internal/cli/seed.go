package cli

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/farmbook/internal/farm"
)

//go:embed sample.yaml
var sampleFixtures []byte

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [fixtures.yaml]",
		Short: "Load fixture records into the store",
		Long: `Seed loads farms, crops, tasks, financial records and weather from a YAML
fixture file. Without a file, a built-in sample data set is loaded.

Fixture ids on farms and crops only link records inside the file; the
store assigns the real ids.`,
		Args: userArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = bytes.NewReader(sampleFixtures)
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return usagef("open fixtures: %s", err)
				}
				defer f.Close()
				src = f
			}
			fx, err := farm.LoadFixtures(src)
			if err != nil {
				return usageError{err}
			}

			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				res, err := farm.Seed(ctx, s.store, s.svc, fx)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d farms, %d crops, %d tasks, %d financial records, %d weather days\n",
					res.Farms, res.Crops, res.Tasks, res.Financials, res.Weather)
				return nil
			})
		},
	}
}
