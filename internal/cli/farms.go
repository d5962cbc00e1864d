package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/farmbook/internal/farm"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func (a *app) farmsCmd() *cobra.Command {
	return entityCmd(a, entityDef[types.Farm]{
		use:      "farms",
		singular: "farm",
		plural:   "farms",
		service:  func(s *farm.Services) entityService[types.Farm] { return s.Farms },
		bind: func(fs *pflag.FlagSet, f *types.Farm) {
			fs.StringVar(&f.Name, "name", "", "farm name")
			fs.StringVar(&f.Location, "location", "", "address or region")
			fs.StringVar(&f.Description, "description", "", "free-form description")
			fs.StringVar(&f.Type, "type", "", "farm type ("+strings.Join(types.FarmTypes, ", ")+")")
			fs.Float64Var(&f.Size, "size", 0, "size in acres")
		},
		id:      func(f *types.Farm) int64 { return f.ID },
		columns: []string{"ID", "NAME", "TYPE", "LOCATION", "SIZE"},
		row: func(f types.Farm) []string {
			return []string{
				strconv.FormatInt(f.ID, 10),
				truncate(f.Name, 40),
				orDash(f.Type),
				truncate(orDash(f.Location), 30),
				formatFloat(f.Size),
			}
		},
		labels: []string{"ID", "Name", "Type", "Location", "Size (acres)", "Description"},
		detail: func(f types.Farm) []string {
			return []string{
				strconv.FormatInt(f.ID, 10),
				f.Name,
				orDash(f.Type),
				orDash(f.Location),
				formatFloat(f.Size),
				orDash(f.Description),
			}
		},
		listFlags: func(fs *pflag.FlagSet) func([]types.Farm, time.Time) ([]types.Farm, error) {
			var search string
			fs.StringVar(&search, "search", "", "match name or location")
			return func(farms []types.Farm, _ time.Time) ([]types.Farm, error) {
				return farm.FilterFarms(farms, search), nil
			}
		},
	})
}
