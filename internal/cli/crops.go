package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/farmbook/internal/farm"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func (a *app) cropsCmd() *cobra.Command {
	return entityCmd(a, entityDef[types.Crop]{
		use:      "crops",
		singular: "crop",
		plural:   "crops",
		service:  func(s *farm.Services) entityService[types.Crop] { return s.Crops },
		bind: func(fs *pflag.FlagSet, c *types.Crop) {
			fs.StringVar(&c.Name, "name", "", "crop name")
			fs.StringVar(&c.Variety, "variety", "", "variety")
			fs.StringVar(&c.PlantingDate, "planting-date", "", "planting date (YYYY-MM-DD)")
			fs.StringVar(&c.ExpectedHarvest, "expected-harvest", "", "expected harvest date (YYYY-MM-DD)")
			fs.StringVar(&c.FieldLocation, "field", "", "field location")
			fs.Float64Var(&c.Quantity, "quantity", 0, "planted area in acres")
			fs.StringVar(&c.Status, "status", types.CropStatusPlanted, "status ("+strings.Join(types.CropStatuses, ", ")+")")
			fs.StringVar(&c.Notes, "notes", "", "notes")
			fs.Int64Var(&c.FarmID, "farm-id", 0, "farm the crop belongs to (0 for none)")
		},
		id:      func(c *types.Crop) int64 { return c.ID },
		columns: []string{"ID", "NAME", "VARIETY", "STATUS", "FIELD", "HARVEST"},
		row: func(c types.Crop) []string {
			return []string{
				strconv.FormatInt(c.ID, 10),
				truncate(c.Name, 30),
				truncate(c.Variety, 20),
				c.Status,
				truncate(c.FieldLocation, 20),
				orDash(c.ExpectedHarvest),
			}
		},
		labels: []string{"ID", "Name", "Variety", "Status", "Planted", "Expected harvest", "Field", "Quantity (acres)", "Farm", "Notes"},
		detail: func(c types.Crop) []string {
			return []string{
				strconv.FormatInt(c.ID, 10),
				c.Name,
				c.Variety,
				c.Status,
				orDash(c.PlantingDate),
				orDash(c.ExpectedHarvest),
				c.FieldLocation,
				formatFloat(c.Quantity),
				formatRef(c.FarmID),
				orDash(c.Notes),
			}
		},
		listFlags: func(fs *pflag.FlagSet) func([]types.Crop, time.Time) ([]types.Crop, error) {
			var f farm.CropFilter
			fs.StringVar(&f.Search, "search", "", "match name, variety or field")
			fs.StringVar(&f.Status, "status", farm.FilterAll, "only crops with this status")
			return func(crops []types.Crop, _ time.Time) ([]types.Crop, error) {
				if err := oneOf("status", f.Status, append([]string{farm.FilterAll}, types.CropStatuses...)...); err != nil {
					return nil, err
				}
				return farm.FilterCrops(crops, f), nil
			}
		},
		listFooter: func(a *app, cmd *cobra.Command, crops []types.Crop) {
			counts := farm.CountCropsByStatus(crops)
			parts := make([]string, len(types.CropStatuses))
			for i, s := range types.CropStatuses {
				parts[i] = fmt.Sprintf("%s %d", s, counts[s])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "By status: %s\n", strings.Join(parts, ", "))
		},
	})
}
