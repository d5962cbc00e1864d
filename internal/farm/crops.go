package farm

import (
	"github.com/mesh-intelligence/farmbook/internal/gateway"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// CropFields maps crop_c.
var CropFields = gateway.FieldMap[types.Crop]{
	gateway.String("name_c", "name", func(c *types.Crop) *string { return &c.Name }),
	gateway.String("variety_c", "variety", func(c *types.Crop) *string { return &c.Variety }),
	gateway.Date("planting_date_c", "plantingDate", func(c *types.Crop) *string { return &c.PlantingDate }),
	gateway.Date("expected_harvest_c", "expectedHarvest", func(c *types.Crop) *string { return &c.ExpectedHarvest }),
	gateway.String("field_location_c", "fieldLocation", func(c *types.Crop) *string { return &c.FieldLocation }),
	gateway.Float("quantity_c", "quantity", func(c *types.Crop) *float64 { return &c.Quantity }),
	gateway.String("status_c", "status", func(c *types.Crop) *string { return &c.Status }),
	gateway.String("notes_c", "notes", func(c *types.Crop) *string { return &c.Notes }),
	gateway.Ref("farm_id_c", "farmId", func(c *types.Crop) *int64 { return &c.FarmID }),
}

// CropService manages crops.
type CropService struct {
	crud[types.Crop]
}

// NewCropService creates a crop service over store.
func NewCropService(store types.RecordStore, opts ...Option) *CropService {
	o := buildOptions(opts)
	return &CropService{crud[types.Crop]{
		gw: gateway.New(store, gateway.Config[types.Crop]{
			Table:  types.TableCrops,
			Entity: "crop",
			Fields: CropFields,
			ID:     func(c *types.Crop) *int64 { return &c.ID },
		}, o.log),
		validate: (*types.Crop).Validate,
	}}
}
