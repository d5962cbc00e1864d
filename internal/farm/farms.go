package farm

import (
	"github.com/mesh-intelligence/farmbook/internal/gateway"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// FarmFields maps farms_c.
var FarmFields = gateway.FieldMap[types.Farm]{
	gateway.String("name_c", "name", func(f *types.Farm) *string { return &f.Name }),
	gateway.String("location_c", "location", func(f *types.Farm) *string { return &f.Location }),
	gateway.String("description_c", "description", func(f *types.Farm) *string { return &f.Description }),
	gateway.String("type_c", "type", func(f *types.Farm) *string { return &f.Type }),
	gateway.Float("size_c", "size", func(f *types.Farm) *float64 { return &f.Size }),
}

// FarmService manages farms.
type FarmService struct {
	crud[types.Farm]
}

// NewFarmService creates a farm service over store.
func NewFarmService(store types.RecordStore, opts ...Option) *FarmService {
	o := buildOptions(opts)
	return &FarmService{crud[types.Farm]{
		gw: gateway.New(store, gateway.Config[types.Farm]{
			Table:  types.TableFarms,
			Entity: "farm",
			Fields: FarmFields,
			ID:     func(f *types.Farm) *int64 { return &f.ID },
		}, o.log),
		validate: (*types.Farm).Validate,
	}}
}
