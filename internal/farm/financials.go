package farm

import (
	"context"
	"time"

	"github.com/mesh-intelligence/farmbook/internal/gateway"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// FinancialFields maps financial_c.
var FinancialFields = gateway.FieldMap[types.Financial]{
	gateway.String("type_c", "type", func(f *types.Financial) *string { return &f.Type }),
	gateway.String("category_c", "category", func(f *types.Financial) *string { return &f.Category }),
	gateway.Float("amount_c", "amount", func(f *types.Financial) *float64 { return &f.Amount }),
	gateway.String("description_c", "description", func(f *types.Financial) *string { return &f.Description }),
	gateway.Date("date_c", "date", func(f *types.Financial) *string { return &f.Date }),
	gateway.Ref("crop_id_c", "cropId", func(f *types.Financial) *int64 { return &f.CropID }),
}

// FinancialService manages income and expense records.
type FinancialService struct {
	crud[types.Financial]
	clock func() time.Time
}

// NewFinancialService creates a financial service over store.
func NewFinancialService(store types.RecordStore, opts ...Option) *FinancialService {
	o := buildOptions(opts)
	return &FinancialService{
		crud: crud[types.Financial]{
			gw: gateway.New(store, gateway.Config[types.Financial]{
				Table:  types.TableFinancials,
				Entity: "financial record",
				Plural: "financial records",
				Fields: FinancialFields,
				ID:     func(f *types.Financial) *int64 { return &f.ID },
			}, o.log),
			validate: (*types.Financial).Validate,
		},
		clock: o.clock,
	}
}

// Create submits a new record. An empty date defaults to today in UTC.
func (s *FinancialService) Create(ctx context.Context, f *types.Financial) (*types.Financial, error) {
	in := *f
	if in.Date == "" {
		in.Date = types.Today(s.clock().UTC())
	}
	return s.crud.Create(ctx, &in)
}

// Categories returns the categories valid for recordType.
func (s *FinancialService) Categories(recordType string) []types.Category {
	return types.FinancialCategories(recordType)
}
