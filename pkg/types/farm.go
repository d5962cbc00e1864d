package types

import "strings"

// Farm types.
const (
	FarmTypeCrop      = "crop"
	FarmTypeDairy     = "dairy"
	FarmTypeLivestock = "livestock"
	FarmTypeMixed     = "mixed"
	FarmTypeOrganic   = "organic"
	FarmTypePoultry   = "poultry"
	FarmTypeFruit     = "fruit"
	FarmTypeVegetable = "vegetable"
)

// FarmTypes lists the farm classifications in display order.
var FarmTypes = []string{
	FarmTypeCrop,
	FarmTypeDairy,
	FarmTypeLivestock,
	FarmTypeMixed,
	FarmTypeOrganic,
	FarmTypePoultry,
	FarmTypeFruit,
	FarmTypeVegetable,
}

// Farm is a property under management.
type Farm struct {
	ID          int64   `json:"id" yaml:"id,omitempty"`
	Name        string  `json:"name" yaml:"name"`
	Location    string  `json:"location" yaml:"location"`
	Description string  `json:"description" yaml:"description"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Size        float64 `json:"size,omitempty" yaml:"size,omitempty"` // acres
}

// Validate checks the fields a farm must carry before it is submitted.
func (f *Farm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return Validationf("Farm name is required")
	}
	if f.Type != "" && !contains(FarmTypes, f.Type) {
		return Validationf("Invalid farm type %q", f.Type)
	}
	if f.Size < 0 {
		return Validationf("Farm size cannot be negative")
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
