package types

import "strings"

// Crop statuses. Any status may follow any other; the value changes only
// through a full-record update.
const (
	CropStatusPlanted   = "planted"
	CropStatusGrowing   = "growing"
	CropStatusReady     = "ready"
	CropStatusHarvested = "harvested"
)

// CropStatuses lists the statuses in lifecycle order.
var CropStatuses = []string{
	CropStatusPlanted,
	CropStatusGrowing,
	CropStatusReady,
	CropStatusHarvested,
}

// Crop is a planting on a field.
type Crop struct {
	ID              int64   `json:"id" yaml:"id,omitempty"`
	Name            string  `json:"name" yaml:"name"`
	Variety         string  `json:"variety" yaml:"variety"`
	PlantingDate    string  `json:"plantingDate" yaml:"plantingDate"`
	ExpectedHarvest string  `json:"expectedHarvest" yaml:"expectedHarvest"`
	FieldLocation   string  `json:"fieldLocation" yaml:"fieldLocation"`
	Quantity        float64 `json:"quantity" yaml:"quantity"` // acres
	Status          string  `json:"status" yaml:"status"`
	Notes           string  `json:"notes" yaml:"notes"`
	FarmID          int64   `json:"farmId,omitempty" yaml:"farmId,omitempty"` // soft reference, 0 for none
}

// Validate checks the fields a crop must carry before it is submitted.
func (c *Crop) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return Validationf("Crop name is required")
	case strings.TrimSpace(c.Variety) == "":
		return Validationf("Crop variety is required")
	case c.PlantingDate == "":
		return Validationf("Planting date is required")
	case c.ExpectedHarvest == "":
		return Validationf("Expected harvest date is required")
	case strings.TrimSpace(c.FieldLocation) == "":
		return Validationf("Field location is required")
	case c.Quantity < 0:
		return Validationf("Quantity cannot be negative")
	case !contains(CropStatuses, c.Status):
		return Validationf("Invalid crop status %q", c.Status)
	}
	return nil
}
