package types

// Weather conditions.
const (
	ConditionSunny  = "sunny"
	ConditionCloudy = "cloudy"
	ConditionRainy  = "rainy"
	ConditionStormy = "stormy"
	ConditionSnowy  = "snowy"
	ConditionFoggy  = "foggy"
	ConditionWindy  = "windy"
)

// Conditions lists the recognized weather conditions.
var Conditions = []string{
	ConditionSunny,
	ConditionCloudy,
	ConditionRainy,
	ConditionStormy,
	ConditionSnowy,
	ConditionFoggy,
	ConditionWindy,
}

// Temperature is a daily range.
type Temperature struct {
	High float64 `json:"high" yaml:"high"`
	Low  float64 `json:"low" yaml:"low"`
}

// Weather is one day of externally sourced forecast data. It is read-only
// to the application.
type Weather struct {
	Date          string      `json:"date" yaml:"date"`
	Temperature   Temperature `json:"temperature" yaml:"temperature"`
	Condition     string      `json:"condition" yaml:"condition"`
	Humidity      float64     `json:"humidity" yaml:"humidity"`           // percent
	Precipitation float64     `json:"precipitation" yaml:"precipitation"` // percent chance
}
