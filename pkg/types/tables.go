package types

// Store table names.
const (
	TableFarms      = "farms_c"
	TableCrops      = "crop_c"
	TableTasks      = "task_c"
	TableFinancials = "financial_c"
	TableWeather    = "weather_c"
)

// StandardTableNames lists all store tables for enumeration.
var StandardTableNames = []string{
	TableFarms,
	TableCrops,
	TableTasks,
	TableFinancials,
	TableWeather,
}
