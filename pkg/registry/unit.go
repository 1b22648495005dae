package registry

// Unit is the physical unit of a metric. It renders as a lowercase
// literal on the # UNIT line and as a _<unit> suffix on the metric
// name. The zero value means the metric has no unit.
//
// Units outside the predefined set convert directly, for example
// Unit("requests").
type Unit string

// Units named by the OpenMetrics specification.
const (
	UnitAmperes Unit = "amperes"
	UnitBytes   Unit = "bytes"
	UnitCelsius Unit = "celsius"
	UnitGrams   Unit = "grams"
	UnitJoules  Unit = "joules"
	UnitMeters  Unit = "meters"
	UnitRatios  Unit = "ratios"
	UnitSeconds Unit = "seconds"
	UnitVolts   Unit = "volts"
)
