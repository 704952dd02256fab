package model

import "strings"

// UnitPrefix precedes the quantity and unit in unit identifiers.
const UnitPrefix = "org.bluetooth.unit."

// Unit is the unit of measurement of a field.
type Unit struct {
	// ID is the unit identifier ("org.bluetooth.unit.thermodynamic_temperature.degree_celsius").
	ID string

	// Quantity is the measured quantity ("thermodynamic temperature").
	Quantity string

	// Name is the unit name ("degree celsius"). Falls back to the quantity
	// when the unit is unknown, and to "" when neither is.
	Name string

	// Symbol is the unit symbol ("°C"), "" if unknown.
	Symbol string
}

// ParseUnit splits a unit identifier of the form
// org.bluetooth.unit.<quantity>.<unit> into its parts and resolves the
// symbol.
func ParseUnit(id string) Unit {
	id = strings.TrimSpace(id)
	u := Unit{ID: id}

	parts := strings.Split(strings.TrimPrefix(id, UnitPrefix), ".")
	u.Quantity = words(parts[0])

	if len(parts) > 1 {
		name := words(parts[1])
		if sym, ok := unitSymbols[name]; ok {
			u.Name, u.Symbol = name, sym
			return u
		}
	}
	if sym, ok := unitSymbols[u.Quantity]; ok {
		u.Name, u.Symbol = u.Quantity, sym
	}
	return u
}

// UnitSymbol returns the symbol for a unit name ("degree celsius").
func UnitSymbol(name string) (string, bool) {
	s, ok := unitSymbols[name]
	return s, ok
}

func words(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}

// unitSymbols maps unit names to symbols. Read-only after init.
var unitSymbols = map[string]string{
	"meter":                           "m",
	"kilogram":                        "kg",
	"second":                          "s",
	"ampere":                          "A",
	"kelvin":                          "K",
	"mole":                            "mol",
	"candela":                         "cd",
	"square meter":                    "m2",
	"cubic meter":                     "m3",
	"meter per second":                "m/s",
	"metres per second":               "m/s",
	"meter per second squared":        "m/s2",
	"reciprocal meter":                "m-1",
	"kilogram per cubic meter":        "kg/m3",
	"cubic meter per kilogram":        "m3/kg",
	"ampere per square meter":         "A/m2",
	"ampere per meter":                "A/m",
	"mole per cubic meter":            "mol/m3",
	"candela per square meter":        "cd/m2",
	"kilogram per kilogram":           "kg/kg",
	"radian":                          "rad",
	"steradian":                       "sr",
	"hertz":                           "Hz",
	"newton":                          "N",
	"pascal":                          "Pa",
	"joule":                           "J",
	"watt":                            "W",
	"coulomb":                         "C",
	"volt":                            "V",
	"farad":                           "F",
	"ohm":                             "Ω",
	"siemens":                         "S",
	"weber":                           "Wb",
	"tesla":                           "T",
	"henry":                           "H",
	"degree celsius":                  "°C",
	"lumen":                           "lm",
	"lux":                             "lx",
	"becquerel":                       "Bq",
	"gray":                            "Gy",
	"sievert":                         "Sv",
	"katal":                           "kat",
	"pascal second":                   "Pa·s",
	"newton meter":                    "N·m",
	"newton per meter":                "N/m",
	"radian per second":               "rad/s",
	"radian per second squared":       "rad/s2",
	"watt per square meter":           "W/m2",
	"joule per kelvin":                "J/K",
	"joule per kilogram kelvin":       "J/(kg·K)",
	"joule per kilogram":              "J/kg",
	"watt per meter kelvin":           "W/(m·K)",
	"joule per cubic meter":           "J/m3",
	"volt per meter":                  "V/m",
	"coulomb per cubic meter":         "C/m3",
	"coulomb per square meter":        "C/m2",
	"farad per meter":                 "F/m",
	"henry per meter":                 "H/m",
	"joule per mole":                  "J/mol",
	"joule per mole kelvin":           "J/(mol·K)",
	"coulomb per kilogram":            "C/kg",
	"gray per second":                 "Gy/s",
	"watt per steradian":              "W/sr",
	"watt per square meter steradian": "W/(m2·sr)",
	"katal per cubic meter":           "kat/m3",
	"percentage":                      "%",
	"beats per minute":                "bpm",
	"year":                            "Y",
	"month":                           "M",
	"day":                             "D",
	"watt per square metre":           "W/m^2",
	"degree":                          "º",
	"degree fahrenheit":               "ºF",
	"decibel":                         "dBm",
	"kilometre per hour":              "km/h",
	"count per cubic metre":           "1/m^3",
	"minute":                          "min",
	"kilogram per litre":              "kg/L",
	"mole per litre":                  "mol/L",
	"inch":                            "in",
	"pound":                           "lb",
	"revolution per minute":           "RPM",
	"kilogram calorie":                "kcal",
	"kilometre per minute":            "km/min",
	"metre":                           "m",
	"step per minute":                 "stp/min",
	"stroke per minute":               "str/min",
	"hour":                            "h",
	"newton metre":                    "Nm",
	"millimetre of mercury":           "mmHg",
	"millimole per litre":             "mmol/L",
}
