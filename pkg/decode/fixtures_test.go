package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gattdecode/gattdecode-go/pkg/model"
	"github.com/gattdecode/gattdecode-go/pkg/specparse"
)

const heartRateYAML = `
name: Heart Rate Measurement
uuid: 2A37
fields:
  - name: Flags
    requirements: Mandatory
    format: 8bit
    bitfield:
      - name: Heart Rate Value Format bit
        index: 0
        size: 1
        enumerations:
          - {key: 0, value: UINT8, requires: C1}
          - {key: 1, value: UINT16, requires: C2}
      - name: Sensor Contact Status bits
        index: 1
        size: 2
        enumerations:
          - {key: 0, value: Not supported}
          - {key: 1, value: Not supported}
          - {key: 2, value: Supported but not detected}
          - {key: 3, value: Supported and detected}
      - name: Energy Expended Status bit
        index: 3
        size: 1
        enumerations:
          - {key: 0, value: Not present}
          - {key: 1, value: Present, requires: C3}
      - name: RR-Interval bit
        index: 4
        size: 1
        enumerations:
          - {key: 0, value: Not present}
          - {key: 1, value: Present, requires: C4}
      - index: 5
        size: 3
  - name: Heart Rate Measurement Value (uint8)
    requirements: C1
    format: uint8
    unit: org.bluetooth.unit.period.beats_per_minute
  - name: Heart Rate Measurement Value (uint16)
    requirements: C2
    format: uint16
    unit: org.bluetooth.unit.period.beats_per_minute
  - name: Energy Expended
    requirements: C3
    format: uint16
    unit: org.bluetooth.unit.energy.joule
  - name: RR-Interval
    requirements: C4
    format: uint16
    unit: org.bluetooth.unit.time.second
    binaryExponent: -10
`

const temperatureMeasurementYAML = `
name: Temperature Measurement
uuid: 2A1C
fields:
  - name: Flags
    requirements: Mandatory
    format: 8bit
    bitfield:
      - name: Temperature Units Flag
        index: 0
        size: 1
        enumerations:
          - {key: 0, value: Celsius, requires: C1}
          - {key: 1, value: Fahrenheit, requires: C2}
      - name: Time Stamp Flag
        index: 1
        size: 1
        enumerations:
          - {key: 0, value: "False"}
          - {key: 1, value: "True", requires: C3}
      - index: 2
        size: 6
  - name: Temperature Measurement Value (Celsius)
    requirements: C1
    format: FLOAT
    unit: org.bluetooth.unit.thermodynamic_temperature.degree_celsius
  - name: Temperature Measurement Value (Fahrenheit)
    requirements: C2
    format: FLOAT
    unit: org.bluetooth.unit.thermodynamic_temperature.degree_fahrenheit
  - name: Time Stamp
    requirements: C3
    reference: org.bluetooth.characteristic.date_time
`

const dateTimeYAML = `
name: Date Time
uuid: 2A08
fields:
  - {name: Year, requirements: Mandatory, format: uint16, minimum: 1582, maximum: 9999}
  - {name: Month, requirements: Mandatory, format: uint8}
  - {name: Day, requirements: Mandatory, format: uint8}
  - {name: Hours, requirements: Mandatory, format: uint8}
  - {name: Minutes, requirements: Mandatory, format: uint8}
  - {name: Seconds, requirements: Mandatory, format: uint8}
`

const dayOfWeekYAML = `
name: Day of Week
uuid: 2A09
fields:
  - name: Day of Week
    format: uint8
    enumerations:
      - {key: 1, value: Monday}
      - {key: 2, value: Tuesday}
      - {key: 3, value: Wednesday}
      - {key: 4, value: Thursday}
      - {key: 5, value: Friday}
      - {key: 6, value: Saturday}
      - {key: 7, value: Sunday}
`

const dayDateTimeYAML = `
name: Day Date Time
uuid: 2A0A
fields:
  - {name: Date Time, requirements: Mandatory, reference: org.bluetooth.characteristic.date_time}
  - {name: Day of Week, requirements: Mandatory, reference: org.bluetooth.characteristic.day_of_week}
`

const batteryLevelYAML = `
name: Battery Level
uuid: 2A19
fields:
  - name: Level
    requirements: Mandatory
    format: uint8
    unit: org.bluetooth.unit.percentage
    minimum: 0
    maximum: 100
`

const bodySensorLocationYAML = `
name: Body Sensor Location
uuid: 2A38
fields:
  - name: Body Sensor Location
    requirements: Mandatory
    format: 8bit
    enumerations:
      - {key: 0, value: Other}
      - {key: 1, value: Chest}
      - {key: 2, value: Wrist}
`

const temperatureYAML = `
name: Temperature
uuid: 2A6E
fields:
  - name: Temperature
    requirements: Mandatory
    format: sint16
    decimalExponent: -2
    unit: org.bluetooth.unit.thermodynamic_temperature.degree_celsius
`

const manufacturerNameYAML = `
name: Manufacturer Name String
uuid: 2A29
fields:
  - {name: Manufacturer Name, requirements: Mandatory, format: utf8s}
`

// Characteristics below exercise single corner cases.

const pairYAML = `
name: Test Pair
fields:
  - name: Flags
    requirements: Mandatory
    format: uint8
    bitfield:
      - name: B Present
        index: 0
        size: 1
        enumerations:
          - {key: 0, value: "No"}
          - {key: 1, value: "Yes", requires: T}
  - {name: A, requirements: Mandatory, format: uint8}
  - name: B
    requirements: T
    format: uint16
    decimalExponent: -1
    unit: org.bluetooth.unit.thermodynamic_temperature.degree_celsius
`

const paddedYAML = `
name: Test Padded
fields:
  - name: Flags
    format: uint8
    bitfield:
      - {name: Bit, index: 0, size: 1}
  - {name: A, requirements: Mandatory, format: uint8}
  - {name: B, requirements: Mandatory, format: uint16}
`

const untaggedYAML = `
name: Test Untagged
fields:
  - {name: A, requirements: Mandatory, format: uint8}
  - {name: B, requirements: C1, format: uint8}
  - {name: C, format: uint8}
`

const floatYAML = `
name: Test Float
fields:
  - {name: Value, format: SFLOAT, multiplier: 2}
`

const statusYAML = `
name: Test Status
fields:
  - name: Status
    format: uint8
    bitfield:
      - name: Alpha
        index: 0
        size: 1
        enumerations:
          - {key: 0, value: "Off"}
          - {key: 1, value: "On"}
      - name: Mode
        index: 1
        size: 2
        enumerations:
          - {key: 0, value: Idle}
          - {key: 1, value: Busy}
`

const switchYAML = `
name: Test Switch
fields:
  - name: Switch
    format: uint8
    bitfield:
      - name: Position
        index: 0
        size: 2
        enumerations:
          - {key: 0, value: "Off"}
          - {key: 1, value: "On"}
          - {key: 2, value: Auto}
`

const wrapperYAML = `
name: Test Wrapper
fields:
  - {name: Stamp, reference: org.bluetooth.characteristic.date_time}
`

const outerYAML = `
name: Test Outer
fields:
  - {name: Tag, requirements: Mandatory, format: uint8}
  - {name: When, requirements: Mandatory, reference: org.bluetooth.characteristic.day_date_time}
`

const loopAYAML = `
name: Loop A
fields:
  - {name: X, requirements: Mandatory, format: uint8}
  - {name: Next, requirements: Mandatory, reference: org.bluetooth.characteristic.loop_b}
`

const loopBYAML = `
name: Loop B
fields:
  - {name: Y, requirements: Mandatory, format: uint8}
  - {name: Back, requirements: Mandatory, reference: org.bluetooth.characteristic.loop_a}
`

const selfRefYAML = `
name: Self Ref
fields:
  - {name: Me, reference: org.bluetooth.characteristic.self_ref}
`

const brokenRefYAML = `
name: Test Broken
fields:
  - {name: A, requirements: Mandatory, format: uint8}
  - {name: Gone, requirements: Mandatory, reference: org.bluetooth.characteristic.does_not_exist}
`

const variableFirstYAML = `
name: Test Variable First
fields:
  - {name: Text, requirements: Mandatory, format: utf8s}
  - {name: Count, requirements: Mandatory, format: uint8}
`

var allFixtures = []string{
	heartRateYAML, temperatureMeasurementYAML, dateTimeYAML, dayOfWeekYAML,
	dayDateTimeYAML, batteryLevelYAML, bodySensorLocationYAML, temperatureYAML,
	manufacturerNameYAML, pairYAML, paddedYAML, untaggedYAML, floatYAML,
	statusYAML, switchYAML, wrapperYAML, outerYAML, loopAYAML, loopBYAML,
	selfRefYAML, brokenRefYAML, variableFirstYAML,
}

func build(t testing.TB, doc string) *model.Characteristic {
	t.Helper()
	raw, err := specparse.ParseCharacteristicDef([]byte(doc))
	require.NoError(t, err)
	c, err := model.Build(raw)
	require.NoError(t, err)
	return c
}

// fixtureRegistry returns a registry serving every fixture and nothing else.
func fixtureRegistry(t testing.TB) *Registry {
	t.Helper()
	reg := NewRegistry(nil)
	for _, doc := range allFixtures {
		reg.Add(build(t, doc))
	}
	return reg
}

func newTestDecoder(t testing.TB, opts ...Option) *Decoder {
	t.Helper()
	return NewDecoder(fixtureRegistry(t), opts...)
}
