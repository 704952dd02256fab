// Package gattuuid maps Bluetooth characteristic identifiers onto each other.
//
// A characteristic can be named by its assigned 16-bit UUID ("2A37",
// "0x2a37"), by the full 128-bit UUID on the Bluetooth base
// ("00002a37-0000-1000-8000-00805f9b34fb"), by its name
// ("Heart Rate Measurement") or by its type identifier
// ("org.bluetooth.characteristic.heart_rate_measurement"). Resolve reduces all
// of them to the name, which is what definition sources are keyed by.
//
// The assigned number table in names_gen.go is generated from
// characteristics.yaml by gattdecode-uuidgen.
package gattuuid

//go:generate go run ../../cmd/gattdecode-uuidgen -input characteristics.yaml -output names_gen.go
