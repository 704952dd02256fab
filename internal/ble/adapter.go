// Package ble reads and subscribes to the GATT characteristics of a live
// peripheral and decodes their values.
package ble

import (
	"context"
	"errors"
	"fmt"

	"github.com/gattdecode/gattdecode-go/pkg/gattuuid"
)

// Errors returned by connections.
var (
	ErrServiceNotFound        = errors.New("ble: service not found")
	ErrCharacteristicNotFound = errors.New("ble: characteristic not found")
	ErrUnknownCharacteristic  = errors.New("ble: unknown characteristic")
	ErrDisconnected           = errors.New("ble: disconnected")
)

// Characteristic represents a discovered GATT characteristic.
type Characteristic interface {
	// UUID returns the canonical lower-case 128-bit UUID.
	UUID() string
	// Read reads the current value.
	Read() ([]byte, error)
	// Subscribe registers a callback for notifications on this characteristic.
	Subscribe(callback func(data []byte)) error
}

// Service is a discovered GATT service with its characteristics.
type Service struct {
	UUID            string
	Characteristics []Characteristic
}

// Device represents a discovered BLE peripheral.
type Device struct {
	Name    string
	Address string
	RSSI    int
}

// Connection represents an active BLE connection to a peripheral.
type Connection interface {
	// Services discovers every service and characteristic.
	Services() ([]Service, error)
	// DiscoverCharacteristic finds a characteristic by UUID. An empty
	// serviceUUID searches all services.
	DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error)
	// Disconnect terminates the connection.
	Disconnect() error
	// OnDisconnect registers a callback invoked when the connection drops.
	OnDisconnect(callback func())
}

// Adapter abstracts the BLE hardware adapter for testing.
type Adapter interface {
	// Enable powers on the BLE adapter.
	Enable() error
	// Scan discovers peripherals advertising serviceUUID, or all
	// peripherals when it is empty, until ctx is done.
	Scan(ctx context.Context, serviceUUID string) ([]Device, error)
	// Connect establishes a connection to the device with the given address.
	Connect(ctx context.Context, address string) (Connection, error)
}

// CharacteristicUUID resolves a UUID in any supported form, a characteristic
// name or a type identifier to the canonical 128-bit UUID.
func CharacteristicUUID(id string) (string, error) {
	if u, err := gattuuid.Normalize(id); err == nil {
		return u, nil
	}
	if short, ok := gattuuid.Lookup(id); ok {
		return gattuuid.Normalize(short)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCharacteristic, id)
}

// ServiceUUID normalises a service UUID. Empty stays empty.
func ServiceUUID(id string) (string, error) {
	if id == "" {
		return "", nil
	}
	u, err := gattuuid.Normalize(id)
	if err != nil {
		return "", fmt.Errorf("ble: service %q: %w", id, err)
	}
	return u, nil
}
