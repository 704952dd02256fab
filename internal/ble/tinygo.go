package ble

import (
	"context"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"
)

// maxAttributeSize is the largest GATT attribute value.
const maxAttributeSize = 512

// TinyGoAdapter wraps tinygo-org/bluetooth. On Linux the adapter is selected
// by its BlueZ name ("hci0"); other platforms use the default adapter and
// address peripherals by the platform identifier.
type TinyGoAdapter struct {
	adapter *bluetooth.Adapter

	// mu protects the connections map.
	mu          sync.Mutex
	connections map[string]*tinyConnection // keyed by device address
}

// NewTinyGoAdapter creates a new BLE adapter.
func NewTinyGoAdapter(id string) *TinyGoAdapter {
	return &TinyGoAdapter{
		adapter:     systemAdapter(id),
		connections: make(map[string]*tinyConnection),
	}
}

func (a *TinyGoAdapter) Enable() error {
	if err := a.adapter.Enable(); err != nil {
		return err
	}

	a.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		if connected {
			return
		}
		addr := device.Address.String()
		a.mu.Lock()
		conn, ok := a.connections[addr]
		delete(a.connections, addr)
		a.mu.Unlock()
		if ok {
			conn.disconnected()
		}
	})

	return nil
}

func (a *TinyGoAdapter) Scan(ctx context.Context, serviceUUID string) ([]Device, error) {
	var filter *bluetooth.UUID
	if serviceUUID != "" {
		u, err := bluetooth.ParseUUID(serviceUUID)
		if err != nil {
			return nil, fmt.Errorf("ble: parse service UUID: %w", err)
		}
		filter = &u
	}

	var mu sync.Mutex
	var devices []Device
	seen := make(map[string]bool)

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = a.adapter.StopScan()
		case <-done:
		}
	}()

	err := a.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		if filter != nil && !result.HasServiceUUID(*filter) {
			return
		}
		addr := result.Address.String()
		mu.Lock()
		defer mu.Unlock()
		if seen[addr] {
			return
		}
		seen[addr] = true
		devices = append(devices, Device{
			Name:    result.LocalName(),
			Address: addr,
			RSSI:    int(result.RSSI),
		})
	})
	close(done)

	if err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("ble: scan: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	return devices, nil
}

func (a *TinyGoAdapter) Connect(ctx context.Context, address string) (Connection, error) {
	var addr bluetooth.Address
	addr.Set(address)

	// Connect blocks with its own timeout and cannot be cancelled.
	type connectResult struct {
		device bluetooth.Device
		err    error
	}
	ch := make(chan connectResult, 1)
	go func() {
		device, err := a.adapter.Connect(addr, bluetooth.ConnectionParams{})
		ch <- connectResult{device, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("ble: connect to %s: %w", address, ctx.Err())
	case result := <-ch:
		if result.err != nil {
			return nil, fmt.Errorf("ble: connect to %s: %w", address, result.err)
		}
		conn := &tinyConnection{device: &result.device}

		a.mu.Lock()
		a.connections[result.device.Address.String()] = conn
		a.mu.Unlock()

		return conn, nil
	}
}

var _ Adapter = (*TinyGoAdapter)(nil)

type tinyConnection struct {
	device *bluetooth.Device

	mu           sync.Mutex
	disconnectCb func()
}

func (c *tinyConnection) Services() ([]Service, error) {
	svcs, err := c.device.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("ble: discover services: %w", err)
	}

	out := make([]Service, 0, len(svcs))
	for i := range svcs {
		chars, err := svcs[i].DiscoverCharacteristics(nil)
		if err != nil {
			return nil, fmt.Errorf("ble: discover characteristics of %s: %w", svcs[i].UUID(), err)
		}
		svc := Service{UUID: svcs[i].UUID().String()}
		for j := range chars {
			svc.Characteristics = append(svc.Characteristics, &tinyCharacteristic{char: &chars[j]})
		}
		out = append(out, svc)
	}
	return out, nil
}

func (c *tinyConnection) DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error) {
	var svcFilter []bluetooth.UUID
	if serviceUUID != "" {
		u, err := bluetooth.ParseUUID(serviceUUID)
		if err != nil {
			return nil, err
		}
		svcFilter = []bluetooth.UUID{u}
	}
	charParsed, err := bluetooth.ParseUUID(charUUID)
	if err != nil {
		return nil, err
	}

	svcs, err := c.device.DiscoverServices(svcFilter)
	if err != nil {
		return nil, fmt.Errorf("ble: discover services: %w", err)
	}
	if len(svcs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceUUID)
	}

	for i := range svcs {
		chars, err := svcs[i].DiscoverCharacteristics([]bluetooth.UUID{charParsed})
		if err != nil || len(chars) == 0 {
			continue
		}
		return &tinyCharacteristic{char: &chars[0]}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCharacteristicNotFound, charUUID)
}

func (c *tinyConnection) Disconnect() error {
	return c.device.Disconnect()
}

func (c *tinyConnection) OnDisconnect(cb func()) {
	c.mu.Lock()
	c.disconnectCb = cb
	c.mu.Unlock()
}

func (c *tinyConnection) disconnected() {
	c.mu.Lock()
	cb := c.disconnectCb
	c.mu.Unlock()
	if cb != nil {
		cb()
	}
}

type tinyCharacteristic struct {
	char *bluetooth.DeviceCharacteristic
}

func (c *tinyCharacteristic) UUID() string {
	return c.char.UUID().String()
}

func (c *tinyCharacteristic) Read() ([]byte, error) {
	buf := make([]byte, maxAttributeSize)
	n, err := c.char.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (c *tinyCharacteristic) Subscribe(cb func([]byte)) error {
	return c.char.EnableNotifications(func(buf []byte) {
		cb(append([]byte(nil), buf...))
	})
}
