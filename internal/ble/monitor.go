package ble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gattdecode/gattdecode-go/pkg/decode"
	"github.com/gattdecode/gattdecode-go/pkg/log"
)

// Watch selects a characteristic to follow.
type Watch struct {
	// Service narrows the search to one service. Empty searches all.
	Service string
	// Characteristic is a UUID, name or type identifier.
	Characteristic string
	// Notify subscribes to notifications. Otherwise the value is read
	// every Interval.
	Notify   bool
	Interval time.Duration
}

// Update is one decoded value.
type Update struct {
	Address string
	UUID    string
	Origin  log.Origin
	Data    []byte
	Result  *decode.Result
	// Err is the decode or read error, if any.
	Err error
	At  time.Time
}

// MonitorOptions configures the reconnect behavior.
type MonitorOptions struct {
	ReconnectMax   int           // max reconnect backoff in seconds
	ConnectTimeout time.Duration // per attempt, 0 for none
}

// DefaultMonitorOptions returns sensible defaults.
func DefaultMonitorOptions() MonitorOptions {
	return MonitorOptions{
		ReconnectMax:   30,
		ConnectTimeout: 15 * time.Second,
	}
}

// Monitor follows the watched characteristics of one peripheral and
// reconnects when the connection drops.
type Monitor struct {
	adapter Adapter
	address string
	decoder *decode.Decoder
	watches []Watch
	opts    MonitorOptions
	logger  *slog.Logger
	now     func() time.Time
}

// NewMonitor creates a monitor for the peripheral at address.
func NewMonitor(adapter Adapter, address string, decoder *decode.Decoder, watches []Watch, opts MonitorOptions) *Monitor {
	if opts.ReconnectMax <= 0 {
		opts.ReconnectMax = 30
	}
	return &Monitor{
		adapter: adapter,
		address: address,
		decoder: decoder,
		watches: watches,
		opts:    opts,
		logger:  slog.Default(),
		now:     time.Now,
	}
}

// SetLogger sets the operational logger.
func (m *Monitor) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// backoffDelay returns the reconnection delay for attempt n, capped at maxSeconds.
func backoffDelay(attempt int, maxSeconds int) time.Duration {
	if attempt > 30 {
		attempt = 30
	}
	delay := time.Duration(1<<uint(attempt)) * time.Second
	max := time.Duration(maxSeconds) * time.Second
	if delay > max {
		return max
	}
	return delay
}

// Run enables the adapter, connects and delivers updates to handle until
// ctx is done. Dropped connections are re-established with exponential
// backoff. A watched characteristic missing from the peripheral ends Run
// with an error.
func (m *Monitor) Run(ctx context.Context, handle func(Update)) error {
	if len(m.watches) == 0 {
		return errors.New("ble: nothing to watch")
	}
	if err := m.adapter.Enable(); err != nil {
		return fmt.Errorf("ble: enable adapter: %w", err)
	}

	for attempt := 0; ; {
		conn, err := m.connect(ctx)
		if err == nil {
			attempt = 0
			err = m.serve(ctx, conn, handle)
		}
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrCharacteristicNotFound) || errors.Is(err, ErrServiceNotFound) ||
			errors.Is(err, ErrUnknownCharacteristic) {
			return err
		}

		delay := backoffDelay(attempt, m.opts.ReconnectMax)
		attempt++
		m.logger.Warn("ble: reconnecting", "address", m.address, "error", err, "attempt", attempt, "delay", delay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (m *Monitor) connect(ctx context.Context) (Connection, error) {
	if m.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.ConnectTimeout)
		defer cancel()
	}
	return m.adapter.Connect(ctx, m.address)
}

// serve runs the watches on conn until ctx is done or the connection drops.
func (m *Monitor) serve(ctx context.Context, conn Connection, handle func(Update)) error {
	lost := make(chan struct{})
	var once sync.Once
	conn.OnDisconnect(func() {
		once.Do(func() { close(lost) })
	})
	defer conn.Disconnect()

	m.logger.Info("ble: connected", "address", m.address)

	var wg sync.WaitGroup
	defer wg.Wait()
	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, w := range m.watches {
		svc, err := ServiceUUID(w.Service)
		if err != nil {
			return err
		}
		id, err := CharacteristicUUID(w.Characteristic)
		if err != nil {
			return err
		}
		char, err := conn.DiscoverCharacteristic(svc, id)
		if err != nil {
			return err
		}

		if w.Notify {
			uuid := char.UUID()
			err := char.Subscribe(func(data []byte) {
				handle(m.decode(uuid, data, log.OriginNotify))
			})
			if err != nil {
				return fmt.Errorf("ble: subscribe to %s: %w", uuid, err)
			}
			m.logger.Debug("ble: subscribed", "uuid", uuid)
			continue
		}

		wg.Add(1)
		go func(char Characteristic, interval time.Duration) {
			defer wg.Done()
			m.poll(pollCtx, char, interval, handle)
		}(char, w.Interval)
	}

	select {
	case <-ctx.Done():
		return nil
	case <-lost:
		return ErrDisconnected
	}
}

// poll reads char immediately and then every interval.
func (m *Monitor) poll(ctx context.Context, char Characteristic, interval time.Duration, handle func(Update)) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		data, err := char.Read()
		if err != nil {
			handle(Update{
				Address: m.address,
				UUID:    char.UUID(),
				Origin:  log.OriginRead,
				Err:     fmt.Errorf("ble: read %s: %w", char.UUID(), err),
				At:      m.now(),
			})
		} else {
			handle(m.decode(char.UUID(), data, log.OriginRead))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *Monitor) decode(uuid string, data []byte, origin log.Origin) Update {
	u := Update{
		Address: m.address,
		UUID:    uuid,
		Origin:  origin,
		Data:    data,
		At:      m.now(),
	}
	u.Result, u.Err = m.decoder.DecodeWith(uuid, data, decode.Meta{Origin: origin, DeviceAddr: m.address})
	return u
}
