// Package mqtt publishes decoded characteristic values as JSON messages.
package mqtt

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/gattdecode/gattdecode-go/internal/config"
	"github.com/gattdecode/gattdecode-go/pkg/decode"
	"github.com/gattdecode/gattdecode-go/pkg/gattuuid"
	"github.com/gattdecode/gattdecode-go/pkg/log"
)

// Errors returned by the publisher.
var (
	ErrStopped      = errors.New("mqtt: publisher stopped")
	ErrNotConnected = errors.New("mqtt: not connected")
	ErrTimeout      = errors.New("mqtt: publish timeout")
)

const publishTimeout = 5 * time.Second

// Message is the JSON payload of one decoded value.
type Message struct {
	Address        string          `json:"address,omitempty"`
	UUID           string          `json:"uuid"`
	Characteristic string          `json:"characteristic,omitempty"`
	Origin         string          `json:"origin"`
	Timestamp      time.Time       `json:"timestamp"`
	Raw            string          `json:"raw"`
	Values         json.RawMessage `json:"values,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// NewMessage builds the message for a decoded value. res may be nil when
// decodeErr is set.
func NewMessage(address, uuid string, origin log.Origin, data []byte, res *decode.Result, decodeErr error, at time.Time) (Message, error) {
	msg := Message{
		Address:   address,
		UUID:      uuid,
		Origin:    origin.String(),
		Timestamp: at,
		Raw:       hex.EncodeToString(data),
	}
	if decodeErr != nil {
		msg.Error = decodeErr.Error()
	}
	if res != nil {
		msg.Characteristic = res.Characteristic
		values, err := res.ValuesJSON()
		if err != nil {
			return Message{}, fmt.Errorf("marshal values: %w", err)
		}
		msg.Values = values
	}
	return msg, nil
}

// Topic returns "<prefix>/<address>/<uuid>". The address loses its
// separators and the UUID is shortened to its 16-bit alias when possible.
func Topic(prefix, address, uuid string) string {
	addr := strings.ToLower(strings.NewReplacer(":", "", "-", "").Replace(address))
	if addr == "" {
		addr = "local"
	}
	id := strings.ToLower(uuid)
	if short, ok := gattuuid.Short(uuid); ok {
		id = strings.ToLower(short)
	}
	return strings.TrimSuffix(prefix, "/") + "/" + addr + "/" + id
}

// Publisher publishes messages to an MQTT broker.
type Publisher struct {
	client    paho.Client
	cfg       config.MQTTConfig
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPublisher creates a publisher for the configured broker. It does not
// connect.
func NewPublisher(cfg config.MQTTConfig, logger *slog.Logger) *Publisher {
	p := newPublisher(cfg, logger)

	opts := paho.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ paho.Client) {
		p.setConnected(true)
		p.logger.Info("mqtt connected", "broker", cfg.Broker, "port", cfg.Port)
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		p.setConnected(false)
		p.logger.Warn("mqtt connection lost", "error", err)
	})

	p.client = paho.NewClient(opts)
	return p
}

func newPublisher(cfg config.MQTTConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Connect establishes the connection to the broker. It waits for the
// initial connection and respects ctx and Disconnect.
func (p *Publisher) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return ErrStopped
	default:
	}

	if p.IsConnected() {
		return nil
	}

	token := p.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			p.setConnected(true)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.stopCh:
			return ErrStopped
		default:
		}
	}
}

// Publish sends msg to its topic.
func (p *Publisher) Publish(msg Message) error {
	if !p.IsConnected() {
		return ErrNotConnected
	}

	topic := Topic(p.cfg.TopicPrefix, msg.Address, msg.UUID)
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	token := p.client.Publish(topic, p.cfg.QoS, p.cfg.Retain, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: %s", ErrTimeout, topic)
	}
	if err := token.Error(); err != nil {
		p.logger.Error("failed to publish reading", "topic", topic, "error", err)
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	p.logger.Debug("published reading", "topic", topic, "characteristic", msg.Characteristic)
	return nil
}

// IsConnected returns whether the publisher is connected.
func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()
	return connected && p.client.IsConnected()
}

// Disconnect stops the publisher and closes the connection. It is
// idempotent; Connect fails afterwards.
func (p *Publisher) Disconnect() {
	p.stopOnce.Do(func() { close(p.stopCh) })

	if p.client != nil {
		p.client.Disconnect(250)
	}

	p.setConnected(false)
	p.logger.Info("mqtt disconnected")
}

func (p *Publisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}
