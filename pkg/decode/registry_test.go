package decode

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gattdecode/gattdecode-go/pkg/decode/mocks"
	"github.com/gattdecode/gattdecode-go/pkg/log"
	"github.com/gattdecode/gattdecode-go/pkg/model"
)

func TestRegistryLoadsOnce(t *testing.T) {
	battery := build(t, batteryLevelYAML)
	src := mocks.NewMockSource(t)
	src.EXPECT().Lookup(mock.Anything).
		Run(func(string) { time.Sleep(10 * time.Millisecond) }).
		Return(battery, nil).
		Once()

	reg := NewRegistry(src)

	var wg sync.WaitGroup
	results := make([]*model.Characteristic, 20)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := reg.Lookup("Battery Level")
			if err == nil {
				results[i] = c
			}
		}()
	}
	wg.Wait()

	for i, c := range results {
		assert.Same(t, battery, c, "lookup %d", i)
	}
	assert.Equal(t, 1, reg.Loads())
}

func TestRegistryIdentifierFormsShareEntry(t *testing.T) {
	battery := build(t, batteryLevelYAML)
	src := mocks.NewMockSource(t)
	src.EXPECT().Lookup("2A19").Return(battery, nil).Once()

	reg := NewRegistry(src)
	for _, id := range []string{
		"2A19",
		"Battery Level",
		"0x2a19",
		"org.bluetooth.characteristic.battery_level",
		"00002a19-0000-1000-8000-00805f9b34fb",
	} {
		c, err := reg.Lookup(id)
		require.NoError(t, err, id)
		assert.Same(t, battery, c, id)
	}
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryErrorsAreNotCached(t *testing.T) {
	src := mocks.NewMockSource(t)
	src.EXPECT().Lookup("Battery Level").
		Return(nil, fmt.Errorf("%w: Battery Level", ErrNotFound)).
		Times(2)

	reg := NewRegistry(src)
	for range 2 {
		_, err := reg.Lookup("Battery Level")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 2, reg.Loads())
	assert.Zero(t, reg.Len())
}

func TestRegistryNilResult(t *testing.T) {
	src := mocks.NewMockSource(t)
	src.EXPECT().Lookup("Battery Level").Return(nil, nil).Once()

	_, err := NewRegistry(src).Lookup("Battery Level")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryWithoutSource(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Lookup("Battery Level")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = reg.Lookup("   ")
	assert.ErrorIs(t, err, ErrNotFound)

	battery := build(t, batteryLevelYAML)
	reg.Add(battery)
	assert.Equal(t, 1, reg.Len(), "name and UUID share a key")

	c, err := reg.Lookup("2A19")
	require.NoError(t, err)
	assert.Same(t, battery, c)
	assert.Zero(t, reg.Loads())
}

func TestRegistryEvict(t *testing.T) {
	battery := build(t, batteryLevelYAML)
	src := mocks.NewMockSource(t)
	src.EXPECT().Lookup("Battery Level").Return(battery, nil).Times(2)

	reg := NewRegistry(src)
	_, err := reg.Lookup("Battery Level")
	require.NoError(t, err)

	assert.True(t, reg.Evict("2A19"))
	assert.False(t, reg.Evict("2A19"))

	_, err = reg.Lookup("Battery Level")
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Loads())
}

func TestRegistryLoadEvents(t *testing.T) {
	battery := build(t, batteryLevelYAML)
	src := mocks.NewMockSource(t)
	src.EXPECT().Lookup("2A19").Return(battery, nil).Once()
	src.EXPECT().Lookup("Nope").Return(nil, ErrNotFound).Once()

	rec := &recordingLogger{}
	reg := NewRegistry(src)
	reg.SetLogger(rec)

	_, err := reg.Lookup("2A19")
	require.NoError(t, err)
	_, err = reg.Lookup("Nope")
	require.Error(t, err)

	events := rec.Events()
	require.Len(t, events, 2)

	load := events[0]
	assert.Equal(t, log.LayerMetadata, load.Layer)
	assert.Equal(t, log.CategoryLoad, load.Category)
	assert.Equal(t, "Battery Level", load.Characteristic)
	require.NotNil(t, load.Load)
	assert.Equal(t, "2A19", load.Load.ID)
	assert.Equal(t, 1, load.Load.Fields)
	assert.Equal(t, battery.Digest(), load.Load.Digest)

	fail := events[1]
	assert.Equal(t, log.CategoryError, fail.Category)
	require.NotNil(t, fail.Error)
	assert.Equal(t, "not_found", fail.Error.Kind)
	assert.Equal(t, "load", fail.Error.Context)
}

func TestRegistryLoadEventsCarrySession(t *testing.T) {
	src := mocks.NewMockSource(t)
	src.EXPECT().Lookup("2A19").Return(build(t, batteryLevelYAML), nil).Once()
	src.EXPECT().Lookup("Nope").Return(nil, ErrNotFound).Once()

	rec := &recordingLogger{}
	reg := NewRegistry(src)
	reg.SetLogger(rec)
	d := NewDecoder(reg, WithLogger(rec), WithSessionID("session-7"))
	reg.SetSessionID(d.SessionID())

	_, err := d.Decode("2A19", []byte{0x57})
	require.NoError(t, err)
	_, err = reg.Lookup("Nope")
	require.Error(t, err)

	events := rec.Events()
	require.Len(t, events, 4, "load, raw, decode, load error")
	for _, ev := range events {
		assert.Equal(t, "session-7", ev.SessionID, "%s %s event", ev.Layer, ev.Category)
	}
}

func TestRegistryAsDecoderSource(t *testing.T) {
	src := mocks.NewMockSource(t)
	src.EXPECT().Lookup("Temperature Measurement").Return(build(t, temperatureMeasurementYAML), nil).Once()
	src.EXPECT().Lookup("Date Time").Return(build(t, dateTimeYAML), nil).Once()

	d := NewDecoder(NewRegistry(src))
	data := []byte{0x02, 0x6D, 0x01, 0x00, 0xFF, 0xE8, 0x07, 0x01, 0x0F, 0x0A, 0x1E, 0x2D}
	for range 3 {
		res, err := d.Decode("Temperature Measurement", data)
		require.NoError(t, err)
		assert.Len(t, res.Fields, 7)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"Heart Rate Measurement", "heart_rate_measurement"},
		{"2A37", "heart_rate_measurement"},
		{"org.bluetooth.characteristic.heart_rate_measurement", "heart_rate_measurement"},
		{"Test Pair", "test_pair"},
		{"org.bluetooth.characteristic.test_pair", "test_pair"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Key(tt.id), tt.id)
	}
}
