package decode

import (
	"time"

	"github.com/gattdecode/gattdecode-go/pkg/log"
	"github.com/gattdecode/gattdecode-go/pkg/model"
)

// trace emits the Raw event of a decode call and its Decode or Error event.
// c is nil when the characteristic could not be looked up.
func (d *Decoder) trace(id string, c *model.Characteristic, data []byte, meta Meta, res *Result, err error, dur time.Duration) {
	if d.logger == nil {
		return
	}

	base := log.Event{
		Timestamp:      d.now(),
		SessionID:      d.sessionID,
		Origin:         meta.Origin,
		Category:       log.CategoryDecode,
		Characteristic: id,
		DeviceAddr:     meta.DeviceAddr,
	}
	if c != nil {
		base.Characteristic = c.Name
		base.UUID = c.UUID
	}

	raw := base
	raw.Layer = log.LayerRaw
	raw.Raw = log.NewRawEvent(data)
	d.logger.Log(raw)

	if err != nil {
		layer := log.LayerDecode
		if c == nil {
			layer = log.LayerMetadata
		}
		ev := base
		ev.Layer = layer
		ev.Category = log.CategoryError
		ev.Error = &log.ErrorEventData{
			Layer:   layer,
			Kind:    ErrorKind(err),
			Message: err.Error(),
			Context: id,
		}
		d.logger.Log(ev)
		return
	}

	ev := base
	ev.Layer = log.LayerDecode
	ev.Decode = &log.ValueEvent{
		Fields:   make([]log.FieldValue, 0, len(res.Fields)),
		Digest:   c.Digest(),
		Duration: dur,
	}
	for _, r := range res.Fields {
		ev.Decode.Fields = append(ev.Decode.Fields, log.FieldValue{
			Name:   r.Name,
			Value:  exportValue(r.Value),
			Symbol: r.Symbol,
		})
	}
	for _, f := range res.Flags {
		ev.Decode.Flags = append(ev.Decode.Flags, log.FlagValue{Name: f.Name, Key: f.Key, Label: f.Label})
	}
	d.logger.Log(ev)
}
