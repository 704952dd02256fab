package commands

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gattdecode/gattdecode-go/pkg/log"
)

// jsonEvent is the JSON form of a trace event.
type jsonEvent struct {
	Timestamp      time.Time           `json:"timestamp"`
	SessionID      string              `json:"session_id"`
	Origin         string              `json:"origin"`
	Layer          string              `json:"layer"`
	Category       string              `json:"category"`
	Characteristic string              `json:"characteristic,omitempty"`
	UUID           string              `json:"uuid,omitempty"`
	DeviceAddr     string              `json:"device_addr,omitempty"`
	Raw            string              `json:"raw,omitempty"`
	Fields         []jsonField         `json:"fields,omitempty"`
	Flags          []log.FlagValue     `json:"flags,omitempty"`
	Load           *log.LoadEvent      `json:"load,omitempty"`
	Error          *log.ErrorEventData `json:"error,omitempty"`
}

type jsonField struct {
	Name   string `json:"name"`
	Value  any    `json:"value"`
	Symbol string `json:"symbol,omitempty"`
}

func toJSONEvent(event log.Event) jsonEvent {
	je := jsonEvent{
		Timestamp:      event.Timestamp.UTC(),
		SessionID:      event.SessionID,
		Origin:         event.Origin.String(),
		Layer:          event.Layer.String(),
		Category:       event.Category.String(),
		Characteristic: event.Characteristic,
		UUID:           event.UUID,
		DeviceAddr:     event.DeviceAddr,
		Load:           event.Load,
		Error:          event.Error,
	}
	if event.Raw != nil {
		je.Raw = hex.EncodeToString(event.Raw.Data)
	}
	if event.Decode != nil {
		for _, f := range event.Decode.Fields {
			je.Fields = append(je.Fields, jsonField{Name: f.Name, Value: jsonSafe(f.Value), Symbol: f.Symbol})
		}
		je.Flags = event.Decode.Flags
	}
	return je
}

// RunExport exports the trace file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toJSONEvent(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "origin", "layer", "category", "characteristic", "uuid", "device_addr", "type", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		eventType := "unknown"
		detail := ""
		switch {
		case event.Raw != nil:
			eventType = "raw"
			detail = hex.EncodeToString(event.Raw.Data)
		case event.Decode != nil:
			eventType = "decode"
			detail = strconv.Itoa(len(event.Decode.Fields))
		case event.Load != nil:
			eventType = "load"
			detail = event.Load.ID
		case event.Error != nil:
			eventType = "error"
			detail = event.Error.Message
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.SessionID,
			event.Origin.String(),
			event.Layer.String(),
			event.Category.String(),
			event.Characteristic,
			event.UUID,
			event.DeviceAddr,
			eventType,
			detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
