package ble

import (
	"github.com/gattdecode/gattdecode-go/pkg/decode"
	"github.com/gattdecode/gattdecode-go/pkg/gattuuid"
	"github.com/gattdecode/gattdecode-go/pkg/log"
)

// CharacteristicReport describes one characteristic found by Explore.
type CharacteristicReport struct {
	UUID string
	// Name is the assigned name, "" for vendor UUIDs.
	Name   string
	Data   []byte
	Result *decode.Result
	// ReadErr is set when the value could not be read.
	ReadErr error
	// DecodeErr is set when the value could not be decoded.
	DecodeErr error
}

// ServiceReport describes one service found by Explore.
type ServiceReport struct {
	UUID            string
	Characteristics []CharacteristicReport
}

// Explore reads and decodes every characteristic of conn. Read and decode
// failures are recorded per characteristic; only discovery failures are
// returned.
func Explore(conn Connection, decoder *decode.Decoder, address string) ([]ServiceReport, error) {
	svcs, err := conn.Services()
	if err != nil {
		return nil, err
	}

	reports := make([]ServiceReport, 0, len(svcs))
	for _, svc := range svcs {
		sr := ServiceReport{UUID: svc.UUID}
		for _, char := range svc.Characteristics {
			cr := CharacteristicReport{UUID: char.UUID()}
			cr.Name, _ = gattuuid.Name(cr.UUID)

			cr.Data, cr.ReadErr = char.Read()
			if cr.ReadErr == nil && cr.Name != "" {
				cr.Result, cr.DecodeErr = decoder.DecodeWith(cr.UUID, cr.Data, decode.Meta{
					Origin:     log.OriginRead,
					DeviceAddr: address,
				})
			}
			sr.Characteristics = append(sr.Characteristics, cr)
		}
		reports = append(reports, sr)
	}
	return reports, nil
}
