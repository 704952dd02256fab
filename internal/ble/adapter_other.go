//go:build !linux

package ble

import "tinygo.org/x/bluetooth"

func systemAdapter(string) *bluetooth.Adapter {
	return bluetooth.DefaultAdapter
}
