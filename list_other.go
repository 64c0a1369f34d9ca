//go:build !linux

package serial

import (
	"fmt"
	"sort"

	"go.bug.st/serial/enumerator"
)

// ListPorts returns the serial device paths reported by the OS, sorted
func ListPorts() ([]string, error) {
	details, err := ListPortDetails()
	if err != nil {
		return nil, err
	}
	ports := make([]string, 0, len(details))
	for _, d := range details {
		ports = append(ports, d.Path)
	}
	return ports, nil
}

// ListPortDetails returns PortInfo for every port the enumerator reports
func ListPortDetails() ([]*PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerator error: %w", err)
	}

	infos := make([]*PortInfo, 0, len(details))
	for _, d := range details {
		info := &PortInfo{
			Name:        d.Name,
			Path:        d.Name,
			Description: getPortDescription(d.Name),
			Product:     d.Product,
		}
		if d.IsUSB {
			info.VendorID = d.VID
			info.ProductID = d.PID
			info.SerialNumber = d.SerialNumber
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos, nil
}

// GetPortInfo returns detailed information about a specific port
func GetPortInfo(portPath string) (*PortInfo, error) {
	details, err := ListPortDetails()
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		if d.Path == portPath {
			return d, nil
		}
	}
	return nil, ErrDeviceNotFound
}
