//go:build darwin

package usb

import (
	"fmt"
	"os/exec"

	"github.com/pkg/errors"
	"howett.net/plist"
)

// ioreg reports USB devices under IOUSBHostDevice on modern macOS; older
// releases registered them as IOUSBDevice.
var ioObjectClasses = []string{"IOUSBHostDevice", "IOUSBDevice"}

// SearchCmd is the actual system command to run; it is normally ioreg. It's
// a variable in case you need to override it during tests.
var SearchCmd = func(ioObjectClass string) ([]byte, error) {
	cmd := exec.Command("ioreg", "-r", "-c", ioObjectClass, "-a", "-l")
	return cmd.Output()
}

func enumeratePlatform(filter SearchFilter) ([]Device, error) {
	var out []byte
	var err error
	for _, class := range ioObjectClasses {
		out, err = SearchCmd(class)
		if err == nil && len(out) != 0 {
			break
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "error querying the io registry")
	}
	if len(out) == 0 {
		return nil, nil
	}

	var data []map[string]interface{}
	if _, err := plist.Unmarshal(out, &data); err != nil {
		return nil, errors.Wrap(err, "error parsing io registry output")
	}

	var results []Device
	for _, properties := range data {
		device, ok := deviceFromIORegistry(properties)
		if !ok {
			continue
		}
		if !filter.matches(device.VendorID, device.ProductID) {
			continue
		}
		results = append(results, device)
	}
	return results, nil
}

func deviceFromIORegistry(properties map[string]interface{}) (Device, bool) {
	vendorID, ok := registryID(properties, "idVendor")
	if !ok {
		return Device{}, false
	}
	productID, ok := registryID(properties, "idProduct")
	if !ok {
		return Device{}, false
	}

	classValue, ok := properties["bDeviceClass"].(uint64)
	if !ok || classValue > 0xff {
		return Device{}, false
	}
	baseClass, err := BaseClassFromByte(byte(classValue))
	if err != nil {
		return Device{}, false
	}

	// sessionID is unique per attachment; locationID is stable per port
	id, ok := properties["sessionID"].(uint64)
	if !ok {
		id, ok = properties["locationID"].(uint64)
		if !ok {
			return Device{}, false
		}
	}

	description, _ := properties["USB Product Name"].(string)
	serial, _ := properties["USB Serial Number"].(string)

	return Device{
		ID:           fmt.Sprintf("%d", id),
		VendorID:     vendorID,
		ProductID:    productID,
		Description:  description,
		SerialNumber: serial,
		BaseClass:    baseClass,
	}, true
}

func registryID(properties map[string]interface{}, key string) (uint16, bool) {
	value, ok := properties[key].(uint64)
	if !ok || value > 0xffff {
		return 0, false
	}
	return uint16(value), true
}
