//go:build linux

package usb

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SysPaths are the directories searched for attached USB devices. It's a
// variable in case you need to override it during tests.
var SysPaths = []string{"/sys/bus/usb/devices"}

func enumeratePlatform(filter SearchFilter) ([]Device, error) {
	var results []Device
	var searched bool
	for _, sysPath := range SysPaths {
		entries, err := os.ReadDir(sysPath)
		if err != nil {
			continue
		}
		searched = true
		for _, entry := range entries {
			// interface entries look like "1-1:1.0"; only whole devices
			// are of interest here
			if strings.Contains(entry.Name(), ":") {
				continue
			}
			device, ok := deviceFromSysfs(filepath.Join(sysPath, entry.Name()))
			if !ok {
				continue
			}
			if !filter.matches(device.VendorID, device.ProductID) {
				continue
			}
			results = append(results, device)
		}
	}
	if !searched {
		return nil, errors.New("no usb sysfs directory could be read")
	}
	return results, nil
}

// deviceFromSysfs reads one /sys/bus/usb/devices entry. Entries that are not
// usb devices or whose identifiers cannot be decoded are reported as not ok
// and skipped by the caller.
func deviceFromSysfs(dir string) (Device, bool) {
	props, err := readUevent(filepath.Join(dir, "uevent"))
	if err != nil {
		return Device{}, false
	}
	if props["DEVTYPE"] != "usb_device" {
		return Device{}, false
	}

	vendorID, productID, ok := readDeviceIDs(dir, props)
	if !ok {
		return Device{}, false
	}

	classAttr, err := readAttribute(dir, "bDeviceClass")
	if err != nil {
		return Device{}, false
	}
	var classByte byte
	if parsed, err := ParseID(classAttr); err == nil && parsed <= 0xff {
		classByte = byte(parsed)
	} else {
		return Device{}, false
	}
	baseClass, err := BaseClassFromByte(classByte)
	if err != nil {
		return Device{}, false
	}

	id := props["DEVPATH"]
	if id == "" {
		id = filepath.Base(dir)
	}

	// description and serial are optional
	description, _ := readAttribute(dir, "product")
	serial, _ := readAttribute(dir, "serial")

	return Device{
		ID:           id,
		VendorID:     vendorID,
		ProductID:    productID,
		Description:  description,
		SerialNumber: serial,
		BaseClass:    baseClass,
	}, true
}

// readDeviceIDs prefers the idVendor/idProduct attribute files and falls back
// to the uevent PRODUCT=vvvv/pppp/rrrr line, which some kernels report with
// unpadded hex.
func readDeviceIDs(dir string, props map[string]string) (uint16, uint16, bool) {
	vendorAttr, vendorErr := readAttribute(dir, "idVendor")
	productAttr, productErr := readAttribute(dir, "idProduct")
	if vendorErr == nil && productErr == nil {
		vendorID, err := ParseID(vendorAttr)
		if err != nil {
			return 0, 0, false
		}
		productID, err := ParseID(productAttr)
		if err != nil {
			return 0, 0, false
		}
		return vendorID, productID, true
	}

	productInfoParts := strings.Split(props["PRODUCT"], "/")
	if len(productInfoParts) < 2 {
		return 0, 0, false
	}
	vendorID, err := ParseID(productInfoParts[0])
	if err != nil {
		return 0, 0, false
	}
	productID, err := ParseID(productInfoParts[1])
	if err != nil {
		return 0, 0, false
	}
	return vendorID, productID, true
}

func readAttribute(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readUevent(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	props := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		props[key] = strings.TrimSpace(value)
	}
	return props, nil
}
