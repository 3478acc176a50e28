//go:build windows

package usb

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

func enumeratePlatform(filter SearchFilter) ([]Device, error) {
	devInfo, err := windows.SetupDiGetClassDevsEx(
		nil, "USB", 0, windows.DIGCF_ALLCLASSES|windows.DIGCF_PRESENT, 0, "")
	if err != nil {
		return nil, errors.Wrap(err, "error querying the device information set")
	}
	defer func() {
		// the information set handle outlives every property read below
		_ = devInfo.Close()
	}()

	var results []Device
	for i := 0; ; i++ {
		devInfoData, err := devInfo.EnumDeviceInfo(i)
		if err != nil {
			break
		}
		device, ok := deviceFromDevInfo(devInfo, devInfoData)
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

func deviceFromDevInfo(devInfo windows.DevInfo, devInfoData *windows.DevInfoData) (Device, bool) {
	instanceID, err := devInfo.DeviceInstanceID(devInfoData)
	if err != nil || instanceID == "" {
		return Device{}, false
	}

	hardwareIDs, ok := registryStrings(devInfo, devInfoData, windows.SPDRP_HARDWAREID)
	if !ok {
		return Device{}, false
	}
	vendorID, productID, ok := vendorProductFromHardwareIDs(hardwareIDs)
	if !ok {
		return Device{}, false
	}

	baseClass, ok := baseClassFromCompatibleIDs(
		registryStringValues(devInfo, devInfoData, windows.SPDRP_COMPATIBLEIDS))
	if !ok {
		return Device{}, false
	}

	var description string
	if value, err := devInfo.DeviceRegistryProperty(devInfoData, windows.SPDRP_DEVICEDESC); err == nil {
		description, _ = value.(string)
	}

	return Device{
		ID:           instanceID,
		VendorID:     vendorID,
		ProductID:    productID,
		Description:  description,
		SerialNumber: serialFromInstanceID(instanceID),
		BaseClass:    baseClass,
	}, true
}

func registryStrings(devInfo windows.DevInfo, devInfoData *windows.DevInfoData, property windows.SPDRP) ([]string, bool) {
	value, err := devInfo.DeviceRegistryProperty(devInfoData, property)
	if err != nil {
		return nil, false
	}
	ids, ok := value.([]string)
	return ids, ok
}

func registryStringValues(devInfo windows.DevInfo, devInfoData *windows.DevInfoData, property windows.SPDRP) []string {
	ids, _ := registryStrings(devInfo, devInfoData, property)
	return ids
}

// vendorProductFromHardwareIDs extracts the vendor and product IDs from
// hardware IDs of the form "USB\VID_0483&PID_5740&REV_0200".
func vendorProductFromHardwareIDs(ids []string) (uint16, uint16, bool) {
	for _, id := range ids {
		id = strings.ToUpper(id)
		vendorIdx := strings.Index(id, "VID_")
		productIdx := strings.Index(id, "PID_")
		if vendorIdx < 0 || productIdx < 0 ||
			vendorIdx+8 > len(id) || productIdx+8 > len(id) {
			continue
		}
		vendorID, err := ParseID(id[vendorIdx+4 : vendorIdx+8])
		if err != nil {
			continue
		}
		productID, err := ParseID(id[productIdx+4 : productIdx+8])
		if err != nil {
			continue
		}
		return vendorID, productID, true
	}
	return 0, 0, false
}

// baseClassFromCompatibleIDs extracts the device class from compatible IDs of
// the form "USB\Class_08&SubClass_06&Prot_50". Devices that report no class
// default to per-interface classing; an unknown class byte fails.
func baseClassFromCompatibleIDs(ids []string) (BaseClass, bool) {
	for _, id := range ids {
		id = strings.ToUpper(id)
		classIdx := strings.Index(id, "CLASS_")
		if classIdx < 0 || classIdx+8 > len(id) {
			continue
		}
		classValue, err := ParseID(id[classIdx+6 : classIdx+8])
		if err != nil {
			continue
		}
		baseClass, err := BaseClassFromByte(byte(classValue))
		if err != nil {
			return 0, false
		}
		return baseClass, true
	}
	return ClassPerInterface, true
}

// serialFromInstanceID extracts the serial number from a device instance ID
// of the form "USB\VID_0483&PID_5740\<serial>". Windows generates the last
// segment itself for devices without a serial; generated segments contain
// "&" and are not real serials.
func serialFromInstanceID(instanceID string) string {
	parts := strings.Split(instanceID, `\`)
	if len(parts) < 3 {
		return ""
	}
	serial := parts[len(parts)-1]
	if strings.Contains(serial, "&") {
		return ""
	}
	return serial
}
