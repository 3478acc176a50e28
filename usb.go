// Package usb provides utilities for searching for and working with usb based devices.
//
// A one-shot snapshot of the currently attached devices is available through
// Enumerate. For a live view, an Observer can be subscribed to; it polls the
// host's device registry in the background and reports connect and disconnect
// events as they happen.
package usb

import (
	"fmt"

	"github.com/pkg/errors"
)

// A Device describes a specific USB device as enumerated at a point in time.
//
// Devices compare by value over all fields; a device whose metadata changes
// between polls (e.g. the OS finishes populating its description) is a
// different device-state from the observer's point of view.
type Device struct {
	// ID uniquely identifies the device on this platform while it stays
	// attached. It is not guaranteed stable across a replug on all platforms.
	ID string

	VendorID  uint16
	ProductID uint16

	// Description is a human-readable name, if the platform reports one.
	Description string

	// SerialNumber is the device serial, if the platform reports one.
	SerialNumber string

	BaseClass BaseClass
}

// String returns a human-readable summary of the device suitable for logs
// and command output.
func (d Device) String() string {
	out := fmt.Sprintf("%04x:%04x %s", d.VendorID, d.ProductID, d.BaseClass)
	if d.Description != "" {
		out += " " + d.Description
	}
	if d.SerialNumber != "" {
		out += " (serial " + d.SerialNumber + ")"
	}
	return out
}

// BaseClass is a USB base class code as assigned by the USB-IF
// (https://www.usb.org/defined-class-codes).
type BaseClass uint8

// The defined base class codes.
const (
	ClassPerInterface       BaseClass = 0x00
	ClassAudio              BaseClass = 0x01
	ClassComm               BaseClass = 0x02
	ClassHID                BaseClass = 0x03
	ClassPhysical           BaseClass = 0x05
	ClassImage              BaseClass = 0x06
	ClassPrinter            BaseClass = 0x07
	ClassMassStorage        BaseClass = 0x08
	ClassHub                BaseClass = 0x09
	ClassCDCData            BaseClass = 0x0a
	ClassSmartCard          BaseClass = 0x0b
	ClassContentSecurity    BaseClass = 0x0d
	ClassVideo              BaseClass = 0x0e
	ClassPersonalHealthcare BaseClass = 0x0f
	ClassAudioVideo         BaseClass = 0x10
	ClassBillboard          BaseClass = 0x11
	ClassTypeCBridge        BaseClass = 0x12
	ClassDiagnostic         BaseClass = 0xdc
	ClassWireless           BaseClass = 0xe0
	ClassMiscellaneous      BaseClass = 0xef
	ClassApplicationSpec    BaseClass = 0xfe
	ClassVendorSpec         BaseClass = 0xff
)

var baseClassNames = map[BaseClass]string{
	ClassPerInterface:       "per-interface",
	ClassAudio:              "audio",
	ClassComm:               "communications",
	ClassHID:                "hid",
	ClassPhysical:           "physical",
	ClassImage:              "image",
	ClassPrinter:            "printer",
	ClassMassStorage:        "mass-storage",
	ClassHub:                "hub",
	ClassCDCData:            "cdc-data",
	ClassSmartCard:          "smart-card",
	ClassContentSecurity:    "content-security",
	ClassVideo:              "video",
	ClassPersonalHealthcare: "personal-healthcare",
	ClassAudioVideo:         "audio-video",
	ClassBillboard:          "billboard",
	ClassTypeCBridge:        "type-c-bridge",
	ClassDiagnostic:         "diagnostic",
	ClassWireless:           "wireless",
	ClassMiscellaneous:      "miscellaneous",
	ClassApplicationSpec:    "application-specific",
	ClassVendorSpec:         "vendor-specific",
}

// BaseClassFromByte converts a raw class byte, as read from a device
// descriptor or the OS device registry, into a BaseClass. Bytes outside the
// defined class code table are an error, not a valid class.
func BaseClassFromByte(b byte) (BaseClass, error) {
	class := BaseClass(b)
	if _, ok := baseClassNames[class]; !ok {
		return 0, errors.Errorf("unknown USB base class 0x%02x", b)
	}
	return class, nil
}

func (bc BaseClass) String() string {
	if name, ok := baseClassNames[bc]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(bc))
}

// A SearchFilter narrows which devices an enumeration returns. A nil field
// means no constraint on that identifier.
type SearchFilter struct {
	VendorID  *uint16
	ProductID *uint16
}

// NewSearchFilter returns a filter matching the given vendor and product IDs.
func NewSearchFilter(vendorID, productID uint16) SearchFilter {
	return SearchFilter{VendorID: &vendorID, ProductID: &productID}
}

func (sf SearchFilter) matches(vendorID, productID uint16) bool {
	if sf.VendorID != nil && *sf.VendorID != vendorID {
		return false
	}
	if sf.ProductID != nil && *sf.ProductID != productID {
		return false
	}
	return true
}
