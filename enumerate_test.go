package usb

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestEnumerate(t *testing.T) {
	backend := installBackend(t, fakeResult{devices: []Device{devA, devB}})

	vendor := devA.VendorID
	devices, err := Enumerate(SearchFilter{VendorID: &vendor})
	test.That(t, err, test.ShouldBeNil)
	assertSameDevices(t, devices, []Device{devA, devB})

	filter := backend.lastFilter()
	test.That(t, filter.VendorID, test.ShouldNotBeNil)
	test.That(t, *filter.VendorID, test.ShouldEqual, vendor)
}

func TestEnumerateError(t *testing.T) {
	installBackend(t, fakeResult{err: errors.New("no usb subsystem")})

	_, err := Enumerate(SearchFilter{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no usb subsystem")
}
