package usb

import (
	"testing"

	"go.viam.com/test"
)

func TestBaseClassFromByte(t *testing.T) {
	for raw, expected := range map[byte]BaseClass{
		0x00: ClassPerInterface,
		0x03: ClassHID,
		0x08: ClassMassStorage,
		0x09: ClassHub,
		0xe0: ClassWireless,
		0xff: ClassVendorSpec,
	} {
		class, err := BaseClassFromByte(raw)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, class, test.ShouldEqual, expected)
	}

	for _, raw := range []byte{0x04, 0x0c, 0x13, 0x42, 0xdd, 0xf0} {
		_, err := BaseClassFromByte(raw)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "unknown USB base class")
	}
}

func TestBaseClassString(t *testing.T) {
	test.That(t, ClassHub.String(), test.ShouldEqual, "hub")
	test.That(t, BaseClass(0x42).String(), test.ShouldEqual, "unknown(0x42)")
}

func TestParseID(t *testing.T) {
	for _, tc := range []struct {
		In       string
		Expected uint16
	}{
		{"1234", 0x1234},
		{"0x1234", 0x1234},
		{"2341", 0x2341},
		{"43", 0x43},
		{"045e", 0x045e},
		{" 09\n", 0x09},
		{"ffff", 0xffff},
	} {
		id, err := ParseID(tc.In)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, id, test.ShouldEqual, tc.Expected)
	}

	for _, bad := range []string{"", "zz", "0x", "12345", "-1"} {
		_, err := ParseID(bad)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "invalid USB identifier")
	}
}

func TestSearchFilterMatches(t *testing.T) {
	vendor := uint16(0x1234)
	product := uint16(0x5678)

	test.That(t, SearchFilter{}.matches(0x1111, 0x2222), test.ShouldBeTrue)
	test.That(t, SearchFilter{VendorID: &vendor}.matches(0x1234, 0x2222), test.ShouldBeTrue)
	test.That(t, SearchFilter{VendorID: &vendor}.matches(0x1235, 0x2222), test.ShouldBeFalse)
	test.That(t, SearchFilter{ProductID: &product}.matches(0x1234, 0x5678), test.ShouldBeTrue)
	test.That(t, SearchFilter{ProductID: &product}.matches(0x1234, 0x5679), test.ShouldBeFalse)
	test.That(t, NewSearchFilter(0x1234, 0x5678).matches(0x1234, 0x5678), test.ShouldBeTrue)
	test.That(t, NewSearchFilter(0x1234, 0x5678).matches(0x1234, 0x0001), test.ShouldBeFalse)
}

func TestDeviceString(t *testing.T) {
	device := Device{
		ID:          "1-1",
		VendorID:    0x0483,
		ProductID:   0x5740,
		Description: "STM32 Virtual ComPort",
		BaseClass:   ClassComm,
	}
	test.That(t, device.String(), test.ShouldEqual, "0483:5740 communications STM32 Virtual ComPort")

	device.SerialNumber = "8D8842A34955"
	test.That(t, device.String(), test.ShouldContainSubstring, "(serial 8D8842A34955)")
}
