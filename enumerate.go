package usb

// Enumerate returns a snapshot of the USB devices currently attached to this
// machine that match the given filter. No matches is an empty result, not an
// error; an error means the platform's device registry could not be queried
// at all. Devices whose properties cannot be decoded are skipped.
func Enumerate(filter SearchFilter) ([]Device, error) {
	return enumerate(filter)
}

// enumerate points at the platform backend. It's a variable in case you need
// to override it during tests.
var enumerate = enumeratePlatform
