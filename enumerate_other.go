//go:build !linux && !darwin && !windows

package usb

import (
	"runtime"

	"github.com/pkg/errors"
)

func enumeratePlatform(filter SearchFilter) ([]Device, error) {
	return nil, errors.Errorf("usb enumeration is not supported on %s", runtime.GOOS)
}
