package usb

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseID parses a 16-bit USB vendor or product identifier from its
// hexadecimal string form. Some sources prefix the value with "0x" and some
// pad to four digits; both are accepted.
func ParseID(id string) (uint16, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(id), "0x")
	parsed, err := strconv.ParseUint(trimmed, 16, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid USB identifier %q", id)
	}
	return uint16(parsed), nil
}
