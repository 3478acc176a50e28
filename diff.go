package usb

// A deviceSet is a device population keyed by full device value, so any
// field change reads as a removal plus an addition.
type deviceSet map[Device]struct{}

func newDeviceSet(devices []Device) deviceSet {
	set := make(deviceSet, len(devices))
	for _, d := range devices {
		set[d] = struct{}{}
	}
	return set
}

// diffDevices computes the population change between two polls: removed is
// every device in prev but not next, added every device in next but not prev.
// Neither result slice has a guaranteed order.
func diffDevices(prev, next deviceSet) (removed, added []Device) {
	for d := range prev {
		if _, ok := next[d]; !ok {
			removed = append(removed, d)
		}
	}
	for d := range next {
		if _, ok := prev[d]; !ok {
			added = append(added, d)
		}
	}
	return removed, added
}
