package usb

// EventKind discriminates the kinds of events an Observer reports.
type EventKind int

// The kinds of events.
const (
	// EventInitial is delivered exactly once per subscription, before any
	// other event, and carries the device population found by the first
	// enumeration. An empty population is still delivered.
	EventInitial EventKind = iota
	// EventConnect reports a device present in this poll but not the last.
	EventConnect
	// EventDisconnect reports a device present in the last poll but not
	// this one.
	EventDisconnect
)

func (k EventKind) String() string {
	switch k {
	case EventConnect:
		return "connect"
	case EventDisconnect:
		return "disconnect"
	case EventInitial:
		fallthrough
	default:
		return "initial"
	}
}

// An Event is one observed change to the device population. Events are
// immutable once constructed.
type Event struct {
	Kind EventKind

	// Device is set for connect and disconnect events.
	Device Device

	// Devices is the full population snapshot carried by the initial event.
	Devices []Device
}
