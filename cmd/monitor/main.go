// Package main contains a command to list attached USB devices and watch for
// connect/disconnect events.
package main

import (
	"context"
	"fmt"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/usb"
)

var logger = golog.NewDevelopmentLogger("usbmonitor")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Watch        bool   `flag:"watch,usage=keep running and report connect/disconnect events"`
	PollInterval int    `flag:"interval,default=1,usage=poll interval in seconds"`
	VendorID     string `flag:"vendor,usage=hexadecimal vendor ID filter"`
	ProductID    string `flag:"product,usage=hexadecimal product ID filter"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	observer := usb.NewObserver().WithLogger(logger)
	var filter usb.SearchFilter
	if argsParsed.VendorID != "" {
		id, err := usb.ParseID(argsParsed.VendorID)
		if err != nil {
			return err
		}
		observer = observer.WithVendorID(id)
		filter.VendorID = &id
	}
	if argsParsed.ProductID != "" {
		id, err := usb.ParseID(argsParsed.ProductID)
		if err != nil {
			return err
		}
		observer = observer.WithProductID(id)
		filter.ProductID = &id
	}
	if argsParsed.PollInterval > 0 {
		observer = observer.WithPollInterval(uint32(argsParsed.PollInterval))
	}

	if !argsParsed.Watch {
		return listDevices(filter, logger)
	}
	return watchDevices(ctx, observer, logger)
}

func listDevices(filter usb.SearchFilter, logger golog.Logger) error {
	devices, err := usb.Enumerate(filter)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		logger.Info("no usb devices found")
		return nil
	}
	for _, device := range devices {
		fmt.Println(device)
	}
	return nil
}

func watchDevices(ctx context.Context, observer usb.Observer, logger golog.Logger) (err error) {
	sub := observer.Subscribe()
	defer func() {
		err = multierr.Combine(err, sub.Close())
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub.Events():
			if !ok {
				return nil
			}
			switch event.Kind {
			case usb.EventInitial:
				logger.Infow("initial devices", "count", len(event.Devices))
				for _, device := range event.Devices {
					fmt.Println(device)
				}
			case usb.EventConnect, usb.EventDisconnect:
				logger.Infow(event.Kind.String(), "device", event.Device.String())
			}
		}
	}
}
