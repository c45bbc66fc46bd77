package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Alia5/padlink/connector"
)

// Devices lists bonded devices and marks the one run would connect to.
type Devices struct {
	Link    LinkConfig    `embed:"" prefix:"link."`
	Timeout time.Duration `help:"Enumeration timeout" default:"5s"`
}

func (d *Devices) Run(logger *slog.Logger) error {
	deps, release, err := d.Link.deps(logger)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
	defer cancel()
	devices, err := deps.Enumerator.BondedDevices(ctx)
	if err != nil {
		return err
	}
	return printDevices(os.Stdout, devices, d.Link.NameFilter, d.Link.ServiceUUID)
}

func printDevices(w io.Writer, devices []connector.Device, filter, uuid string) error {
	if len(devices) == 0 {
		_, err := fmt.Fprintln(w, "no bonded devices")
		return err
	}
	target, ok := connector.Select(devices, filter)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tADDRESS\tSPP")
	for _, dev := range devices {
		mark := ""
		if ok && dev.Address == target.Address && dev.Name == target.Name {
			mark = "*"
		}
		spp := "?"
		if len(dev.UUIDs) > 0 {
			spp = "no"
			if dev.HasService(uuid) {
				spp = "yes"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, dev.Name, dev.Address, spp)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !ok {
		_, err := fmt.Fprintf(w, "no device matches %q\n", strings.TrimSpace(filter))
		return err
	}
	return nil
}
