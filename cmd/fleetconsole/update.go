package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	fleetconsole "github.com/routerfleet/FleetConsole"
)

func newUpdateCmd() *cobra.Command {
	var (
		flagVersion   string
		flagArch      string
		flagAll       bool
		flagPreflight bool
	)

	cmd := &cobra.Command{
		Use:   "update [ip...]",
		Short: "Sequentially update firmware on the named devices",
		Long:  "Pushes the target version to each named device in turn. A missing firmware package halts the batch; upload the package with 'fleetconsole upload-package' and rerun for the remaining devices. With --preflight the registry is asked for the package per architecture before any device is touched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagVersion == "" {
				return errors.New("--version is required")
			}
			if len(args) == 0 && !flagAll {
				return errors.New("name device ips or pass --all")
			}

			session, err := newSession()
			if err != nil {
				return err
			}
			if err := session.FetchDevices(cmd.Context()); err != nil {
				return err
			}

			var targets []fleetconsole.Device
			if flagAll {
				filter := fleetconsole.Filter{Architecture: flagArch}
				targets = filter.Visible(session.Devices())
			} else {
				for _, ip := range args {
					d, ok := session.Device(ip)
					if !ok {
						return errors.Errorf("device %s is not registered", ip)
					}
					targets = append(targets, d)
				}
			}

			if flagPreflight {
				missing, err := session.MissingPackages(cmd.Context(), targets, flagVersion)
				if err != nil {
					return errors.Wrap(err, "package pre-flight")
				}
				if len(missing) > 0 {
					return errors.Errorf(
						"package %s missing for %s; upload with 'fleetconsole upload-package' before updating",
						flagVersion, strings.Join(missing, ", "))
				}
			}

			run, err := session.RunBulkUpdate(cmd.Context(), targets, flagVersion)
			if err != nil {
				return err
			}

			statuses := session.UpdateStatuses()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, d := range run.Attempted() {
				fmt.Fprintf(w, "%s\t%s\n", d.IP, statuses[d.IP])
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if run.State == fleetconsole.BulkHalted {
				rc := run.Recovery
				return errors.Errorf(
					"batch halted: package missing for %s %s; upload it with 'fleetconsole upload-package --architecture %s <file>' and rerun (%d of %d devices processed)",
					rc.Architecture, rc.Version, rc.Architecture, run.Index+1, len(run.Devices))
			}
			fmt.Printf("Updated %d devices\n", len(run.Devices))
			return nil
		},
	}

	cmd.Flags().StringVar(&flagVersion, "version", "", "Target firmware version to push")
	cmd.Flags().StringVar(&flagArch, "arch", "", "With --all, restrict to this architecture")
	cmd.Flags().BoolVar(&flagAll, "all", false, "Update every registered device")
	cmd.Flags().BoolVar(&flagPreflight, "preflight", false, "Verify the package exists for every architecture before pushing")

	return cmd
}
