package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	fleetconsole "github.com/routerfleet/FleetConsole"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [ip...]",
		Short: "Re-probe device facts in one server-side batch",
		Long:  "Asks the registry to re-read architecture and installed version from the named devices, or from the whole fleet when no ips are given. Unknown ips fail before anything is sent.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession()
			if err != nil {
				return err
			}
			if err := session.FetchDevices(cmd.Context()); err != nil {
				return err
			}

			var summary *fleetconsole.RefreshSummary
			if len(args) > 0 {
				summary, err = session.RefreshNamed(cmd.Context(), args)
			} else {
				summary, err = session.RefreshDevices(cmd.Context(), false)
			}
			if err != nil {
				return err
			}

			statuses := session.RefreshStatuses()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, d := range session.Devices() {
				if status, ok := statuses[d.IP]; ok {
					fmt.Fprintf(w, "%s\t%s\n", d.IP, status)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Println(summary)
			return nil
		},
	}
}
