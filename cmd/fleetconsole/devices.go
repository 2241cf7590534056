package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	fleetconsole "github.com/routerfleet/FleetConsole"
)

func newDevicesCmd() *cobra.Command {
	var (
		flagArch    string
		flagVersion string
		flagSearch  string
		flagJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List fleet devices from the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession()
			if err != nil {
				return err
			}
			if err := session.FetchDevices(cmd.Context()); err != nil {
				return err
			}
			filter := fleetconsole.Filter{
				Architecture: flagArch,
				Version:      flagVersion,
				Search:       flagSearch,
			}
			devices := filter.Visible(session.Devices())

			if flagJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(devices)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "IP\tUSER\tARCH\tVERSION")
			for _, d := range devices {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.IP, d.Username, d.Architecture, d.CurrentVersion)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&flagArch, "arch", "", "Only devices with this architecture")
	cmd.Flags().StringVar(&flagVersion, "version", "", "Only devices with this current version")
	cmd.Flags().StringVar(&flagSearch, "search", "", "Substring search across ip, username, architecture and version")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Emit the device list as JSON")

	return cmd
}
