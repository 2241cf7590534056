package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	fleetconsole "github.com/routerfleet/FleetConsole"
	"github.com/routerfleet/FleetConsole/internal/sheet"
)

func newImportCmd() *cobra.Command {
	var flagCommit bool

	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Import devices from a spreadsheet",
		Long:  "Parses the workbook into device candidates and previews them. With --commit the candidates are registered in one bulk request and per-row outcomes are printed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := sheet.ParseFile(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "IP\tUSER\tARCH\tVERSION")
			for _, d := range devices {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.IP, d.Username, d.Architecture, d.CurrentVersion)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !flagCommit {
				fmt.Printf("%d candidate devices; rerun with --commit to register them\n", len(devices))
				return nil
			}

			session, err := newSession()
			if err != nil {
				return err
			}
			session.SetImportPreview(devices)
			results, err := session.CommitImport(cmd.Context())
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Status == fleetconsole.ImportStatusSuccess {
					fmt.Printf("%s: imported\n", r.IP)
					continue
				}
				failed++
				fmt.Printf("%s: %s\n", r.IP, r.Error)
			}
			if failed > 0 {
				return errors.Errorf("%d of %d rows failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagCommit, "commit", false, "Register the parsed devices with the registry")

	return cmd
}
