package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/routerfleet/FleetConsole/internal/tui"
)

func newConsoleCmd() *cobra.Command {
	var flagLogFile string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Open the interactive fleet console",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Console writer output would corrupt the alternate screen;
			// send logs to a file or drop them for the TUI's lifetime.
			if flagLogFile != "" {
				f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				log.Logger = zerolog.New(f).With().Timestamp().Logger()
			} else {
				log.Logger = zerolog.Nop()
			}

			session, err := newSession()
			if err != nil {
				return err
			}
			return tui.Run(session)
		},
	}

	cmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file while the console is open")

	return cmd
}
