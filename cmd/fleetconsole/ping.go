package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the registry service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession()
			if err != nil {
				return err
			}
			if err := session.Client().Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("registry is up")
			return nil
		},
	}
}
