package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newUploadPackageCmd() *cobra.Command {
	var flagArch string

	cmd := &cobra.Command{
		Use:   "upload-package <file.npk>",
		Short: "Upload a firmware package to the registry",
		Long:  "Stores a firmware package on the registry under the given architecture so halted update batches can be rerun.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagArch == "" {
				return errors.New("--architecture is required")
			}
			session, err := newSession()
			if err != nil {
				return err
			}
			if err := session.UploadPackageFor(cmd.Context(), flagArch, args[0]); err != nil {
				return err
			}
			fmt.Println(session.StatusLine())
			return nil
		},
	}

	cmd.Flags().StringVar(&flagArch, "architecture", "", "Architecture the package is built for")

	return cmd
}
