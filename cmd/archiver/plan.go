package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/pdf-archiver/internal/archive"
)

func (a *app) planCmd() *cobra.Command {
	var fields fieldFlags

	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Print where a file would be archived",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireArchiveRoot(cmd.Context()); err != nil {
				return err
			}
			doc, err := fields.document(args[0], time.Now())
			if err != nil {
				return err
			}
			p, err := archive.New(archive.WithLogger(a.log)).Plan(doc, a.cfg.ArchiveRoot)
			if err != nil {
				return fmt.Errorf("plan %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Path())
			return nil
		},
	}
	fields.register(cmd)
	return cmd
}
