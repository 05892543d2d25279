package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/naming"
)

// parsedOutput is one line of `archiver parse` output.
type parsedOutput struct {
	Path         string   `json:"path"`
	Date         string   `json:"date"`
	DateFromName bool     `json:"date_from_name"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
}

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>...",
		Short: "Show the date, description and tags read from filenames",
		Long: `Parses each filename following the archive convention and prints the
result as one JSON object per line. Files are not opened, and the tag
registry is not touched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			now := time.Now()
			for _, path := range args {
				p := naming.Parse(path, nil, now)
				tags := p.Tags
				if tags == nil {
					tags = []string{}
				}
				err := enc.Encode(parsedOutput{
					Path:         path,
					Date:         p.Date.Format(domain.DateLayout),
					DateFromName: p.DateFromName,
					Description:  p.Description,
					Tags:         tags,
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}
