package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/pdf-archiver/internal/archive"
	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/notify"
	"github.com/pkordes/pdf-archiver/internal/service"
)

func (a *app) archiveCmd() *cobra.Command {
	var (
		fields fieldFlags
		dryRun bool
		hidden bool
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "archive <file|dir>...",
		Short: "Rename and move PDFs into the archive",
		Long: `Archives each PDF given, walking directories for *.pdf files. Every file
is renamed to its canonical name and moved to <archive-root>/YYYY. A file
that fails stays where it is; the others are still archived. Tags of archived
files are counted in the tag database.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireArchiveRoot(ctx); err != nil {
				return err
			}

			finder := service.Discoverer{IncludeHidden: hidden}
			now := time.Now()
			var docs []domain.Document
			for _, arg := range args {
				paths, err := finder.Find(arg)
				if err != nil {
					return err
				}
				for _, p := range paths {
					doc, err := fields.document(p, now)
					if err != nil {
						return err
					}
					docs = append(docs, doc)
				}
			}
			if len(docs) == 0 {
				a.log.InfoContext(ctx, "no pdf files found", "args", args)
				return nil
			}

			archiver := archive.New(archive.WithLogger(a.log))
			out := cmd.OutOrStdout()

			if dryRun {
				for _, doc := range docs {
					p, err := archiver.Plan(doc, a.cfg.ArchiveRoot)
					if err != nil {
						fmt.Fprintf(out, "skip %s: %v\n", doc.SourcePath, err)
						continue
					}
					fmt.Fprintf(out, "%s -> %s\n", doc.SourcePath, p.Path())
				}
				return nil
			}

			if jobs <= 0 {
				jobs = a.cfg.ArchiveJobs
			}

			reg, store, closeTags, err := a.openTags(ctx)
			if err != nil {
				return err
			}
			defer closeTags()

			failed := 0
			for i, r := range archiver.ArchiveAll(ctx, docs, a.cfg.ArchiveRoot, jobs) {
				if r.Err != nil {
					failed++
					notify.NotifyError(ctx, a.notifier, r.Err)
					fmt.Fprintf(out, "failed %s: %v\n", r.Document.SourcePath, r.Err)
					continue
				}
				for _, t := range r.Document.Tags {
					reg.LookupOrCreate(t)
				}
				fmt.Fprintf(out, "%s -> %s\n", docs[i].SourcePath, r.Placement.Path())
			}

			if err := reg.Persist(ctx, store); err != nil {
				return fmt.Errorf("archive: save tags: %w", err)
			}
			if failed > 0 {
				return fmt.Errorf("archive: %d of %d documents failed", failed, len(docs))
			}
			return nil
		},
	}

	fields.register(cmd)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the planned moves without touching any file")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden files and directories when walking")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "moves to run in parallel (default ARCHIVE_JOBS)")
	return cmd
}
