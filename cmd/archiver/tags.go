package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/repo"
	"github.com/pkordes/pdf-archiver/internal/service"
)

func (a *app) tagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags [prefix]",
		Short: "List known tags, optionally filtered by prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return a.withTags(cmd, func(svc *service.TagService) error {
				all := domain.PaginationParams{Page: 1, Limit: math.MaxInt}
				tags, _, err := svc.List(cmd.Context(), prefix, all)
				if err != nil {
					return err
				}
				printTags(cmd, tags)
				return nil
			})
		},
	}

	cmd.AddCommand(a.tagsExportCmd(), a.tagsImportCmd(), a.tagsReindexCmd())
	return cmd
}

func (a *app) tagsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the tag registry as YAML to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTags(cmd, func(svc *service.TagService) error {
				tags := svc.All(cmd.Context())
				if len(args) == 0 {
					return repo.EncodeTagsYAML(cmd.OutOrStdout(), tags)
				}
				if err := repo.NewYAMLTagFile(args[0]).SetTagList(cmd.Context(), tags); err != nil {
					return fmt.Errorf("tags export: %w", err)
				}
				a.log.InfoContext(cmd.Context(), "tags exported", "file", args[0], "tags", len(tags))
				return nil
			})
		},
	}
}

func (a *app) tagsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Add the tags from a YAML tag file to the registry",
		Long: `Reads a tag file as written by "tags export". Tags already in the
registry keep their current count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := repo.NewYAMLTagFile(args[0]).GetTagList(cmd.Context())
			if err != nil {
				return fmt.Errorf("tags import: %w", err)
			}
			return a.withTags(cmd, func(svc *service.TagService) error {
				added, err := svc.Import(cmd.Context(), tags)
				if err != nil {
					return fmt.Errorf("tags import: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d tags\n", added, len(tags))
				return nil
			})
		},
	}
}

func (a *app) tagsReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild tag counts from the files in the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireArchiveRoot(cmd.Context()); err != nil {
				return err
			}
			return a.withTags(cmd, func(svc *service.TagService) error {
				tags, err := svc.Reindex(cmd.Context())
				if err != nil {
					return fmt.Errorf("tags reindex: %w", err)
				}
				printTags(cmd, tags)
				return nil
			})
		},
	}
}

// withTags opens the tag store for the duration of fn.
func (a *app) withTags(cmd *cobra.Command, fn func(*service.TagService) error) error {
	reg, store, closeTags, err := a.openTags(cmd.Context())
	if err != nil {
		return err
	}
	defer closeTags()
	return fn(service.NewTagService(reg, store, a.cfg.ArchiveRoot))
}

func printTags(cmd *cobra.Command, tags []domain.Tag) {
	for _, t := range tags {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", t.Name, t.Count)
	}
}
