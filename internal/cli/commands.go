package cli

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/raoulx24/ghe-archiver/internal/generator"
	"github.com/raoulx24/ghe-archiver/internal/retention"
)

func newArchiveCmd(opts *RootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Create a tarball from a GitHub snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(opts, nil)
			defer a.writeTextfile()

			res, err := a.worker.Archive(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "archived %s to %s\n", res.Snapshot.Root, res.Archive)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Snapshot directory to archive (default dir.snapshot)")
	return cmd
}

func newPruneCmd(opts *RootOptions) *cobra.Command {
	var dir string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete archives outside the retention windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("dry-run") {
				opts.cfg.Retention.DryRun = dryRun
			}
			a := newApp(opts, nil)
			defer a.writeTextfile()

			summary, err := a.worker.Prune(cmd.Context(), dir)
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "archives", "", "Archive directory to prune (default dir.archives)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be removed without deleting")
	return cmd
}

func printSummary(cmd *cobra.Command, s retention.Summary) {
	verb := "removed"
	if s.DryRun {
		verb = "would remove"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d files, kept %d, %s %d, failed %d, skipped %d\n",
		s.Dir,
		s.Total,
		s.Count(retention.OutcomeKeep),
		verb,
		s.Count(retention.OutcomeRemoved),
		s.Count(retention.OutcomeFailed),
		s.Count(retention.OutcomeSkipped),
	)
}

func newGenerateCmd(opts *RootOptions) *cobra.Command {
	var start, end, dir string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate fake archive files for testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := civil.ParseDate(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			to := civil.DateOf(opts.Clock.Now())
			if end != "" {
				if to, err = civil.ParseDate(end); err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
			}
			if dir == "" {
				dir = opts.cfg.Dir.Archives
			}

			a := newApp(opts, nil)
			if err := a.fs.MkdirAll(dir); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
			n, err := generator.New(opts.cfg.Codec(), a.fs, a.log).WriteFiles(from, to, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d archives in %s\n", n, dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&start, "start", "s", "", "First day to generate (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "Last day to generate (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&dir, "archives", "", "Directory to write to (default dir.archives)")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}
