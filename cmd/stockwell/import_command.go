package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"stockwell/internal/catalog"
	"stockwell/internal/config"
	"stockwell/internal/ffmpeg"
	"stockwell/internal/identity"
	"stockwell/internal/importer"
	"stockwell/internal/journal"
	"stockwell/internal/runlock"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var overwriteFlag bool
	var subfoldersFlag bool
	var dryRunFlag bool

	cmd := &cobra.Command{
		Use:   "import [path]",
		Short: "Import a library directory into the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			root := cfg.Library.Location
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				root, err = config.ExpandPath(args[0])
				if err != nil {
					return fmt.Errorf("resolve library path: %w", err)
				}
			}
			if strings.TrimSpace(root) == "" {
				return errors.New("no library path given and library.location is not configured")
			}

			overwrite := cfg.Library.OverwriteExisting
			if cmd.Flags().Changed("overwrite-existing") {
				overwrite = overwriteFlag
			}
			subfolders := cfg.Library.ImportSubfolders
			if cmd.Flags().Changed("import-subfolders") {
				subfolders = subfoldersFlag
			}

			if dryRunFlag {
				return runDryRun(cmd, root, subfolders)
			}
			return runImport(cmd, ctx, cfg, root, overwrite, subfolders)
		},
	}

	cmd.Flags().BoolVar(&overwriteFlag, "overwrite-existing", false, "Create new versions even when the asset already has one")
	cmd.Flags().BoolVar(&subfoldersFlag, "import-subfolders", false, "Treat each subfolder of the path as its own category")
	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "List what would be imported without contacting the catalog")
	return cmd
}

func runDryRun(cmd *cobra.Command, root string, subfolders bool) error {
	plan, err := importer.Plan(root, subfolders)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows := make([][]string, 0)
	for _, entry := range plan {
		for _, unit := range entry.Units {
			frames := ""
			if unit.Kind == importer.KindSequence {
				frames = fmt.Sprintf("%d-%d", unit.FirstFrame, unit.LastFrame)
			}
			rows = append(rows, []string{entry.Category, unit.DisplayName, string(unit.Kind), frames, unit.Path})
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "Nothing to import")
		return nil
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Category", "Name", "Kind", "Frames", "Path"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

func runImport(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, root string, overwrite, subfolders bool) error {
	logger, err := ctx.newLogger()
	if err != nil {
		return err
	}

	lock, err := runlock.Acquire(cfg.Paths.LockPath)
	if err != nil {
		if errors.Is(err, runlock.ErrHeld) {
			return fmt.Errorf("%w (lock: %s)", runlock.ErrHeld, cfg.Paths.LockPath)
		}
		return err
	}
	defer lock.Release()

	store, err := journal.Open(cfg.Paths.JournalPath)
	if err != nil {
		return fmt.Errorf("open run journal: %w", err)
	}
	defer store.Close()

	login, err := identity.CurrentLogin()
	if err != nil {
		return fmt.Errorf("determine current user: %w", err)
	}

	client := catalog.NewConfiguredClient(cfg)
	imp := importer.New(
		client,
		identity.NewDirectory(client),
		ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.FFmpegBinary())),
		importer.Settings{
			ProjectID:       cfg.Catalog.ProjectID,
			LibraryStatus:   cfg.Catalog.LibraryStatus,
			PermissionGroup: cfg.Catalog.PermissionGroup,
			Login:           login,
			Thumbnails:      cfg.Transcode.Thumbnails,
		},
		logger,
		importer.WithJournal(store),
	)

	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := imp.Run(runCtx, importer.Options{
		RootDir:           root,
		OverwriteExisting: overwrite,
		ImportSubfolders:  subfolders,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !report.Authorized {
		fmt.Fprintf(out, "User %s is not allowed to import; nothing was done\n", login)
		return nil
	}

	created, skipped, failed := report.Counts()
	fmt.Fprintf(out, "Run %s finished: %d created, %d skipped, %d failed\n",
		report.RunUUID, created, skipped, failed)

	if len(report.Results) > 0 {
		rows := make([][]string, 0, len(report.Results))
		for _, result := range report.Results {
			detail := ""
			if result.Err != nil {
				detail = result.Err.Error()
			}
			rows = append(rows, []string{result.Category, result.Unit.DisplayName, string(result.Outcome), detail})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Category", "Name", "Outcome", "Detail"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
		))
	}

	return nil
}
