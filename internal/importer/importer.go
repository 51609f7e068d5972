package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"stockwell/internal/catalog"
	"stockwell/internal/ffmpeg"
	"stockwell/internal/identity"
	"stockwell/internal/logging"
	"stockwell/internal/preview"
)

const (
	adminGroup   = "Admin"
	assetType    = "Library"
	reviewStatus = "vwd"
)

// Settings carries the static values for every run of this importer.
type Settings struct {
	ProjectID       int64
	LibraryStatus   string
	PermissionGroup string
	Login           string
	Thumbnails      bool
}

// Options selects behaviour for a single run.
type Options struct {
	RootDir           string
	OverwriteExisting bool
	ImportSubfolders  bool
}

// Journal records run history. All methods are best-effort from the
// importer's point of view; journal failures never abort a run.
type Journal interface {
	BeginRun(ctx context.Context, runUUID, rootDir string, overwriteExisting, importSubfolders bool) (int64, error)
	RecordUnit(ctx context.Context, runID int64, category, displayName, kind, mediaPath, outcome, detail string) error
	FinishRun(ctx context.Context, runID int64, authorized bool) error
}

// RunReport aggregates what a run did.
type RunReport struct {
	RunUUID    string
	RootDir    string
	Authorized bool
	Results    []UnitResult
}

// Counts tallies the results per outcome.
func (r *RunReport) Counts() (created, skipped, failed int) {
	for _, result := range r.Results {
		switch result.Outcome {
		case OutcomeCreated:
			created++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	return created, skipped, failed
}

// Importer runs library imports. Construct with New.
type Importer struct {
	store    catalog.Service
	users    identity.Service
	encoder  ffmpeg.Client
	journal  Journal
	logger   *slog.Logger
	settings Settings
}

// Option configures an Importer.
type Option func(*Importer)

// WithJournal attaches a run history recorder.
func WithJournal(j Journal) Option {
	return func(imp *Importer) {
		if j != nil {
			imp.journal = j
		}
	}
}

// New constructs an importer over the given collaborators.
func New(store catalog.Service, users identity.Service, encoder ffmpeg.Client, settings Settings, logger *slog.Logger, opts ...Option) *Importer {
	if logger == nil {
		logger = logging.NewNop()
	}
	imp := &Importer{
		store:    store,
		users:    users,
		encoder:  encoder,
		journal:  nopJournal{},
		logger:   logging.WithComponent(logger, "importer"),
		settings: settings,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Run executes one import over a static directory snapshot. Catalog errors
// abort the run and are returned alongside the partial report; a permission
// mismatch ends the run cleanly with Authorized unset.
func (imp *Importer) Run(ctx context.Context, opts Options) (*RunReport, error) {
	report := &RunReport{RunUUID: uuid.NewString(), RootDir: opts.RootDir}
	logger := imp.logger.With(logging.String(logging.FieldRunID, report.RunUUID))

	rec := newRecorder(imp.journal, logger)
	rec.begin(ctx, report.RunUUID, opts)
	defer func() { rec.finish(ctx, report.Authorized) }()

	group, err := imp.users.PermissionGroup(ctx, imp.settings.Login)
	if err != nil {
		return report, fmt.Errorf("permission lookup: %w", err)
	}
	if group != adminGroup && group != imp.settings.PermissionGroup {
		logger.Warn("user is not allowed to start importing",
			logging.String("login", imp.settings.Login),
			logging.String("group", group))
		return report, nil
	}
	report.Authorized = true
	logger.Info("user is allowed to start importing", logging.String("login", imp.settings.Login))

	if opts.ImportSubfolders {
		logger.Info("importing subfolders is active; the complete library will be imported")
	}
	roots, err := expandRoots(opts.RootDir, opts.ImportSubfolders)
	if err != nil {
		return report, err
	}

	for _, root := range roots {
		if err := imp.importCategory(ctx, logger, rec, report, root, opts.OverwriteExisting); err != nil {
			return report, err
		}
	}

	logger.Info("done importing")
	return report, nil
}

func (imp *Importer) importCategory(ctx context.Context, logger *slog.Logger, rec *recorder, report *RunReport, root string, overwrite bool) error {
	name := filepath.Base(root)
	logger = logger.With(logging.String(logging.FieldCategory, name))
	logger.Info("executing import", logging.String("path", root))

	projectRef := imp.projectRef()
	category, created, err := catalog.FindOrCreate(ctx, imp.store, catalog.TypeCategory,
		[]catalog.Filter{
			catalog.Is("project", projectRef),
			catalog.Is("code", name),
		},
		catalog.Fields{
			"project":        projectRef,
			"code":           name,
			"description":    underscoresToSpaces(name),
			"sg_status_list": imp.settings.LibraryStatus,
		})
	if err != nil {
		return fmt.Errorf("resolve category %s: %w", name, err)
	}
	if created {
		logger.Info("created new category", logging.Int64("id", category.ID))
	} else {
		logger.Info("found existing category, adding stock to it", logging.Int64("id", category.ID))
	}

	units, err := collectUnits(root)
	if err != nil {
		return fmt.Errorf("walk category %s: %w", name, err)
	}

	for _, unit := range units {
		result, err := imp.processUnit(ctx, logger, category, name, unit, overwrite)
		if err != nil {
			return err
		}
		report.Results = append(report.Results, result)
		rec.unit(ctx, result)
	}
	return nil
}

func (imp *Importer) processUnit(ctx context.Context, logger *slog.Logger, category *catalog.Entity, categoryName string, unit MediaUnit, overwrite bool) (UnitResult, error) {
	result := UnitResult{Unit: unit, Category: categoryName}
	logger = logger.With(logging.String(logging.FieldUnit, unit.DisplayName))

	projectRef := imp.projectRef()
	asset, created, err := catalog.FindOrCreate(ctx, imp.store, catalog.TypeAsset,
		[]catalog.Filter{
			catalog.Is("project", projectRef),
			catalog.Is("sequences", category.Ref()),
			catalog.Is("code", unit.DisplayName),
		},
		catalog.Fields{
			"project":        projectRef,
			"sequences":      []catalog.Ref{category.Ref()},
			"code":           unit.DisplayName,
			"sg_asset_type":  assetType,
			"description":    underscoresToSpaces(unit.DisplayName),
			"sg_status_list": imp.settings.LibraryStatus,
		})
	if err != nil {
		return result, fmt.Errorf("resolve asset %s: %w", unit.DisplayName, err)
	}
	if created {
		logger.Info("created library asset")
	} else {
		logger.Info("found existing library asset, adding version to it")
	}

	if !overwrite {
		existing, err := imp.store.FindOne(ctx, catalog.TypeVersion,
			[]catalog.Filter{
				catalog.Is("project", projectRef),
				catalog.Is("entity", asset.Ref()),
			}, nil)
		if err != nil {
			return result, fmt.Errorf("check existing versions for %s: %w", unit.DisplayName, err)
		}
		if existing != nil {
			result.Outcome = OutcomeSkipped
			logger.Info("skipping, version exists already")
			return result, nil
		}
	}

	version, err := imp.createVersion(ctx, asset, unit)
	if err != nil {
		return result, fmt.Errorf("create version for %s: %w", unit.DisplayName, err)
	}
	logger.Info("created version", logging.Int64("id", version.ID))

	if err := imp.produceProxy(ctx, logger, version.ID, unit); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		logger.Error("proxy creation failed", logging.Error(err))
		return result, nil
	}

	result.Outcome = OutcomeCreated
	return result, nil
}

func (imp *Importer) createVersion(ctx context.Context, asset *catalog.Entity, unit MediaUnit) (*catalog.Entity, error) {
	data := catalog.Fields{
		"project":        imp.projectRef(),
		"code":           unit.DisplayName,
		"description":    underscoresToSpaces(unit.DisplayName),
		"sg_status_list": reviewStatus,
		"entity":         asset.Ref(),
	}
	switch unit.Kind {
	case KindSequence:
		data["sg_path_to_frames"] = unit.Path
		data["sg_first_frame"] = unit.FirstFrame
		data["sg_last_frame"] = unit.LastFrame
	case KindFile:
		data["sg_path_to_movie"] = unit.Path
	default:
		return nil, fmt.Errorf("%w (unit %s)", ErrNoKind, unit.DisplayName)
	}
	return imp.store.Create(ctx, catalog.TypeVersion, data)
}

func (imp *Importer) produceProxy(ctx context.Context, logger *slog.Logger, versionID int64, unit MediaUnit) error {
	if unit.Kind != KindSequence && unit.Kind != KindFile {
		return fmt.Errorf("%w (unit %s)", ErrNoKind, unit.DisplayName)
	}

	workspace, err := preview.NewWorkspace()
	if err != nil {
		return err
	}
	defer workspace.Cleanup()

	proxyPath := workspace.MoviePath(unit.DisplayName)
	switch unit.Kind {
	case KindSequence:
		err = imp.encoder.EncodeSequence(ctx, unit.Path, unit.FirstFrame, proxyPath)
	case KindFile:
		err = imp.encoder.EncodeFile(ctx, unit.Path, proxyPath)
	}
	if err != nil {
		return fmt.Errorf("transcode: %w", err)
	}

	if err := imp.store.Upload(ctx, catalog.TypeVersion, versionID, proxyPath, catalog.FieldUploadedMovie); err != nil {
		return fmt.Errorf("upload proxy: %w", err)
	}
	logger.Info("uploaded transcoded movie")

	if imp.settings.Thumbnails {
		if err := imp.uploadThumbnail(ctx, versionID, proxyPath, workspace); err != nil {
			logger.Warn("thumbnail upload failed", logging.Error(err))
		}
	}
	return nil
}

func (imp *Importer) uploadThumbnail(ctx context.Context, versionID int64, proxyPath string, workspace *preview.Workspace) error {
	posterPath := workspace.PosterPath()
	if err := imp.encoder.ExtractPoster(ctx, proxyPath, posterPath); err != nil {
		return fmt.Errorf("extract poster: %w", err)
	}
	thumbPath := workspace.ThumbnailPath()
	if err := preview.WriteThumbnail(posterPath, thumbPath); err != nil {
		return err
	}
	return imp.store.UploadThumbnail(ctx, catalog.TypeVersion, versionID, thumbPath)
}

func (imp *Importer) projectRef() catalog.Ref {
	return catalog.Ref{Type: "Project", ID: imp.settings.ProjectID}
}

func underscoresToSpaces(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}

// recorder shields the run from journal failures.
type recorder struct {
	journal Journal
	logger  *slog.Logger
	runID   int64
	active  bool
}

func newRecorder(journal Journal, logger *slog.Logger) *recorder {
	return &recorder{journal: journal, logger: logger}
}

func (r *recorder) begin(ctx context.Context, runUUID string, opts Options) {
	id, err := r.journal.BeginRun(ctx, runUUID, opts.RootDir, opts.OverwriteExisting, opts.ImportSubfolders)
	if err != nil {
		r.logger.Warn("journal unavailable; run will not be recorded", logging.Error(err))
		return
	}
	r.runID = id
	r.active = true
}

func (r *recorder) unit(ctx context.Context, result UnitResult) {
	if !r.active {
		return
	}
	detail := ""
	if result.Err != nil {
		detail = result.Err.Error()
	}
	if result.Outcome == OutcomeSkipped {
		detail = "version exists"
	}
	err := r.journal.RecordUnit(ctx, r.runID, result.Category, result.Unit.DisplayName,
		string(result.Unit.Kind), result.Unit.Path, string(result.Outcome), detail)
	if err != nil {
		r.logger.Warn("journal write failed", logging.Error(err))
	}
}

func (r *recorder) finish(ctx context.Context, authorized bool) {
	if !r.active {
		return
	}
	if err := r.journal.FinishRun(ctx, r.runID, authorized); err != nil {
		r.logger.Warn("journal finish failed", logging.Error(err))
	}
}

type nopJournal struct{}

func (nopJournal) BeginRun(context.Context, string, string, bool, bool) (int64, error) {
	return 0, nil
}

func (nopJournal) RecordUnit(context.Context, int64, string, string, string, string, string, string) error {
	return nil
}

func (nopJournal) FinishRun(context.Context, int64, bool) error { return nil }
