package importer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"stockwell/internal/catalog"
)

// fakeCatalog is an in-memory catalog store tracking every mutation.
type fakeCatalog struct {
	nextID       int64
	entities     map[string]map[string]*catalog.Entity // type -> code -> entity
	versions     map[int64][]catalog.Fields            // asset id -> version payloads
	uploads      []string
	thumbnails   []int64
	createCalls  map[string]int
	findOneErr   error
	createErr    error
	uploadErr    error
	versionSeeds map[int64]int // asset id -> pre-existing version count
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		entities:     map[string]map[string]*catalog.Entity{},
		versions:     map[int64][]catalog.Fields{},
		createCalls:  map[string]int{},
		versionSeeds: map[int64]int{},
	}
}

func (f *fakeCatalog) FindOne(ctx context.Context, entityType string, filters []catalog.Filter, fields []string) (*catalog.Entity, error) {
	if f.findOneErr != nil {
		return nil, f.findOneErr
	}
	switch entityType {
	case catalog.TypeVersion:
		assetID := filterRefID(filters, "entity")
		if f.versionSeeds[assetID] > 0 || len(f.versions[assetID]) > 0 {
			return &catalog.Entity{Type: catalog.TypeVersion, ID: 9000 + assetID}, nil
		}
		return nil, nil
	default:
		code := filterString(filters, "code")
		if entity, ok := f.entities[entityType][code]; ok {
			return entity, nil
		}
		return nil, nil
	}
}

func (f *fakeCatalog) Create(ctx context.Context, entityType string, data catalog.Fields) (*catalog.Entity, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createCalls[entityType]++
	f.nextID++
	entity := &catalog.Entity{Type: entityType, ID: f.nextID, Fields: data}

	if entityType == catalog.TypeVersion {
		ref, ok := data["entity"].(catalog.Ref)
		if !ok {
			return nil, errors.New("version create missing asset link")
		}
		f.versions[ref.ID] = append(f.versions[ref.ID], data)
		return entity, nil
	}

	code, _ := data["code"].(string)
	if f.entities[entityType] == nil {
		f.entities[entityType] = map[string]*catalog.Entity{}
	}
	f.entities[entityType][code] = entity
	return entity, nil
}

func (f *fakeCatalog) Upload(ctx context.Context, entityType string, id int64, path, fieldName string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("upload source missing: %w", err)
	}
	f.uploads = append(f.uploads, fmt.Sprintf("%s/%d/%s", entityType, id, fieldName))
	return nil
}

func (f *fakeCatalog) UploadThumbnail(ctx context.Context, entityType string, id int64, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("thumbnail source missing: %w", err)
	}
	f.thumbnails = append(f.thumbnails, id)
	return nil
}

func (f *fakeCatalog) versionCount() int {
	total := 0
	for _, list := range f.versions {
		total += len(list)
	}
	return total
}

func filterString(filters []catalog.Filter, field string) string {
	for _, filter := range filters {
		if filter.Field == field {
			if value, ok := filter.Value.(string); ok {
				return value
			}
		}
	}
	return ""
}

func filterRefID(filters []catalog.Filter, field string) int64 {
	for _, filter := range filters {
		if filter.Field == field {
			if ref, ok := filter.Value.(catalog.Ref); ok {
				return ref.ID
			}
		}
	}
	return 0
}

// fakeUsers is a canned identity service.
type fakeUsers struct {
	group string
	err   error
}

func (f *fakeUsers) PermissionGroup(ctx context.Context, login string) (string, error) {
	return f.group, f.err
}

// fakeEncoder writes placeholder outputs instead of invoking ffmpeg.
type fakeEncoder struct {
	failInputs  map[string]bool
	fileCalls   []string
	seqCalls    []string
	posterCalls int
}

func newFakeEncoder() *fakeEncoder {
	return &fakeEncoder{failInputs: map[string]bool{}}
}

func (f *fakeEncoder) EncodeFile(ctx context.Context, inputPath, outputPath string) error {
	f.fileCalls = append(f.fileCalls, inputPath)
	if f.shouldFail(inputPath) {
		return errors.New("encoder exit status 1")
	}
	return os.WriteFile(outputPath, []byte("proxy"), 0o644)
}

func (f *fakeEncoder) EncodeSequence(ctx context.Context, templatePath string, startFrame int, outputPath string) error {
	f.seqCalls = append(f.seqCalls, fmt.Sprintf("%s@%d", templatePath, startFrame))
	if f.shouldFail(templatePath) {
		return errors.New("encoder exit status 1")
	}
	return os.WriteFile(outputPath, []byte("proxy"), 0o644)
}

func (f *fakeEncoder) ExtractPoster(ctx context.Context, inputPath, outputPath string) error {
	f.posterCalls++
	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, image.NewRGBA(image.Rect(0, 0, 64, 36)))
}

func (f *fakeEncoder) shouldFail(input string) bool {
	for marker := range f.failInputs {
		if strings.Contains(input, marker) {
			return true
		}
	}
	return false
}

// fakeJournal captures recorder calls.
type fakeJournal struct {
	begun    int
	units    []string
	finished bool
	auth     bool
	beginErr error
}

func (f *fakeJournal) BeginRun(ctx context.Context, runUUID, rootDir string, overwrite, subfolders bool) (int64, error) {
	if f.beginErr != nil {
		return 0, f.beginErr
	}
	f.begun++
	return 77, nil
}

func (f *fakeJournal) RecordUnit(ctx context.Context, runID int64, category, displayName, kind, mediaPath, outcome, detail string) error {
	f.units = append(f.units, fmt.Sprintf("%s:%s:%s", category, displayName, outcome))
	return nil
}

func (f *fakeJournal) FinishRun(ctx context.Context, runID int64, authorized bool) error {
	f.finished = true
	f.auth = authorized
	return nil
}
