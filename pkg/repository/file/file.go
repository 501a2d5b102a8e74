package file

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/secmon-lab/dualscope/pkg/utils/safe"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = interfaces.ErrNotFound

// File keeps every assessment in a single JSON document. Writes go to a temporary file
// in the same directory and are renamed over the store.
type File struct {
	assessment *assessmentRepository
}

var _ interfaces.Repository = &File{}

// storeDocument is the on-disk layout: {"assessments": [...]}, newest first
type storeDocument struct {
	Assessments []*model.Assessment `json:"assessments"`
}

func New(path string) (*File, error) {
	if path == "" {
		return nil, goerr.New("store path is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create store directory", goerr.V("path", path))
		}
	}

	return &File{
		assessment: &assessmentRepository{path: path},
	}, nil
}

func (f *File) Assessment() interfaces.AssessmentRepository {
	return f.assessment
}

func (f *File) Close() error {
	return nil
}

type assessmentRepository struct {
	mu   sync.Mutex
	path string
}

// load reads the store. A missing or empty file is an empty store.
func (r *assessmentRepository) load() (*storeDocument, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &storeDocument{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read store", goerr.V("path", r.path))
	}
	if len(data) == 0 {
		return &storeDocument{}, nil
	}

	var doc storeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode store", goerr.V("path", r.path))
	}
	return &doc, nil
}

func (r *assessmentRepository) save(ctx context.Context, doc *storeDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode store")
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary store", goerr.V("path", r.path))
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		safe.Close(ctx, tmp)
		safe.Remove(ctx, tmpPath)
		return goerr.Wrap(err, "failed to write temporary store", goerr.V("path", tmpPath))
	}
	if err := tmp.Close(); err != nil {
		safe.Remove(ctx, tmpPath)
		return goerr.Wrap(err, "failed to close temporary store", goerr.V("path", tmpPath))
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		safe.Remove(ctx, tmpPath)
		return goerr.Wrap(err, "failed to replace store", goerr.V("path", r.path))
	}
	return nil
}

func (r *assessmentRepository) Put(ctx context.Context, assessment *model.Assessment) error {
	if assessment == nil || assessment.ID == "" {
		return goerr.New("assessment id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	kept := make([]*model.Assessment, 0, len(doc.Assessments)+1)
	kept = append(kept, assessment)
	for _, a := range doc.Assessments {
		if a.ID != assessment.ID {
			kept = append(kept, a)
		}
	}
	sortNewestFirst(kept)
	doc.Assessments = kept

	if err := r.save(ctx, doc); err != nil {
		return err
	}

	logging.From(ctx).Debug("assessment saved to file store",
		slog.String("path", r.path),
		slog.Int("total", len(kept)))
	return nil
}

func (r *assessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, a := range doc.Assessments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	assessments := doc.Assessments
	if assessments == nil {
		assessments = []*model.Assessment{}
	}
	sortNewestFirst(assessments)
	return assessments, nil
}

func sortNewestFirst(assessments []*model.Assessment) {
	sort.SliceStable(assessments, func(i, j int) bool {
		return assessments[i].Timestamp.After(assessments[j].Timestamp)
	})
}
