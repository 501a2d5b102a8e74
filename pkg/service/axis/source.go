package axis

import (
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/utils/safe"
)

//go:embed default_axes.json
var defaultAxesJSON []byte

// Source provides the raw bytes of an axis configuration
type Source interface {
	// Name identifies the source; its suffix selects the decoder
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// EmbeddedSource serves the built-in twelve-axis configuration
type EmbeddedSource struct{}

func (EmbeddedSource) Name() string { return "default_axes.json" }

func (EmbeddedSource) Read(ctx context.Context) ([]byte, error) {
	return defaultAxesJSON, nil
}

// FileSource reads an axis configuration from the local filesystem
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return s.path }

func (s *FileSource) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read axis config", goerr.V("path", s.path))
	}
	return data, nil
}

// GCSSource reads an axis configuration object from Cloud Storage
type GCSSource struct {
	client *storage.Client
	bucket string
	object string
}

// IsGCSURI reports whether location is a gs:// URI
func IsGCSURI(location string) bool {
	return strings.HasPrefix(location, "gs://")
}

// NewGCSSource creates a GCSSource from a gs://bucket/object URI
func NewGCSSource(client *storage.Client, uri string) (*GCSSource, error) {
	if client == nil {
		return nil, goerr.New("storage client is required")
	}
	if !IsGCSURI(uri) {
		return nil, goerr.New("axis config URI must start with gs://", goerr.V("uri", uri))
	}

	bucket, object, ok := strings.Cut(strings.TrimPrefix(uri, "gs://"), "/")
	if !ok || bucket == "" || object == "" {
		return nil, goerr.New("axis config URI must be gs://bucket/object", goerr.V("uri", uri))
	}

	return &GCSSource{client: client, bucket: bucket, object: object}, nil
}

func (s *GCSSource) Name() string { return "gs://" + s.bucket + "/" + s.object }

func (s *GCSSource) Read(ctx context.Context) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open axis config object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", s.object))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read axis config object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", s.object))
	}
	return data, nil
}

// Decode parses an axis configuration. Names ending in .toml are decoded as TOML,
// everything else as JSON.
func Decode(name string, data []byte) (*model.AxisConfig, error) {
	var cfg model.AxisConfig

	switch strings.ToLower(path.Ext(name)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, goerr.Wrap(err, "failed to decode TOML axis config", goerr.V("name", name))
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, goerr.Wrap(err, "failed to decode JSON axis config", goerr.V("name", name))
		}
	}

	return &cfg, nil
}
