package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// ArtifactLoadError reports a missing or malformed file in the model bundle.
// It is fatal at startup: the process must refuse to serve rather than run
// with a partially loaded estimator.
type ArtifactLoadError struct {
	Path string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("load model artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error { return e.Err }

// Paths locates the three files of a model artifact bundle.
type Paths struct {
	Estimator   string
	FeatureCols string
	Meta        string
}

// Artifacts is the loaded, immutable model bundle shared by all requests.
type Artifacts struct {
	Estimator Estimator
	Schema    FeatureSchema
	Meta      Metadata
}

// Load reads and validates the artifact bundle. Called once at process
// start; any failure is an *ArtifactLoadError and the caller must not begin
// serving. The returned Artifacts are never mutated afterwards.
func Load(paths Paths) (*Artifacts, error) {
	var columns []string
	if err := readJSON(paths.FeatureCols, &columns); err != nil {
		return nil, err
	}

	var meta Metadata
	if err := readJSON(paths.Meta, &meta); err != nil {
		return nil, err
	}

	// The column list file is authoritative; fall back to the metadata copy
	// when it is present but empty (older training runs wrote only the meta).
	if len(columns) == 0 {
		columns = meta.Features
	}
	if len(columns) == 0 {
		return nil, &ArtifactLoadError{Path: paths.FeatureCols, Err: fmt.Errorf("no feature columns declared")}
	}

	var artifact estimatorArtifact
	if err := readJSON(paths.Estimator, &artifact); err != nil {
		return nil, err
	}
	if artifact.Type != "linear" {
		return nil, &ArtifactLoadError{Path: paths.Estimator, Err: fmt.Errorf("unsupported estimator type %q", artifact.Type)}
	}

	estimator, err := newLinearEstimator(artifact, columns)
	if err != nil {
		return nil, &ArtifactLoadError{Path: paths.Estimator, Err: err}
	}

	fallbacks := meta.Fallbacks
	if fallbacks == nil {
		fallbacks = map[string]float64{}
	}

	return &Artifacts{
		Estimator: estimator,
		Schema:    FeatureSchema{Columns: columns, Fallbacks: fallbacks},
		Meta:      meta,
	}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ArtifactLoadError{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &ArtifactLoadError{Path: path, Err: err}
	}
	return nil
}
