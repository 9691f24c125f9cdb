// Command validate performs end-to-end integrity checks across the scoring
// stack: the artifact bundle, the breakpoint tables, and the mock fixtures.
// It verifies that the bundle loads, that every feature column is resolvable,
// that sub-index computation is monotonic, and that the scored fixture
// matches what the pipeline produces today.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -model-dir models \
//	  -raw-json data/mock/observations.json \
//	  -scored-json data/mock/observations_scored.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/AshVenn/openaq-aqi-predictor/internal/domain"
	"github.com/AshVenn/openaq-aqi-predictor/internal/model"
	"github.com/AshVenn/openaq-aqi-predictor/internal/pipeline"
	"github.com/AshVenn/openaq-aqi-predictor/internal/predict"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	modelDir := flag.String("model-dir", "models", "directory containing the artifact bundle")
	rawJSON := flag.String("raw-json", "", "path to raw observations fixture")
	scoredJSON := flag.String("scored-json", "", "path to scored events fixture")
	flag.Parse()

	if *rawJSON == "" || *scoredJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*modelDir, *rawJSON, *scoredJSON); code != 0 {
		os.Exit(code)
	}
}

func run(modelDir, rawPath, scoredPath string) int {
	// Fixed clock matching genmock so regenerated events line up.
	predict.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.August, 12, 6, 0, 0, 0, time.UTC),
	))
	defer predict.SetClock(nil)

	fmt.Println("=== AQI Scoring Integrity Validation ===")
	fmt.Println()

	artifacts, err := model.Load(model.Paths{
		Estimator:   filepath.Join(modelDir, "estimator.json"),
		FeatureCols: filepath.Join(modelDir, "feature_cols.json"),
		Meta:        filepath.Join(modelDir, "model_meta.json"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load artifact bundle: %v\n", err)
		return 1
	}

	observations, err := loadJSON[pipeline.Observation](rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw fixture: %v\n", err)
		return 1
	}

	scored, err := loadJSON[pipeline.ScoredEvent](scoredPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load scored fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateBundle(artifacts),
		validateSubIndexMonotonicity(),
		validateFixtureScoring(artifacts, observations, scored),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-46s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw observations, %d scored events, %d feature columns\n",
		len(observations), len(scored), len(artifacts.Schema.Columns))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Artifact Bundle ──
// Validates schema columns, metadata pollutants, and fallback keys.

func validateBundle(artifacts *model.Artifacts) *phase {
	p := &phase{name: "Phase 1: Artifact Bundle (schema + metadata)"}

	for _, name := range artifacts.Meta.InputPollutants {
		if _, err := domain.ParsePollutant(name); err != nil {
			p.errorf("metadata input pollutant %q is not a supported pollutant", name)
		}
	}

	for key := range artifacts.Schema.Fallbacks {
		found := false
		for _, col := range artifacts.Schema.Columns {
			if col == key {
				found = true
				break
			}
		}
		if !found {
			p.errorf("fallback %q does not match any feature column", key)
		}
	}

	// Every column must resolve when all pollutants are present: assemble a
	// complete synthetic record and let the resolver flag anything unknown
	// that also has no fallback.
	record := completeRecord(p)
	ts := time.Date(2025, time.August, 11, 12, 0, 0, 0, time.UTC)
	if _, err := model.Assemble(record, 40.0, -75.0, ts, artifacts.Schema); err != nil {
		p.errorf("assemble with complete readings failed: %v", err)
	}

	known := map[string]bool{
		"hour": true, "day_of_week": true, "month": true,
		"latitude": true, "longitude": true,
	}
	for _, col := range artifacts.Schema.Columns {
		if _, ok := model.PollutantColumn(col); ok {
			continue
		}
		if strings.HasSuffix(col, "_is_missing") || known[col] {
			continue
		}
		if _, ok := artifacts.Schema.Fallbacks[col]; !ok {
			p.errorf("column %q is neither derivable nor covered by a fallback", col)
		}
	}

	return p
}

func completeRecord(p *phase) domain.CanonicalRecord {
	one := 1.0
	readings := map[domain.Pollutant]domain.Reading{}
	for _, pol := range domain.Pollutants() {
		readings[pol] = domain.Reading{Concentration: &one}
	}
	record, err := domain.Normalize(readings)
	if err != nil {
		p.errorf("normalize synthetic readings: %v", err)
	}
	return record
}

// ── Phase 2: Sub-Index Monotonicity ──
// Sweeps each pollutant's concentration range and verifies the sub-index
// never decreases, including across tier boundaries and into extrapolation.

func validateSubIndexMonotonicity() *phase {
	p := &phase{name: "Phase 2: Sub-Index Monotonicity (breakpoints)"}

	sweeps := map[domain.Pollutant]struct{ max, step float64 }{
		domain.PM25: {700, 0.1},
		domain.PM10: {700, 1},
		domain.O3:   {0.7, 0.001},
		domain.CO:   {60, 0.1},
		domain.SO2:  {1200, 1},
		domain.NO2:  {2500, 1},
	}

	for pol, sweep := range sweeps {
		prev := -1.0
		for c := 0.0; c <= sweep.max; c += sweep.step {
			sub, err := domain.SubIndex(pol, c)
			if err != nil {
				p.errorf("%s at %g: %v", pol, c, err)
				break
			}
			if sub.Value < prev {
				p.errorf("%s: sub-index decreased from %g to %g at concentration %g", pol, prev, sub.Value, c)
				break
			}
			prev = sub.Value
		}
	}

	return p
}

// ── Phase 3: Fixture Scoring ──
// Re-runs the scoring pipeline on the raw fixture and compares with the
// scored fixture by observation ID.

func validateFixtureScoring(artifacts *model.Artifacts, observations []pipeline.Observation, scored []pipeline.ScoredEvent) *phase {
	p := &phase{name: "Phase 3: Fixture Scoring (raw vs scored)"}

	scoredByID := map[string]*pipeline.ScoredEvent{}
	for i := range scored {
		if scored[i].ID == "" {
			p.errorf("scored record %d: missing ID", i)
			continue
		}
		scoredByID[scored[i].ID] = &scored[i]
	}

	svc := predict.New(artifacts, slog.Default())
	tfm := pipeline.NewTransformer(svc, slog.Default())

	for i, obs := range observations {
		data, err := json.Marshal(obs)
		if err != nil {
			p.errorf("observation %d: marshal: %v", i, err)
			continue
		}
		fresh, err := tfm.Transform(context.Background(), pipeline.RawEvent{Value: data})
		if err != nil {
			p.errorf("observation %d: score: %v", i, err)
			continue
		}

		existing, ok := scoredByID[fresh.ID]
		if !ok {
			p.errorf("observation %d (%s): ID %q not found in scored fixture", i, obs.StationID, fresh.ID)
			continue
		}

		compareEvents(p, fresh, existing)
	}

	return p
}

func compareEvents(p *phase, fresh pipeline.ScoredEvent, existing *pipeline.ScoredEvent) {
	id := fresh.ID

	if existing.StationID != fresh.StationID {
		p.errorf("ID %s: station: expected %q, got %q", id, fresh.StationID, existing.StationID)
	}
	if existing.UsedModel != fresh.UsedModel || existing.UsedExact != fresh.UsedExact {
		p.errorf("ID %s: scoring path changed: expected model=%t exact=%t, got model=%t exact=%t",
			id, fresh.UsedModel, fresh.UsedExact, existing.UsedModel, existing.UsedExact)
	}
	if !ptrFloatEq(existing.AQI, fresh.AQI) {
		p.errorf("ID %s: aqi: expected %s, got %s", id, ptrFloat(fresh.AQI), ptrFloat(existing.AQI))
	}
	if !ptrFloatEq(existing.ExactAQI, fresh.ExactAQI) {
		p.errorf("ID %s: exact aqi: expected %s, got %s", id, ptrFloat(fresh.ExactAQI), ptrFloat(existing.ExactAQI))
	}
	if existing.Category != fresh.Category {
		p.errorf("ID %s: category: expected %q, got %q", id, fresh.Category, existing.Category)
	}
	if existing.DominantPollutant != fresh.DominantPollutant {
		p.errorf("ID %s: dominant: expected %q, got %q", id, fresh.DominantPollutant, existing.DominantPollutant)
	}
	if len(existing.SubIndices) != len(fresh.SubIndices) {
		p.errorf("ID %s: sub-index count: expected %d, got %d", id, len(fresh.SubIndices), len(existing.SubIndices))
	}
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptrFloatEq(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return floatEq(*a, *b)
}

func ptrFloat(f *float64) string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%g", *f)
}
