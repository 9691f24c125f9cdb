// Command genmock generates deterministic mock observation fixtures for the
// scorer and API test suites. It synthesizes station readings with realistic
// gaps (missing pollutants, explicit nulls, mixed units) and runs them
// through the actual scoring pipeline so the scored fixture matches real
// behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -model-dir models \
//	  -raw-out data/mock/observations.json \
//	  -scored-out data/mock/observations_scored.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/AshVenn/openaq-aqi-predictor/internal/model"
	"github.com/AshVenn/openaq-aqi-predictor/internal/pipeline"
	"github.com/AshVenn/openaq-aqi-predictor/internal/predict"
)

var baseDate = time.Date(2025, time.August, 11, 0, 0, 0, 0, time.UTC)

type station struct {
	id  string
	lat float64
	lon float64
}

var stations = []station{
	{id: "us-nyc-001", lat: 40.7128, lon: -74.0060},
	{id: "us-lax-014", lat: 34.0522, lon: -118.2437},
	{id: "us-chi-007", lat: 41.8781, lon: -87.6298},
	{id: "us-den-003", lat: 39.7392, lon: -104.9903},
	{id: "us-phx-009", lat: 33.4484, lon: -112.0740},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	modelDir := flag.String("model-dir", "models", "directory containing the artifact bundle")
	rawOut := flag.String("raw-out", "", "output path for raw observations fixture")
	scoredOut := flag.String("scored-out", "", "output path for scored events fixture")
	hours := flag.Int("hours", 24, "hours of observations per station")
	flag.Parse()

	if *rawOut == "" || *scoredOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -scored-out")
	}

	// Fixed clock and seed for reproducible fixtures.
	predict.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.August, 12, 6, 0, 0, 0, time.UTC),
	))
	defer predict.SetClock(nil)
	rng := rand.New(rand.NewSource(20250811))

	observations := generate(rng, *hours)
	log.Printf("generated %d observations across %d stations", len(observations), len(stations))

	artifacts, err := model.Load(model.Paths{
		Estimator:   filepath.Join(*modelDir, "estimator.json"),
		FeatureCols: filepath.Join(*modelDir, "feature_cols.json"),
		Meta:        filepath.Join(*modelDir, "model_meta.json"),
	})
	if err != nil {
		return fmt.Errorf("loading artifact bundle: %w", err)
	}

	svc := predict.New(artifacts, slog.Default())
	tfm := pipeline.NewTransformer(svc, slog.Default())

	scored := make([]pipeline.ScoredEvent, 0, len(observations))
	for i, obs := range observations {
		data, err := json.Marshal(obs)
		if err != nil {
			return fmt.Errorf("marshal observation %d: %w", i, err)
		}
		event, err := tfm.Transform(context.Background(), pipeline.RawEvent{Value: data})
		if err != nil {
			return fmt.Errorf("score observation %d: %w", i, err)
		}
		scored = append(scored, event)
	}

	if err := writeJSON(*rawOut, observations); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*scoredOut, scored); err != nil {
		return fmt.Errorf("writing scored fixture: %w", err)
	}
	log.Printf("wrote scored fixture: %s", *scoredOut)

	printStats(scored)
	return nil
}

// generate produces one observation per station per hour. Roughly a fifth of
// readings go missing and a tenth arrive as explicit nulls, mirroring the
// gap patterns real stations show. A few stations report non-canonical units.
func generate(rng *rand.Rand, hours int) []pipeline.Observation {
	observations := make([]pipeline.Observation, 0, hours*len(stations))

	for h := 0; h < hours; h++ {
		ts := baseDate.Add(time.Duration(h) * time.Hour)
		for _, st := range stations {
			obs := pipeline.Observation{
				StationID:  st.id,
				Latitude:   st.lat,
				Longitude:  st.lon,
				Timestamp:  ts,
				Pollutants: map[string]*float64{},
				Units:      map[string]string{},
			}

			addReading(rng, &obs, "pm25", 5+rng.Float64()*40)
			addReading(rng, &obs, "pm10", 10+rng.Float64()*80)
			addReading(rng, &obs, "no2", 4+rng.Float64()*40)
			addReading(rng, &obs, "o3", 0.01+rng.Float64()*0.06)
			addReading(rng, &obs, "co", 0.2+rng.Float64()*2)
			addReading(rng, &obs, "so2", 1+rng.Float64()*20)

			// A subset of stations declare units explicitly, sometimes in
			// non-canonical spellings the normalizer has to handle.
			if obs.Pollutants["no2"] != nil && rng.Intn(4) == 0 {
				ppm := *obs.Pollutants["no2"] / 1000
				obs.Pollutants["no2"] = &ppm
				obs.Units["no2"] = "ppm"
			}
			if obs.Pollutants["pm25"] != nil && rng.Intn(5) == 0 {
				obs.Units["pm25"] = "µg/m³"
			}

			if len(obs.Units) == 0 {
				obs.Units = nil
			}
			observations = append(observations, obs)
		}
	}
	return observations
}

func addReading(rng *rand.Rand, obs *pipeline.Observation, pollutant string, value float64) {
	switch r := rng.Intn(10); {
	case r < 2: // missing entirely
	case r == 2: // sensor reported null
		obs.Pollutants[pollutant] = nil
	default:
		obs.Pollutants[pollutant] = &value
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(scored []pipeline.ScoredEvent) {
	var exact, modelScored, undetermined int
	categories := map[string]int{}
	dominant := map[string]int{}

	for i := range scored {
		e := &scored[i]
		switch {
		case e.UsedModel:
			modelScored++
		case e.UsedExact:
			exact++
		default:
			undetermined++
		}
		if e.Category != "" {
			categories[e.Category]++
		}
		if e.DominantPollutant != "" {
			dominant[e.DominantPollutant]++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(scored))
	fmt.Printf("Exact: %d, model: %d, undetermined: %d\n", exact, modelScored, undetermined)
	fmt.Printf("Categories: good=%d, moderate=%d, usg=%d, unhealthy=%d\n",
		categories["Good"], categories["Moderate"],
		categories["Unhealthy for Sensitive Groups"], categories["Unhealthy"])
	fmt.Printf("Dominant: pm25=%d, pm10=%d, o3=%d, no2=%d, co=%d, so2=%d\n",
		dominant["pm25"], dominant["pm10"], dominant["o3"],
		dominant["no2"], dominant["co"], dominant["so2"])
}
