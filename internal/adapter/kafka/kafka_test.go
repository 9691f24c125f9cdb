package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshVenn/openaq-aqi-predictor/internal/pipeline"
	"github.com/AshVenn/openaq-aqi-predictor/internal/predict"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"station_id":"us-nyc-001"}`),
		Topic:     "raw-observations",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("openaq")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"station_id":"us-nyc-001"}`, string(raw.Value))
	assert.Equal(t, "raw-observations", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "openaq", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	scoredAt := time.Date(2025, time.August, 11, 14, 5, 0, 0, time.UTC)
	aqi := 52.0

	event := pipeline.ScoredEvent{
		ID:        "obs-1",
		StationID: "us-nyc-001",
		Result: predict.Result{
			RequestID:         "req-1",
			AQI:               &aqi,
			Category:          "Moderate",
			DominantPollutant: "pm25",
			UsedExact:         true,
			GeneratedAt:       scoredAt,
		},
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("obs-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"station_id":"us-nyc-001"`)
	assert.Contains(t, string(msg.Value), `"dominant_pollutant":"pm25"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "dominant_pollutant", msg.Headers[0].Key)
	assert.Equal(t, []byte("pm25"), msg.Headers[0].Value)
	assert.Equal(t, "scored_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2025-08-11T14:05:00Z"), msg.Headers[1].Value)
}

func TestSerializeToMessage_NoDominantPollutant(t *testing.T) {
	event := pipeline.ScoredEvent{
		ID: "obs-2",
		Result: predict.Result{
			RequestID:   "req-2",
			GeneratedAt: time.Date(2025, time.August, 11, 14, 5, 0, 0, time.UTC),
		},
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "scored_at", msg.Headers[0].Key)
}
