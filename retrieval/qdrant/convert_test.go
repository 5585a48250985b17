package qdrant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	payload := toPayload("Red cotton t-shirt", map[string]any{
		"title":      "Red Tee",
		"sale_price": 299.0,
		"stock":      int64(12),
		"featured":   true,
	})

	candidate := fromPayload(payload)
	assert.Equal(t, "Red cotton t-shirt", candidate.Content)
	assert.Equal(t, "Red Tee", candidate.Metadata["title"])
	assert.Equal(t, 299.0, candidate.Metadata["sale_price"])
	assert.Equal(t, int64(12), candidate.Metadata["stock"])
	assert.Equal(t, true, candidate.Metadata["featured"])
}

func TestPayloadWithoutMetadata(t *testing.T) {
	payload := toPayload("Shipping takes 2-4 business days.", nil)
	require.NotContains(t, payload, metadataKey)

	candidate := fromPayload(payload)
	assert.Equal(t, "Shipping takes 2-4 business days.", candidate.Content)
	assert.Nil(t, candidate.Metadata)
}

func TestConfigValidation(t *testing.T) {
	t.Run("defaults fill unset fields", func(t *testing.T) {
		var cfg Config
		cfg.ApplyDefaults()
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 6334, cfg.Port)
		assert.EqualValues(t, 1536, cfg.VectorSize)
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		cfg := Config{Host: "localhost", Port: -1, VectorSize: 8}
		assert.Error(t, cfg.Validate())
	})
}
