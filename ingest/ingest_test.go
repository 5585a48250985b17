package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProducts(t *testing.T) {
	t.Run("builds documents from records", func(t *testing.T) {
		docs, err := LoadProducts(strings.NewReader(`[
			{"title": "Red Tee", "description": "Red cotton t-shirt", "category": "Men", "sub_category": "T-Shirts", "sale_price": 250, "currency": "EGP"},
			{"title": "Blue Jeans", "sale_price": 600, "currency": "EGP"}
		]`))
		require.NoError(t, err)
		require.Len(t, docs, 2)

		assert.NotEmpty(t, docs[0].ID)
		assert.Contains(t, docs[0].Content, "Red Tee")
		assert.Contains(t, docs[0].Content, "Men / T-Shirts")
		assert.Contains(t, docs[0].Content, "Price: EGP 250.00")
		assert.Equal(t, "Red Tee", docs[0].Metadata["title"])
		assert.Equal(t, 250.0, docs[0].Metadata["sale_price"])
		assert.NotEqual(t, docs[0].ID, docs[1].ID)
	})

	t.Run("rejects records without a title", func(t *testing.T) {
		_, err := LoadProducts(strings.NewReader(`[{"sale_price": 100}]`))
		assert.Error(t, err)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := LoadProducts(strings.NewReader(`{"title": "not an array"}`))
		assert.Error(t, err)
	})
}

func TestLoadFAQs(t *testing.T) {
	t.Run("keeps question and answer together", func(t *testing.T) {
		docs, err := LoadFAQs(strings.NewReader(`[
			{"question": "What is your return policy?", "answer": "Returns are accepted within 14 days.", "source": "policy"}
		]`))
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Contains(t, docs[0].Content, "What is your return policy?")
		assert.Contains(t, docs[0].Content, "Returns are accepted within 14 days.")
		assert.Equal(t, "policy", docs[0].Metadata["source"])
	})

	t.Run("rejects incomplete entries", func(t *testing.T) {
		_, err := LoadFAQs(strings.NewReader(`[{"question": "Only a question?"}]`))
		assert.Error(t, err)
	})
}
