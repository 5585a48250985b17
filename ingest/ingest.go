// Package ingest loads product and FAQ records from JSON and writes them into
// the vector store. The workflow engine never writes to retrieval storage;
// this package is the only write path.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/hupe1980/shopflow/embedding"
	"github.com/hupe1980/shopflow/logging"
	"github.com/hupe1980/shopflow/retrieval/qdrant"
)

// DefaultBatchSize is the number of documents embedded and upserted per
// round trip.
const DefaultBatchSize = 64

// ProductRecord is one product row in the source JSON.
type ProductRecord struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	SubCategory   string  `json:"sub_category"`
	SalePrice     float64 `json:"sale_price"`
	OriginalPrice float64 `json:"original_price"`
	Currency      string  `json:"currency"`
	URL           string  `json:"product_url"`
}

// FAQRecord is one FAQ entry in the source JSON.
type FAQRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Source   string `json:"source"`
}

// LoadProducts decodes a JSON array of product records and converts them into
// documents ready for upsert. Records without a title are rejected.
func LoadProducts(r io.Reader) ([]qdrant.Document, error) {
	var records []ProductRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode product records: %w", err)
	}

	docs := make([]qdrant.Document, 0, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.Title) == "" {
			return nil, fmt.Errorf("product record %d: missing title", i)
		}
		docs = append(docs, qdrant.Document{
			ID:      uuid.NewString(),
			Content: productContent(rec),
			Metadata: map[string]any{
				"title":        rec.Title,
				"category":     rec.Category,
				"sub_category": rec.SubCategory,
				"sale_price":   rec.SalePrice,
				"currency":     rec.Currency,
				"product_url":  rec.URL,
			},
		})
	}
	return docs, nil
}

// LoadFAQs decodes a JSON array of FAQ records into documents. The content
// keeps the question and answer together so retrieval matches both sides.
func LoadFAQs(r io.Reader) ([]qdrant.Document, error) {
	var records []FAQRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode faq records: %w", err)
	}

	docs := make([]qdrant.Document, 0, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.Question) == "" || strings.TrimSpace(rec.Answer) == "" {
			return nil, fmt.Errorf("faq record %d: missing question or answer", i)
		}
		docs = append(docs, qdrant.Document{
			ID:      uuid.NewString(),
			Content: fmt.Sprintf("Q: %s\nA: %s", rec.Question, rec.Answer),
			Metadata: map[string]any{
				"question": rec.Question,
				"source":   rec.Source,
			},
		})
	}
	return docs, nil
}

// productContent composes the text that gets embedded for a product.
func productContent(rec ProductRecord) string {
	parts := make([]string, 0, 4)
	parts = append(parts, rec.Title)
	if rec.Description != "" {
		parts = append(parts, rec.Description)
	}
	if rec.Category != "" {
		category := rec.Category
		if rec.SubCategory != "" {
			category += " / " + rec.SubCategory
		}
		parts = append(parts, category)
	}
	if rec.SalePrice > 0 {
		parts = append(parts, fmt.Sprintf("Price: %s %.2f", rec.Currency, rec.SalePrice))
	}
	return strings.Join(parts, ". ")
}

// Ingestor embeds documents and writes them into Qdrant collections.
type Ingestor struct {
	store     *qdrant.Store
	embedder  embedding.Embedder
	batchSize int
	logger    logging.Logger
}

// IngestorOptions configure an Ingestor.
type IngestorOptions struct {
	BatchSize int
	Logger    logging.Logger
}

// NewIngestor creates an Ingestor over the given store and embedder.
func NewIngestor(store *qdrant.Store, embedder embedding.Embedder, optFns ...func(o *IngestorOptions)) *Ingestor {
	opts := IngestorOptions{
		BatchSize: DefaultBatchSize,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Ingestor{store: store, embedder: embedder, batchSize: opts.BatchSize, logger: opts.Logger}
}

// Ingest ensures the collection exists and upserts the documents in batches.
func (ing *Ingestor) Ingest(ctx context.Context, collection string, docs []qdrant.Document) error {
	if err := ing.store.EnsureCollection(ctx, collection); err != nil {
		return err
	}

	for start := 0; start < len(docs); start += ing.batchSize {
		end := start + ing.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := ing.store.Upsert(ctx, collection, ing.embedder, docs[start:end]); err != nil {
			return fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		ing.logger.Info("ingested batch", "collection", collection, "from", start, "to", end)
	}

	ing.logger.Info("ingestion complete", "collection", collection, "documents", len(docs))
	return nil
}
