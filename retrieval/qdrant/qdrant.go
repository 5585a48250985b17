// Package qdrant provides the Qdrant-backed vector retriever and the write
// side used by ingestion. Vectors come from an embedding.Embedder; the
// payload carries the candidate content plus a nested metadata map.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/hupe1980/shopflow/embedding"
)

// Config configures the Qdrant connection.
type Config struct {
	// Host is the Qdrant server hostname or IP address. Default: "localhost".
	Host string

	// Port is the Qdrant gRPC port (not the HTTP REST port). Default: 6334.
	Port int

	// UseTLS enables TLS for the gRPC connection. Default: false.
	UseTLS bool

	// APIKey is the optional API key. Leave empty for local development.
	APIKey string

	// RequestTimeout bounds individual requests. Default: 30s.
	RequestTimeout time.Duration

	// VectorSize is the embedding dimensionality used when creating
	// collections. Default: 1536 (text-embedding-3-small).
	VectorSize uint64

	// Distance is the metric for new collections. Default: Cosine.
	Distance qdrant.Distance
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.VectorSize == 0 {
		c.VectorSize = 1536
	}
	if c.Distance == 0 {
		c.Distance = qdrant.Distance_Cosine
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}
	if c.VectorSize == 0 {
		return fmt.Errorf("vector size is required")
	}
	return nil
}

// Store wraps the Qdrant client with the collection and point operations the
// retrieval and ingestion boundaries need.
type Store struct {
	client *qdrant.Client
	config Config
}

// NewStore connects to Qdrant and verifies the connection with a health
// check.
func NewStore(ctx context.Context, config Config) (*Store, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	qdrantConfig := &qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		UseTLS: config.UseTLS,
		APIKey: config.APIKey,
	}
	if !config.UseTLS {
		qdrantConfig.GrpcOptions = append(qdrantConfig.GrpcOptions,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
	}

	client, err := qdrant.NewClient(qdrantConfig)
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	store := &Store{client: client, config: config}

	if err := store.Health(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return store, nil
}

// Health performs a health check on the connection.
func (s *Store) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// EnsureCollection creates the collection if it does not exist yet.
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	_, err := s.client.GetCollectionInfo(ctx, name)
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); !ok || st.Code() != codes.NotFound {
		return fmt.Errorf("get collection %q: %w", name, err)
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.config.VectorSize,
			Distance: s.config.Distance,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %q: %w", name, err)
	}
	return nil
}

// Document is a single item written into a collection.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// Upsert embeds the documents and writes them into the collection.
func (s *Store) Upsert(ctx context.Context, collection string, embedder embedding.Embedder, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(doc.ID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: toPayload(doc.Content, doc.Metadata),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upsert into %q: %w", collection, err)
	}
	return nil
}

// Close closes the underlying client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
