package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/clearview/faq-assistant/pkg/models"
)

// QdrantStore implements Store against a Qdrant server over gRPC.
type QdrantStore struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
	dimension   int
}

// NewQdrantStore connects to a Qdrant server. The collection is not
// created here; call EnsureCollection before indexing.
func NewQdrantStore(cfg Config) (*QdrantStore, error) {
	conn, err := grpc.Dial(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant at %s: %w", cfg.Addr, err)
	}

	return &QdrantStore{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  cfg.Collection,
		dimension:   cfg.Dimension,
	}, nil
}

// EnsureCollection creates the collection if it does not exist. With
// recreate, an existing collection is dropped first; indexing replaces
// the chunk set wholesale, never incrementally.
func (s *QdrantStore) EnsureCollection(ctx context.Context, recreate bool) error {
	collections, err := s.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	exists := false
	for _, col := range collections.GetCollections() {
		if col.GetName() == s.collection {
			exists = true
			break
		}
	}

	if exists && recreate {
		_, err := s.collections.Delete(ctx, &qdrantclient.DeleteCollection{
			CollectionName: s.collection,
		})
		if err != nil {
			return fmt.Errorf("failed to delete collection: %w", err)
		}
		exists = false
	}

	if !exists {
		_, err = s.collections.Create(ctx, &qdrantclient.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: &qdrantclient.VectorsConfig{
				Config: &qdrantclient.VectorsConfig_Params{
					Params: &qdrantclient.VectorParams{
						Size:     uint64(s.dimension),
						Distance: qdrantclient.Distance_Cosine,
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}

	return nil
}

// Upsert writes chunks with their embeddings. Point IDs are derived
// deterministically from chunk IDs so re-indexing the same content
// overwrites rather than duplicates.
func (s *QdrantStore) Upsert(ctx context.Context, chunks []models.ContentChunk) error {
	points := make([]*qdrantclient.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dimension {
			return fmt.Errorf("chunk %s: embedding dimension %d, want %d", chunk.ID, len(chunk.Embedding), s.dimension)
		}

		pointID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunk.ID)).String()
		points = append(points, &qdrantclient.PointStruct{
			Id: &qdrantclient.PointId{
				PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: pointID},
			},
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{Data: chunk.Embedding},
				},
			},
			Payload: map[string]*qdrantclient.Value{
				"id":          {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.ID}},
				"text":        {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.Text}},
				"source":      {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.SourceFile}},
				"chunk_index": {Kind: &qdrantclient.Value_IntegerValue{IntegerValue: int64(chunk.ChunkIndex)}},
			},
		})
	}

	_, err := s.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// Search finds the topK nearest chunks. Qdrant reports a cosine similarity
// score; it is converted back to a distance here so every Store speaks the
// same scale.
func (s *QdrantStore) Search(ctx context.Context, queryVector []float32, topK int) ([]SearchHit, error) {
	resp, err := s.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: s.collection,
		Vector:         queryVector,
		Limit:          uint64(topK),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Include{
				Include: &qdrantclient.PayloadIncludeSelector{
					Fields: []string{"id", "text", "source", "chunk_index"},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search in Qdrant: %w", err)
	}

	hits := make([]SearchHit, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		chunk := models.ContentChunk{}
		if v, ok := point.Payload["id"]; ok {
			chunk.ID = v.GetStringValue()
		}
		if v, ok := point.Payload["text"]; ok {
			chunk.Text = v.GetStringValue()
		}
		if v, ok := point.Payload["source"]; ok {
			chunk.SourceFile = v.GetStringValue()
		}
		if v, ok := point.Payload["chunk_index"]; ok {
			chunk.ChunkIndex = int(v.GetIntegerValue())
		}
		hits = append(hits, SearchHit{Chunk: chunk, Distance: 1 - point.GetScore()})
	}

	return hits, nil
}

// Clear drops and recreates the collection.
func (s *QdrantStore) Clear(ctx context.Context) error {
	return s.EnsureCollection(ctx, true)
}

// Close closes the gRPC connection.
func (s *QdrantStore) Close() error {
	return s.conn.Close()
}
