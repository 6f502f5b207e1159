package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// Rubric document types stored in the collection.
const (
	DocTypeRubric       = "screening_rubric"
	DocTypeRoleProfile  = "role_profile"
	embeddingVectorSize = 768
)

// RubricStore keeps chunks of screening guidance that are retrieved as extra
// context when a job description is scored.
type RubricStore interface {
	InitCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, chunk RubricChunk, embedding []float32) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error)
	DeleteSource(ctx context.Context, source string) error
}

type RubricChunk struct {
	Source  string
	DocType string
	Index   int
	Text    string
}

type SearchResult struct {
	Source  string
	DocType string
	Score   float32
	Text    string
}

type qdrantStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

// NewQdrantStore connects to the gRPC endpoint derived from urlStr. The port
// defaults to 6334 when the URL has none.
func NewQdrantStore(urlStr, apiKey, collectionName string, logger *zap.Logger) (RubricStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingVectorSize,
		logger:         logger,
	}, nil
}

func (q *qdrantStore) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.logger.Info("✅ Rubric collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("✅ Rubric collection created", zap.String("collection", q.collectionName))
	return nil
}

func (q *qdrantStore) UpsertChunk(ctx context.Context, chunk RubricChunk, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(uuid.New().ID())),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"source":   chunk.Source,
			"doc_type": chunk.DocType,
			"index":    int64(chunk.Index),
			"text":     chunk.Text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

func (q *qdrantStore) SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error) {
	var filter *qdrant.Filter
	if docType != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("doc_type", docType),
			},
		}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, SearchResult{
			Source:  payloadString(point.Payload, "source"),
			DocType: payloadString(point.Payload, "doc_type"),
			Score:   point.Score,
			Text:    payloadString(point.Payload, "text"),
		})
	}
	return results, nil
}

func (q *qdrantStore) DeleteSource(ctx context.Context, source string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("source", source),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete source %s: %w", source, err)
	}
	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			return s.StringValue
		}
	}
	return ""
}
