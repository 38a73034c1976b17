package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/domain/commonModels"
	"github.com/akolanti/ChatPDF/internal/rag/vectorDB"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
)

var logger = logger_i.NewLogger("Qdrant")

const payloadContent = "content"

// ClientHolder creates one qdrant collection per index build.
type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQuadrantClient(ctx context.Context, host string, port int) (*ClientHolder, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
		GrpcOptions: []grpc.DialOption{
			grpc.WithUserAgent(config.QdrantUserAgent),
		},
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil, err
	}
	if _, err := client.HealthCheck(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("qdrant unreachable at %s:%d: %w", host, port, err)
	}
	go closeQdrant(ctx, client)
	logger.Info("Qdrant client ready", "host", host, "port", port)
	return &ClientHolder{QObj: client}, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
}

type collection struct {
	client *qdrant.Client
	name   string

	mu      sync.RWMutex
	count   int
	vectors map[string][]float32
}

func (db *ClientHolder) NewIndex(ctx context.Context, name string, dimension int) (vectorDB.Index, error) {
	if err := createCollection(ctx, db.QObj, name, uint64(dimension)); err != nil {
		return nil, err
	}
	return &collection{client: db.QObj, name: name, vectors: make(map[string][]float32)}, nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		// a rebuild never reuses points from an older set
		if err := client.DeleteCollection(ctx, collectionName); err != nil {
			return err
		}
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func toPoints(chunks []commonModels.DocChunk, vectors [][]float32) []*qdrant.PointStruct {
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		payload := map[string]any{payloadContent: chunk.Chunk}
		for k, v := range vectorDB.ChunkMetadata(chunk) {
			payload[k] = v
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(payload),
		}
	}
	return points
}

func fromPayload(id string, payload map[string]*qdrant.Value) commonModels.DocChunk {
	md := make(map[string]string, len(payload))
	for k, v := range payload {
		md[k] = v.GetStringValue()
	}
	return vectorDB.ChunkFromMetadata(id, md[payloadContent], md)
}

func (c *collection) Add(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if err := vectorDB.CheckBatch(chunks, vectors); err != nil {
		return err
	}
	points := toPoints(chunks, vectors)
	for i := 0; i < len(points); i += config.EmbedBatch {
		end := min(i+config.EmbedBatch, len(points))
		_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: c.name,
			Points:         points[i:end],
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return fmt.Errorf("qdrant upsert failed: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, chunk := range chunks {
		c.vectors[chunk.ChunkId] = vectors[i]
	}
	c.count += len(chunks)
	return nil
}

func (c *collection) Query(ctx context.Context, vector []float32, fetchK int) ([]vectorDB.Candidate, error) {
	fetchK = min(fetchK, c.Count())
	if fetchK <= 0 {
		return []vectorDB.Candidate{}, nil
	}
	result, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(fetchK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.FromContext(ctx).Error("Error querying Qdrant", "error", err)
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]vectorDB.Candidate, 0, len(result))
	for _, hit := range result {
		id := hit.GetId().GetUuid()
		out = append(out, vectorDB.Candidate{
			Chunk:  fromPayload(id, hit.GetPayload()),
			Vector: c.vectors[id],
			Score:  hit.GetScore(),
		})
	}
	return out, nil
}

func (c *collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

func (c *collection) Drop(ctx context.Context) error {
	return c.client.DeleteCollection(ctx, c.name)
}
