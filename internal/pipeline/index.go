package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"text-intel-go/internal/model"
	"text-intel-go/pkg/embedding"
	"text-intel-go/pkg/log"
)

var (
	// ErrEmptyIndex is returned when retrieving from an index without chunks.
	ErrEmptyIndex = errors.New("index has no chunks")
	// ErrInvalidK is returned for a non-positive result count.
	ErrInvalidK = errors.New("k must be positive")
	// ErrDimensionMismatch is returned when the embedding model changes vector size mid-index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

const metaIndex = "index"

// Indexer embeds chunks into a fresh in-memory vector collection.
type Indexer struct {
	client      embedding.Client
	concurrency int
}

// NewIndexer returns an Indexer embedding with client. concurrency bounds the
// number of chunks embedded at once; zero or less means one per CPU.
func NewIndexer(client embedding.Client, concurrency int) *Indexer {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Indexer{client: client, concurrency: concurrency}
}

// Index is the searchable form of one document's chunks. It belongs to a
// single request and is not safe for concurrent use.
type Index struct {
	collection *chromem.Collection
	embed      chromem.EmbeddingFunc
	size       int
}

// Build embeds every chunk and returns the resulting Index.
func (ix *Indexer) Build(ctx context.Context, chunks []model.Chunk) (*Index, error) {
	embed := dimensionChecked(ix.client)
	db := chromem.NewDB()
	collection, err := db.CreateCollection(uuid.NewString(), nil, embed)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	if len(chunks) > 0 {
		docs := make([]chromem.Document, 0, len(chunks))
		for _, c := range chunks {
			docs = append(docs, chromem.Document{
				ID:       "chunk-" + strconv.Itoa(c.Index),
				Metadata: map[string]string{metaIndex: strconv.Itoa(c.Index)},
				Content:  c.Text,
			})
		}
		if err := collection.AddDocuments(ctx, docs, ix.concurrency); err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
	}
	log.Debugf("[Indexer] indexed %d chunks with %s", len(chunks), ix.client.ModelName())

	return &Index{collection: collection, embed: embed, size: len(chunks)}, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int { return idx.size }

// Retrieve returns up to k chunks ranked by cosine similarity to query. Equal
// scores keep document order.
func (idx *Index) Retrieve(ctx context.Context, query string, k int) ([]model.Chunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}
	if idx.size == 0 {
		return nil, ErrEmptyIndex
	}

	vec, err := idx.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	// all results are fetched so that ties are broken by chunk order, not by the store
	results, err := idx.collection.QueryEmbedding(ctx, vec, idx.collection.Count(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	type scored struct {
		chunk model.Chunk
		score float32
	}
	ranked := make([]scored, 0, len(results))
	for _, r := range results {
		i, err := strconv.Atoi(r.Metadata[metaIndex])
		if err != nil {
			return nil, fmt.Errorf("chunk %s: bad index metadata: %w", r.ID, err)
		}
		ranked = append(ranked, scored{chunk: model.Chunk{Index: i, Text: r.Content}, score: r.Similarity})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].chunk.Index < ranked[b].chunk.Index
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]model.Chunk, k)
	for i := range out {
		out[i] = ranked[i].chunk
	}
	return out, nil
}

// dimensionChecked adapts client to chromem and rejects vectors whose length
// differs from the first one produced.
func dimensionChecked(client embedding.Client) chromem.EmbeddingFunc {
	var (
		mu  sync.Mutex
		dim int
	)
	return func(ctx context.Context, text string) ([]float32, error) {
		vec, err := client.CreateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		if len(vec) == 0 {
			return nil, embedding.ErrEmptyEmbedding
		}
		mu.Lock()
		defer mu.Unlock()
		if dim == 0 {
			dim = len(vec)
		} else if len(vec) != dim {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), dim)
		}
		return vec, nil
	}
}
