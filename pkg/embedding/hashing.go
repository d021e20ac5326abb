package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// DefaultDimensions matches the all-MiniLM-L6-v2 output size.
const DefaultDimensions = 384

const bigramWeight = 0.5

// HashingClient is a deterministic lexical embedder for offline runs and tests.
// Unigrams and word bigrams are hashed into a fixed number of signed buckets,
// weighted by 1+ln(tf) and L2-normalised. It only matches shared words; texts
// with no word in common score zero.
type HashingClient struct {
	dimensions   int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewHashingClient returns a hashing embedder producing vectors of the given dimension.
func NewHashingClient(dimensions int) *HashingClient {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &HashingClient{
		dimensions:   dimensions,
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`),
		stopwords:    defaultStopwords(),
	}
}

func (h *HashingClient) ModelName() string {
	return fmt.Sprintf("feature-hashing-%d", h.dimensions)
}

// Dimensions returns the vector length.
func (h *HashingClient) Dimensions() int { return h.dimensions }

// CreateEmbedding embeds text. Text without any word token maps to a fixed unit vector.
func (h *HashingClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := h.tokenize(text)
	counts := make(map[string]float64, len(tokens)*2)
	for i, tok := range tokens {
		counts[tok]++
		if i > 0 {
			counts[tokens[i-1]+" "+tok] += bigramWeight
		}
	}

	vec := make([]float64, h.dimensions)
	for feature, tf := range counts {
		idx, sign := h.bucket(feature)
		vec[idx] += sign * (1 + math.Log(tf))
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float32, h.dimensions)
	if norm == 0 {
		out[0] = 1
		return out, nil
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func (h *HashingClient) bucket(feature string) (int, float64) {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(feature))
	sum := hasher.Sum64()
	sign := 1.0
	if sum>>63 == 1 {
		sign = -1.0
	}
	return int(sum % uint64(h.dimensions)), sign
}

func (h *HashingClient) tokenize(text string) []string {
	raw := h.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := h.stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
