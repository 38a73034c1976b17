// Package hashEmbedding is a local embedder that needs no model download and
// no network. Words and word pairs are hashed into a fixed number of buckets
// (feature hashing), so texts sharing vocabulary land close to each other.
package hashEmbedding

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/akolanti/ChatPDF/internal/rag/embedding"
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

const bigramWeight = 0.5

type Embedder struct {
	dim       int
	stopwords map[string]struct{}
}

func New(dim int) *Embedder {
	return &Embedder{dim: dim, stopwords: defaultStopwords()}
}

func (e *Embedder) Dimension() int { return e.dim }

func (e *Embedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(query)
}

func (e *Embedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, 0, len(chunks))
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := e.embed(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Embedder) embed(text string) ([]float32, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil, embedding.ErrEmptyText
	}

	vec := make([]float32, e.dim)
	var prev string
	added := 0
	for _, tok := range tokenPattern.FindAllString(lower, -1) {
		if _, stop := e.stopwords[tok]; stop {
			prev = ""
			continue
		}
		e.add(vec, tok, 1)
		if prev != "" {
			e.add(vec, prev+" "+tok, bigramWeight)
		}
		prev = tok
		added++
	}
	// only stopwords or punctuation: fall back to the raw text
	if added == 0 {
		e.add(vec, lower, 1)
	}
	return embedding.Normalize(vec), nil
}

func (e *Embedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dim))
	// the top bit picks the sign so collisions cancel out on average
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "but", "by", "can", "do", "does",
		"for", "from", "has", "have", "how", "i", "if", "in", "into", "is", "it", "its",
		"me", "my", "of", "on", "or", "so", "that", "the", "their", "then", "there",
		"these", "this", "to", "was", "we", "were", "what", "when", "where", "which",
		"who", "why", "will", "with", "you", "your",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
