package vectorstore

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/philippgille/chromem-go"
)

// embeddingDimensions is the width of the hashed bag-of-words vectors
// produced by localEmbeddingFunc.
const embeddingDimensions = 256

// localEmbeddingFunc is a dependency-free stand-in for a real embedding
// model. chromem-go's own default embedding function calls out to
// OpenAI's API, which this self-hosted store must not require: the spec
// treats "the embedding model" as an external collaborator delegated to
// the vector store, but an embedded, persistent store should still work
// fully offline. This hashes each token into one of embeddingDimensions
// buckets (the hashing trick) and L2-normalizes the result, giving a
// stable, dependency-free vector that still clusters lexically similar
// text together under cosine distance.
func localEmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vec := make([]float32, embeddingDimensions)
		for _, tok := range tokenize(text) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(tok))
			idx := h.Sum32() % embeddingDimensions
			vec[idx]++
		}

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return vec, nil
		}
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
		return vec, nil
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
