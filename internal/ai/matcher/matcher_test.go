package matcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "valid payload",
			content: `{"requirements":[{"vacancy_req":"Go","user_req_data":"5 years","match_percent":90}],"FIT_SCORE":75}`,
		},
		{
			name:    "invalid json",
			content: `I'm sorry, I can't produce JSON`,
			wantErr: "model returned invalid JSON",
		},
		{
			name:    "missing requirements",
			content: `{"FIT_SCORE":75}`,
			wantErr: "missing requirements",
		},
		{
			name:    "null requirements",
			content: `{"requirements":null,"FIT_SCORE":50}`,
			wantErr: "missing requirements",
		},
		{
			name:    "requirements is not a list",
			content: `{"requirements":{"vacancy_req":"Go"},"FIT_SCORE":75}`,
			wantErr: "requirements is not a list",
		},
		{
			name:    "missing fit score",
			content: `{"requirements":[{"vacancy_req":"Go","user_req_data":"","match_percent":0}]}`,
			wantErr: "missing FIT_SCORE",
		},
		{
			name:    "null fit score",
			content: `{"requirements":[{"vacancy_req":"Go","user_req_data":"","match_percent":0}],"FIT_SCORE":null}`,
			wantErr: "missing FIT_SCORE",
		},
		{
			name:    "fit score not numeric",
			content: `{"requirements":[{"vacancy_req":"Go","user_req_data":"","match_percent":0}],"FIT_SCORE":"high"}`,
			wantErr: "FIT_SCORE is not numeric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseResponse(tt.content)

			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, result.Err)
				assert.Equal(t, tt.content, result.Raw)
				assert.False(t, result.Scored())
				return
			}

			require.Empty(t, result.Err)
			require.NotNil(t, result.FitScore)
			assert.True(t, result.Scored())
			assert.Equal(t, 75, *result.FitScore)
			require.Len(t, result.Requirements, 1)
			assert.Equal(t, "Go", result.Requirements[0].VacancyReq)
			assert.Equal(t, 90, result.Requirements[0].MatchPercent)
		})
	}
}

func TestParseResponseClampsFitScore(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"rounds float", `{"requirements":[{"vacancy_req":"Go"}],"FIT_SCORE":72.6}`, 73},
		{"clamps high", `{"requirements":[{"vacancy_req":"Go"}],"FIT_SCORE":150}`, 100},
		{"clamps negative", `{"requirements":[{"vacancy_req":"Go"}],"FIT_SCORE":-5}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseResponse(tt.content)
			require.NotNil(t, result.FitScore)
			assert.Equal(t, tt.want, *result.FitScore)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 100))

	long := strings.Repeat("a", 200)
	assert.Len(t, truncate(long, 50), 50)

	// A multibyte rune split by the cut is dropped, not mangled.
	multi := strings.Repeat("é", 30)
	cut := truncate(multi, 5)
	assert.LessOrEqual(t, len(cut), 5)
	assert.True(t, strings.HasPrefix(multi, cut))
}

type staticEmbedder struct {
	vectors [][]float32
	err     error
}

func (s *staticEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors[:len(texts)], nil
}

func TestNewMatcherDefaults(t *testing.T) {
	m := NewMatcher(nil, "", true, &staticEmbedder{})
	assert.Equal(t, "gpt-4o-mini", m.model)
	assert.True(t, m.RetrievalSupported())

	m = NewMatcher(nil, "gpt-4o", false, &staticEmbedder{})
	assert.Equal(t, "gpt-4o", m.model)
	assert.False(t, m.RetrievalSupported())

	// No embedder means no retrieval, regardless of the flag.
	m = NewMatcher(nil, "", true, nil)
	assert.False(t, m.RetrievalSupported())
}

func TestChunkLines(t *testing.T) {
	chunks := chunkLines("  one \n\n two\nthree\n", 10)
	assert.Equal(t, []string{"one", "two", "three"}, chunks)

	capped := chunkLines("a\nb\nc\nd", 2)
	assert.Equal(t, []string{"a", "b"}, capped)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 0.0, cosine(nil, nil))
}

func TestRetrievalContextPicksTopChunks(t *testing.T) {
	// Query vector matches chunks 0, 2 and 3; chunk 1 points away.
	embedder := &staticEmbedder{vectors: [][]float32{
		{1, 0}, // query (vacancy)
		{1, 0},
		{0, 1},
		{0.9, 0.1},
		{0.8, 0.2},
	}}
	m := NewMatcher(nil, "", true, embedder)

	snippet := m.retrievalContext(context.Background(), "vacancy", "go\njava\nkubernetes\nterraform")

	assert.Equal(t, "go\n\n---\n\nkubernetes\n\n---\n\nterraform", snippet)
}

func TestRetrievalContextDegradesOnError(t *testing.T) {
	m := NewMatcher(nil, "", true, &staticEmbedder{err: assert.AnError})

	snippet := m.retrievalContext(context.Background(), "vacancy", "a\nb\nc\nd\ne")
	assert.Empty(t, snippet)

	// Tiny resumes skip retrieval entirely.
	m = NewMatcher(nil, "", true, &staticEmbedder{})
	assert.Empty(t, m.retrievalContext(context.Background(), "vacancy", "a\nb"))
}
