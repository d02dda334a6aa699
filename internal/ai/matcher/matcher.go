package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/clarify-hr/clarify/hiring/chat"
	"github.com/clarify-hr/clarify/pkg/logx"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared/constant"
)

// Input truncation limits. Oversized documents are cut, not rejected.
const (
	maxVacancyChars = 6000
	maxResumeChars  = 12000
)

// Result is the outcome of one matching run. A contract violation in the
// model output is reported through Err and Raw rather than a Go error:
// the application record still gets created, carrying the failure.
type Result struct {
	Requirements []chat.Requirement
	FitScore     *int
	Err          string
	Raw          string
}

// Scored reports whether the run produced a usable score.
func (r *Result) Scored() bool {
	return r.Err == "" && r.FitScore != nil
}

// Options controls one matching run.
type Options struct {
	// UseRetrieval requests retrieval-augmented scoring. It is honored
	// only when the matcher was built with retrieval support.
	UseRetrieval bool
}

// Embedder supplies the vectors for retrieval augmentation.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Matcher scores a resume against vacancy requirements using an LLM.
type Matcher struct {
	client   *openai.Client
	model    string
	embedder Embedder

	// retrievalSupported is probed once at startup, never per call.
	retrievalSupported bool
}

// NewMatcher creates a matcher on a shared OpenAI client. Retrieval
// support requires an embedder; without one the capability is off no
// matter what the flag says.
func NewMatcher(client *openai.Client, model string, retrievalSupported bool, embedder Embedder) *Matcher {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if embedder == nil {
		retrievalSupported = false
	}
	return &Matcher{
		client:             client,
		model:              model,
		embedder:           embedder,
		retrievalSupported: retrievalSupported,
	}
}

// RetrievalSupported reports whether retrieval-augmented runs are available.
func (m *Matcher) RetrievalSupported() bool {
	return m.retrievalSupported
}

const systemPrompt = `You are an expert HR analyst. Compare a candidate's resume against the requirements of a vacancy.

For EVERY vacancy requirement produce one entry:
- "vacancy_req": the requirement, verbatim
- "user_req_data": the resume evidence relevant to this requirement, or "" when the resume says nothing about it
- "match_percent": integer 0-100, how well the evidence satisfies the requirement

Also produce "FIT_SCORE": integer 0-100, the overall fit of the candidate for the vacancy.

Return ONLY a JSON object of the form:
{"requirements": [{"vacancy_req": string, "user_req_data": string, "match_percent": int}, ...], "FIT_SCORE": int}`

// Match scores resumeText against the vacancy described by vacancyText.
// vacancyText should include the requirement list.
func (m *Matcher) Match(ctx context.Context, vacancyText, resumeText string, opts Options) (*Result, error) {
	if opts.UseRetrieval && !m.retrievalSupported {
		logx.Warn("retrieval requested but not supported, falling back to plain matching")
		opts.UseRetrieval = false
	}

	vacancyText = truncate(vacancyText, maxVacancyChars)
	resumeText = truncate(resumeText, maxResumeChars)

	userPrompt := fmt.Sprintf("VACANCY:\n%s\n\nRESUME:\n%s", vacancyText, resumeText)

	if opts.UseRetrieval {
		// Retrieval errors are swallowed; the run proceeds unaugmented.
		if snippet := m.retrievalContext(ctx, vacancyText, resumeText); snippet != "" {
			userPrompt = fmt.Sprintf("Context:\n%s\n\n%s", snippet, userPrompt)
		}
	}

	completion, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model: m.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat api error: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	return ParseResponse(completion.Choices[0].Message.Content), nil
}

// ParseResponse validates model output against the matching contract.
// Violations are recorded in the result, with the raw payload preserved
// for debugging.
func ParseResponse(content string) *Result {
	var payload struct {
		Requirements json.RawMessage `json:"requirements"`
		FitScore     json.RawMessage `json:"FIT_SCORE"`
	}

	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return &Result{Err: "model returned invalid JSON", Raw: content}
	}

	// An explicit JSON null decodes cleanly into the raw message, so it
	// has to be rejected by value.
	if len(payload.Requirements) == 0 || string(payload.Requirements) == "null" {
		return &Result{Err: "missing requirements", Raw: content}
	}

	var requirements []chat.Requirement
	if err := json.Unmarshal(payload.Requirements, &requirements); err != nil {
		return &Result{Err: "requirements is not a list", Raw: content}
	}

	if len(payload.FitScore) == 0 || string(payload.FitScore) == "null" {
		return &Result{Err: "missing FIT_SCORE", Raw: content}
	}

	var rawScore float64
	if err := json.Unmarshal(payload.FitScore, &rawScore); err != nil {
		return &Result{Err: "FIT_SCORE is not numeric", Raw: content}
	}

	score := clampScore(rawScore)
	return &Result{
		Requirements: requirements,
		FitScore:     &score,
	}
}

// Retrieval tuning. Chunks are the non-empty lines of both documents.
const (
	retrievalTopK      = 3
	maxRetrievalChunks = 64
)

// retrievalContext embeds the vacancy against the resume chunks and
// returns the most relevant resume lines joined as a context block.
// Any failure yields an empty context.
func (m *Matcher) retrievalContext(ctx context.Context, vacancyText, resumeText string) string {
	chunks := chunkLines(resumeText, maxRetrievalChunks)
	if len(chunks) <= retrievalTopK {
		return ""
	}

	inputs := append([]string{vacancyText}, chunks...)
	vectors, err := m.embedder.GenerateEmbeddings(ctx, inputs)
	if err != nil {
		logx.Warnf("retrieval embedding failed, proceeding without context: %v", err)
		return ""
	}

	query := vectors[0]
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(chunks))
	for i, vec := range vectors[1:] {
		ranked = append(ranked, scored{idx: i, score: cosine(query, vec)})
	}
	sort.Slice(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	top := ranked[:retrievalTopK]
	sort.Slice(top, func(a, b int) bool { return top[a].idx < top[b].idx })

	parts := make([]string, 0, retrievalTopK)
	for _, s := range top {
		parts = append(parts, chunks[s.idx])
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// chunkLines splits text into its non-empty trimmed lines, capped at max.
func chunkLines(text string, max int) []string {
	lines := strings.Split(text, "\n")
	chunks := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		chunks = append(chunks, line)
		if len(chunks) == max {
			break
		}
	}
	return chunks
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clampScore(v float64) int {
	score := int(math.Round(v))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.ToValidUTF8(s[:max], "")
}
