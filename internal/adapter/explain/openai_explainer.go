package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lexibot/internal/config"
	"lexibot/internal/domain"
	"lexibot/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// llmClient is the slice of the langchaingo model surface this adapter needs.
type llmClient interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// OpenAIExplainer implements domain.ExplanationService on top of a
// langchaingo OpenAI model.
type OpenAIExplainer struct {
	llm     llmClient
	timeout time.Duration
}

// NewOpenAIExplainer creates a new OpenAI-backed explanation service.
func NewOpenAIExplainer(llmCfg config.LLMConfig) (*OpenAIExplainer, error) {
	if llmCfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	llm, err := openai.New(
		openai.WithToken(llmCfg.OpenAIAPIKey),
		openai.WithModel(llmCfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return &OpenAIExplainer{llm: llm, timeout: llmCfg.Timeout}, nil
}

// Explain implements domain.ExplanationService
func (e *OpenAIExplainer) Explain(ctx context.Context, term string) (*domain.Explanation, error) {
	l := logger.Get()

	prompt := fmt.Sprintf(`You are an English tutor.
Term: "%s"

Return JSON ONLY with:
- term (string)
- simple_explanation: explain in very simple English (CEFR B1), 1-2 short sentences
- examples: EXACTLY %d natural sentences (B1-B2), each MUST include the term EXACTLY as written.
Make the examples varied: daily life, work, study, emotions, online chat.
No extra keys. No markdown.`, term, domain.ExampleCount)

	raw, err := e.callLLM(ctx, prompt)
	if err != nil {
		l.Error("LLM call failed during explanation generation",
			zap.Error(err),
			zap.String("term", term))
		return nil, domain.NewGenerationError(err)
	}

	extracted, ok := extractJSON(raw, '{', '}')
	if !ok {
		l.Error("No JSON object found in LLM response",
			zap.String("term", term),
			zap.String("raw_response", raw))
		return nil, domain.NewGenerationError(fmt.Errorf("no JSON object in LLM response"))
	}

	var result domain.Explanation
	if err := json.Unmarshal([]byte(extracted), &result); err != nil {
		l.Error("Failed to unmarshal explanation JSON",
			zap.Error(err),
			zap.String("term", term),
			zap.String("extracted_json", extracted))
		return nil, domain.NewGenerationError(fmt.Errorf("failed to unmarshal LLM response: %w", err))
	}

	result.Term = term
	if err := result.Validate(term); err != nil {
		return nil, err
	}
	return &result, nil
}

// Distract implements domain.ExplanationService
func (e *OpenAIExplainer) Distract(ctx context.Context, term, correctExplanation string) ([]string, error) {
	l := logger.Get()

	prompt := fmt.Sprintf(`You are an English tutor building a multiple-choice quiz.
Term: "%s"
Correct explanation: "%s"

Return a JSON array of EXACTLY %d strings. Each string is a plausible but WRONG explanation of the term.
Rules:
1. The two wrong explanations must differ from each other.
2. Neither may mean the same as the correct explanation.
3. Neither may be a simple negation like "not %s".
No extra keys. No markdown.`, term, correctExplanation, domain.DistractorCount, term)

	raw, err := e.callLLM(ctx, prompt)
	if err != nil {
		l.Error("LLM call failed during distractor generation",
			zap.Error(err),
			zap.String("term", term))
		return nil, domain.NewGenerationError(err)
	}

	extracted, ok := extractJSON(raw, '[', ']')
	if !ok {
		l.Error("No JSON array found in LLM response",
			zap.String("term", term),
			zap.String("raw_response", raw))
		return nil, domain.NewGenerationError(fmt.Errorf("no JSON array in LLM response"))
	}

	var distractors []string
	if err := json.Unmarshal([]byte(extracted), &distractors); err != nil {
		l.Error("Failed to unmarshal distractor JSON",
			zap.Error(err),
			zap.String("term", term),
			zap.String("extracted_json", extracted))
		return nil, domain.NewGenerationError(fmt.Errorf("failed to unmarshal LLM response: %w", err))
	}

	return distractors, nil
}

func (e *OpenAIExplainer) callLLM(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	response, err := e.llm.Call(ctx, prompt, llms.WithTemperature(0.2))
	if err != nil {
		if err == context.DeadlineExceeded {
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	return response, nil
}

// extractJSON strips an optional <think>...</think> block and cuts the
// response down to the outermost open..close pair, since models
// sometimes wrap JSON in prose or fencing.
func extractJSON(raw string, open, close byte) (string, bool) {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
			cleaned = strings.TrimSpace(cleaned)
		}
	}

	start := strings.IndexByte(cleaned, open)
	end := strings.LastIndexByte(cleaned, close)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return cleaned[start : end+1], true
}

// Static assertion to ensure OpenAIExplainer implements ExplanationService
var _ domain.ExplanationService = (*OpenAIExplainer)(nil)
