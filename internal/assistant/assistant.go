package assistant

import (
	"context"
	"log/slog"

	"content-assistant/internal/llm"
	"content-assistant/internal/passage"
	"content-assistant/internal/prompt"
)

// Sampling temperatures per operation.
const (
	SummaryTemperature         = 0.7
	TitlesTemperature          = 0.8
	AnswerTemperature          = 0.3
	RecommendationsTemperature = 0.5
)

const (
	DefaultTitleCount          = 3
	DefaultRecommendationCount = 2
	DefaultQuestion            = "What are the benefits of wellness programs for companies?"
)

// Service runs the content operations against an LLM invoker.
type Service struct {
	invoker       llm.Invoker
	log           *slog.Logger
	maxInputWords int
}

// Options tunes a Service.
type Options struct {
	// MaxInputWords caps the passage sent to the model. Zero means no cap.
	MaxInputWords int
}

func New(log *slog.Logger, invoker llm.Invoker, opts Options) *Service {
	return &Service{invoker: invoker, log: log, maxInputWords: opts.MaxInputWords}
}

// ListResult is the outcome of a list-producing operation.
type ListResult struct {
	Items   []string
	Backend string
	Failure *llm.Failure
}

func (r ListResult) OK() bool { return r.Failure == nil }

// Strings returns the items, or the failure message as a single entry.
func (r ListResult) Strings() []string {
	if r.Failure != nil {
		return []string{r.Failure.Message()}
	}
	return r.Items
}

// Summarize produces a one or two sentence summary of text.
func (s *Service) Summarize(ctx context.Context, text string) llm.Result {
	if passage.IsBlank(text) {
		s.log.Warn("empty text provided to summarize")
		return llm.Fail(llm.FailureEmptyInput, "No content provided for summarization.")
	}
	s.log.Info("summarizing text", "length", len(text))
	return s.run(ctx, prompt.Summary, map[string]any{"text": s.cap(text)}, SummaryTemperature)
}

// GenerateTitles asks for n candidate titles. The backend's line count is
// passed through as is.
func (s *Service) GenerateTitles(ctx context.Context, text string, n int) ListResult {
	if passage.IsBlank(text) {
		s.log.Warn("empty text provided to generate titles")
		return listFailure(llm.FailureEmptyInput, "No content provided for title generation.")
	}
	if n <= 0 {
		n = DefaultTitleCount
	}
	s.log.Info("generating titles", "length", len(text), "n", n)
	return toList(s.run(ctx, prompt.Titles, map[string]any{"text": s.cap(text), "n": n}, TitlesTemperature))
}

// AnswerQuestion answers question strictly from text; the model is told to
// reply prompt.NotFound when it cannot.
func (s *Service) AnswerQuestion(ctx context.Context, text, question string) llm.Result {
	if passage.IsBlank(text) {
		s.log.Warn("empty text provided to answer question")
		return llm.Fail(llm.FailureEmptyInput, "No content provided to answer the question.")
	}
	if passage.IsBlank(question) {
		s.log.Warn("empty question provided")
		return llm.Fail(llm.FailureEmptyInput, "No question provided.")
	}
	s.log.Info("answering question", "length", len(text))
	return s.run(ctx, prompt.QA, map[string]any{"text": s.cap(text), "question": question}, AnswerTemperature)
}

// Recommend asks for n actionable recommendations.
func (s *Service) Recommend(ctx context.Context, text string, n int) ListResult {
	if passage.IsBlank(text) {
		s.log.Warn("empty text provided to recommend")
		return listFailure(llm.FailureEmptyInput, "No content provided for generating recommendations.")
	}
	if n <= 0 {
		n = DefaultRecommendationCount
	}
	s.log.Info("generating recommendations", "length", len(text), "n", n)
	return toList(s.run(ctx, prompt.Recommendations, map[string]any{"text": s.cap(text), "n": n}, RecommendationsTemperature))
}

func (s *Service) run(ctx context.Context, id prompt.ID, vars map[string]any, temperature float64) llm.Result {
	rendered, err := prompt.Render(id, vars)
	if err != nil {
		s.log.Error("failed to render prompt", "template", id, "err", err)
		return llm.Fail(llm.FailureInvalidPrompt, err.Error())
	}
	res := s.invoker.Invoke(ctx, rendered, temperature)
	if !res.OK() {
		s.log.Error("operation failed", "template", id, "kind", res.Failure.Kind)
	}
	return res
}

func (s *Service) cap(text string) string {
	capped, cut := passage.Truncate(text, s.maxInputWords)
	if cut {
		s.log.Warn("input truncated", "max_words", s.maxInputWords)
	}
	return capped
}

func toList(res llm.Result) ListResult {
	if !res.OK() {
		return ListResult{Failure: res.Failure}
	}
	return ListResult{Items: passage.Lines(res.Text), Backend: res.Backend}
}

func listFailure(kind llm.FailureKind, detail string) ListResult {
	return ListResult{Failure: &llm.Failure{Kind: kind, Detail: detail}}
}
