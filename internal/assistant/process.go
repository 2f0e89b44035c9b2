package assistant

import (
	"context"
	"strings"

	"content-assistant/internal/llm"
)

// Result keys, in execution order.
const (
	KeySummary         = "summary"
	KeyTitles          = "titles"
	KeyAnswer          = "answer"
	KeyRecommendations = "recommendations"
)

// Selection chooses which operations Process runs.
type Selection struct {
	Summary         bool   `json:"summarize"`
	Titles          bool   `json:"titles"`
	Question        string `json:"question,omitempty"`
	Recommendations bool   `json:"recommendations"`
	All             bool   `json:"all"`

	TitleCount          int `json:"title_count,omitempty"`
	RecommendationCount int `json:"recommendation_count,omitempty"`
}

// Empty reports whether no operation is selected.
func (sel Selection) Empty() bool {
	return !sel.All && !sel.Summary && !sel.Titles && strings.TrimSpace(sel.Question) == "" && !sel.Recommendations
}

// Results holds the outcome of each operation that ran. Nil means not run.
type Results struct {
	Summary         *llm.Result
	Titles          *ListResult
	Answer          *llm.Result
	Recommendations *ListResult
}

func (r Results) Empty() bool {
	return r.Summary == nil && r.Titles == nil && r.Answer == nil && r.Recommendations == nil
}

// OK reports whether every operation that ran succeeded.
func (r Results) OK() bool {
	return (r.Summary == nil || r.Summary.OK()) &&
		(r.Titles == nil || r.Titles.OK()) &&
		(r.Answer == nil || r.Answer.OK()) &&
		(r.Recommendations == nil || r.Recommendations.OK())
}

// Map flattens the results to plain strings and string lists keyed by
// operation name. Failures become their human-readable message.
func (r Results) Map() map[string]any {
	out := make(map[string]any, 4)
	if r.Summary != nil {
		out[KeySummary] = r.Summary.String()
	}
	if r.Titles != nil {
		out[KeyTitles] = r.Titles.Strings()
	}
	if r.Answer != nil {
		out[KeyAnswer] = r.Answer.String()
	}
	if r.Recommendations != nil {
		out[KeyRecommendations] = r.Recommendations.Strings()
	}
	return out
}

// Process runs the selected operations one after another in a fixed order:
// summary, titles, answer, recommendations. All selects every operation and
// uses DefaultQuestion when no question was given.
func (s *Service) Process(ctx context.Context, text string, sel Selection) Results {
	if sel.All {
		sel.Summary, sel.Titles, sel.Recommendations = true, true, true
		if strings.TrimSpace(sel.Question) == "" {
			sel.Question = DefaultQuestion
		}
	}

	var res Results
	if sel.Summary {
		r := s.Summarize(ctx, text)
		res.Summary = &r
	}
	if sel.Titles {
		r := s.GenerateTitles(ctx, text, sel.TitleCount)
		res.Titles = &r
	}
	if strings.TrimSpace(sel.Question) != "" {
		r := s.AnswerQuestion(ctx, text, sel.Question)
		res.Answer = &r
	}
	if sel.Recommendations {
		r := s.Recommend(ctx, text, sel.RecommendationCount)
		res.Recommendations = &r
	}
	return res
}
