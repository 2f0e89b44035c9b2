package prompt

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ID names one of the fixed prompt templates.
type ID string

const (
	Summary         ID = "summary"
	Titles          ID = "titles"
	QA              ID = "qa"
	Recommendations ID = "recommendations"
)

var (
	ErrMissingVariable = errors.New("missing template variable")
	ErrUnknownTemplate = errors.New("unknown template")
)

const (
	summaryText = "You are an expert editor.\n" +
		"Summarize the following passage in 1-2 crisp sentences:\n\n" +
		"\"\"\"\n{{.text}}\n\"\"\""

	titlesText = "Generate {{.n}} creative, catchy blog titles for the passage below.\n" +
		"Return them as plain text, one per line, without numbering.\n\n" +
		"\"\"\"\n{{.text}}\n\"\"\""

	qaText = "Answer the question using ONLY the passage.\n" +
		"If the answer is not found in the passage, say \"" + NotFound + "\"\n\n" +
		"Passage:\n\"\"\"\n{{.text}}\n\"\"\"\n\n" +
		"Q: {{.question}}\nA:"

	recommendationsText = "Give {{.n}} actionable recommendations for a company looking to implement a wellness program,\n" +
		"based on this passage. Provide each recommendation on a new line without bullet points or numbering.\n\n" +
		"\"\"\"\n{{.text}}\n\"\"\""
)

// NotFound is the sentinel answer the QA template asks for when the passage
// does not contain the answer.
const NotFound = "Not found."

var templates = map[ID]*template.Template{
	Summary:         mustParse(Summary, summaryText),
	Titles:          mustParse(Titles, titlesText),
	QA:              mustParse(QA, qaText),
	Recommendations: mustParse(Recommendations, recommendationsText),
}

func mustParse(id ID, text string) *template.Template {
	return template.Must(template.New(string(id)).Option("missingkey=error").Parse(text))
}

// Render substitutes vars into the template named by id. Every placeholder the
// template references must be present in vars.
func Render(id ID, vars map[string]any) (string, error) {
	tmpl, ok := templates[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, vars); err != nil {
		return "", fmt.Errorf("%w: render %s: %v", ErrMissingVariable, id, err)
	}
	return b.String(), nil
}

// IDs returns the template ids in operation order.
func IDs() []ID {
	return []ID{Summary, Titles, QA, Recommendations}
}
