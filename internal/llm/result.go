package llm

// FailureKind classifies why a Result carries no usable text.
type FailureKind string

const (
	FailureEmptyInput         FailureKind = "empty_input"
	FailureInvalidPrompt      FailureKind = "invalid_prompt"
	FailureSecondaryInit      FailureKind = "secondary_init"
	FailureSecondaryRuntime   FailureKind = "secondary_runtime"
	FailureBothBackendsFailed FailureKind = "both_backends_failed"
)

// Failure describes a terminal failure. Detail holds the underlying error
// text when one is available.
type Failure struct {
	Kind   FailureKind
	Detail string
}

// Message renders the failure for people. It always starts with "Error:".
func (f *Failure) Message() string {
	switch f.Kind {
	case FailureSecondaryInit:
		return "Error: Failed to initialize fallback model."
	case FailureBothBackendsFailed:
		return withDetail("Error: Both primary and fallback LLM calls failed.", f.Detail)
	case FailureSecondaryRuntime:
		return withDetail("Error: Fallback LLM call failed.", f.Detail)
	default:
		return withDetail("Error:", f.Detail)
	}
}

func (f *Failure) Error() string { return f.Message() }

func withDetail(prefix, detail string) string {
	if detail == "" {
		return prefix
	}
	return prefix + " " + detail
}

// Result is the outcome of an invocation: either text produced by a named
// backend, or a Failure.
type Result struct {
	Text    string
	Backend string
	Failure *Failure
}

// Success builds a successful result.
func Success(text, backend string) Result {
	return Result{Text: text, Backend: backend}
}

// Fail builds a failed result.
func Fail(kind FailureKind, detail string) Result {
	return Result{Failure: &Failure{Kind: kind, Detail: detail}}
}

func (r Result) OK() bool { return r.Failure == nil }

// String returns the text on success and the failure message otherwise.
func (r Result) String() string {
	if r.Failure != nil {
		return r.Failure.Message()
	}
	return r.Text
}
