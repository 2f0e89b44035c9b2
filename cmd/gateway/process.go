package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"content-assistant/internal/app"
	"content-assistant/internal/assistant"
	"content-assistant/internal/document"
	"content-assistant/internal/httputil"
	"content-assistant/internal/llm"
)

var errNoOperation = errors.New("no operation selected")

// processRequest is the body of POST /api/process and POST /api/jobs.
// Empty text is accepted; each selected operation then reports empty_input.
type processRequest struct {
	Text                string `json:"text"`
	Summarize           bool   `json:"summarize"`
	Titles              bool   `json:"titles"`
	Question            string `json:"question" validate:"max=2000"`
	Recommendations     bool   `json:"recommendations"`
	All                 bool   `json:"all"`
	TitleCount          int    `json:"title_count" validate:"gte=0,lte=20"`
	RecommendationCount int    `json:"recommendation_count" validate:"gte=0,lte=20"`
}

func (req processRequest) selection() assistant.Selection {
	return assistant.Selection{
		Summary:             req.Summarize,
		Titles:              req.Titles,
		Question:            req.Question,
		Recommendations:     req.Recommendations,
		All:                 req.All,
		TitleCount:          req.TitleCount,
		RecommendationCount: req.RecommendationCount,
	}
}

// operationResult is the JSON form of one operation's outcome.
type operationResult struct {
	OK        bool     `json:"ok"`
	Text      string   `json:"text,omitempty"`
	Items     []string `json:"items,omitempty"`
	Backend   string   `json:"backend,omitempty"`
	ErrorKind string   `json:"error_kind,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type processResponse struct {
	OK      bool                       `json:"ok"`
	Results map[string]operationResult `json:"results"`
}

func fromResult(r llm.Result) operationResult {
	if !r.OK() {
		return failed(r.Failure)
	}
	return operationResult{OK: true, Text: r.Text, Backend: r.Backend}
}

func fromList(r assistant.ListResult) operationResult {
	if !r.OK() {
		return failed(r.Failure)
	}
	return operationResult{OK: true, Items: r.Items, Backend: r.Backend}
}

func failed(f *llm.Failure) operationResult {
	return operationResult{ErrorKind: string(f.Kind), Error: f.Message()}
}

func newProcessResponse(res assistant.Results) processResponse {
	out := processResponse{OK: res.OK(), Results: make(map[string]operationResult, 4)}
	if res.Summary != nil {
		out.Results[assistant.KeySummary] = fromResult(*res.Summary)
	}
	if res.Titles != nil {
		out.Results[assistant.KeyTitles] = fromList(*res.Titles)
	}
	if res.Answer != nil {
		out.Results[assistant.KeyAnswer] = fromResult(*res.Answer)
	}
	if res.Recommendations != nil {
		out.Results[assistant.KeyRecommendations] = fromList(*res.Recommendations)
	}
	return out
}

// processHandler runs the selected operations synchronously. Operation
// failures are reported in the body, not as HTTP errors.
func processHandler(deps app.Deps, v *httputil.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processRequest
		if err := httputil.DecodeJSON(r, v, &req); err != nil {
			httputil.Fail(deps.Log, w, "invalid request", err, http.StatusBadRequest)
			return
		}
		sel := req.selection()
		if sel.Empty() {
			httputil.Fail(deps.Log, w, errNoOperation.Error(), errNoOperation, http.StatusBadRequest)
			return
		}
		res := deps.Assistant.Process(r.Context(), req.Text, sel)
		httputil.WriteJSON(w, http.StatusOK, newProcessResponse(res))
	}
}

// uploadHandler accepts a multipart "file" (txt or pdf) and the operation
// selection as form values.
func uploadHandler(deps app.Deps, v *httputil.Validator) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize)

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}
		if _, err := document.DetectContentType(header.Filename, header.Header.Get("Content-Type")); err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}

		req, err := formRequest(r)
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid form value", err, http.StatusBadRequest)
			return
		}
		if err := v.Struct(req); err != nil {
			httputil.Fail(deps.Log, w, "invalid request", err, http.StatusBadRequest)
			return
		}
		sel := req.selection()
		if sel.Empty() {
			httputil.Fail(deps.Log, w, errNoOperation.Error(), errNoOperation, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}
		text, err := document.ExtractText(header.Filename, content)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to extract text", err, http.StatusUnprocessableEntity)
			return
		}

		deps.Log.Info("processing upload", "filename", header.Filename, "bytes", len(content))
		res := deps.Assistant.Process(r.Context(), text, sel)
		httputil.WriteJSON(w, http.StatusOK, newProcessResponse(res))
	}
}

func formRequest(r *http.Request) (processRequest, error) {
	var (
		req  processRequest
		errs []error
	)
	boolField := func(name string, dst *bool) {
		raw := r.FormValue(name)
		if raw == "" {
			return
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = b
	}
	intField := func(name string, dst *int) {
		raw := r.FormValue(name)
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = n
	}

	boolField("summarize", &req.Summarize)
	boolField("titles", &req.Titles)
	boolField("recommendations", &req.Recommendations)
	boolField("all", &req.All)
	intField("title_count", &req.TitleCount)
	intField("recommendation_count", &req.RecommendationCount)
	req.Question = r.FormValue("question")
	return req, errors.Join(errs...)
}
