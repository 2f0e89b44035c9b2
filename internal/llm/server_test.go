package llm

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// fakeServer emulates the subset of the OpenAI API the backends use.
type fakeServer struct {
	*httptest.Server
	chatStatus  int
	chatContent string
	modelStatus int
	listStatus  int
	listed      []string
	chatCalls   atomic.Int32
	modelCalls  atomic.Int32
	listCalls   atomic.Int32
	lastBody    atomic.Value
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{chatStatus: http.StatusOK, modelStatus: http.StatusOK, listStatus: http.StatusOK, chatContent: "fake completion"}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		f.chatCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		f.lastBody.Store(string(body))
		if f.chatStatus != http.StatusOK {
			writeError(w, f.chatStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": f.chatContent},
			}},
		})
	})
	mux.HandleFunc("/v1/models/", func(w http.ResponseWriter, r *http.Request) {
		f.modelCalls.Add(1)
		if f.modelStatus != http.StatusOK {
			writeError(w, f.modelStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       strings.TrimPrefix(r.URL.Path, "/v1/models/"),
			"object":   "model",
			"created":  0,
			"owned_by": "local",
		})
	})
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		f.listCalls.Add(1)
		if f.listStatus != http.StatusOK {
			writeError(w, f.listStatus)
			return
		}
		data := make([]map[string]any, 0, len(f.listed))
		for _, id := range f.listed {
			data = append(data, map[string]any{"id": id, "object": "model", "created": 0, "owned_by": "local"})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) baseURL() string { return f.URL + "/v1/" }

func (f *fakeServer) body() string {
	s, _ := f.lastBody.Load().(string)
	return s
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": http.StatusText(status), "type": "test_error"},
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
