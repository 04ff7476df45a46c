package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("attaches a request scoped logger to the context", func(t *testing.T) {
		t.Parallel()

		var buffer bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buffer, nil))

		var sawLogger bool
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawLogger = LoggerFromContext(r.Context()) != nil
			w.WriteHeader(http.StatusOK)
		}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/agenda", nil))

		if !sawLogger {
			t.Fatal("expected a logger in the request context")
		}
		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
		}
	})

	t.Run("logs start and completion with increasing request ids", func(t *testing.T) {
		t.Parallel()

		var buffer bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buffer, nil))

		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		for range 2 {
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/plans", nil))
		}

		var ids []float64
		decoder := json.NewDecoder(&buffer)
		for decoder.More() {
			var entry map[string]any
			if err := decoder.Decode(&entry); err != nil {
				t.Fatalf("decode log entry: %v", err)
			}
			if entry["path"] != "/plans" {
				t.Fatalf("path = %v, want /plans", entry["path"])
			}
			id, ok := entry["request_id"].(float64)
			if !ok {
				t.Fatalf("request_id missing from entry: %v", entry)
			}
			ids = append(ids, id)
		}

		if len(ids) != 4 {
			t.Fatalf("expected 4 log entries (start/complete per request), got %d", len(ids))
		}
		if ids[0] != 1 || ids[2] != 2 {
			t.Fatalf("request ids should increase per request, got %v", ids)
		}
	})
}

func TestResponderLoggerSelection(t *testing.T) {
	t.Parallel()

	var contextBuf, fallbackBuf bytes.Buffer
	contextLogger := slog.New(slog.NewJSONHandler(&contextBuf, nil))
	fallbackLogger := slog.New(slog.NewJSONHandler(&fallbackBuf, nil))

	r := newResponder(fallbackLogger)

	ctx := ContextWithLogger(context.Background(), contextLogger)
	r.operationLogger(ctx, "agenda", "plan_calendar").Info("calendar written")
	if contextBuf.Len() == 0 {
		t.Fatal("expected the request scoped logger to receive the entry")
	}
	if fallbackBuf.Len() != 0 {
		t.Fatal("fallback logger should stay silent when the context carries one")
	}

	var entry map[string]any
	if err := json.Unmarshal(contextBuf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["handler"] != "agenda" || entry["operation"] != "plan_calendar" {
		t.Fatalf("entry should carry handler and operation attrs: %v", entry)
	}

	r.operationLogger(context.Background(), "agenda", "agenda").Info("listed")
	if fallbackBuf.Len() == 0 {
		t.Fatal("expected the fallback logger to receive the entry")
	}
}
