package logctx_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formserve/internal/logctx"
)

func TestHandlerAddsRequestGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logctx.New(slog.NewJSONHandler(&buf, nil))).With("component", "test")

	ctx := logctx.WithRequestData(context.Background(), &logctx.RequestData{
		RequestID:  "abc",
		Method:     "POST",
		Path:       "/submit",
		RemoteAddr: "127.0.0.1:1234",
	})
	logger.InfoContext(ctx, "hello")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	want := map[string]any{
		"id":          "abc",
		"method":      "POST",
		"path":        "/submit",
		"remote_addr": "127.0.0.1:1234",
	}
	if diff := cmp.Diff(want, got["req"]); diff != "" {
		t.Fatalf("req group mismatch (-want +got):\n%s", diff)
	}
	if got["component"] != "test" {
		t.Fatalf("attrs from With were lost: %v", got)
	}
}

func TestHandlerWithoutRequestData(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logctx.New(slog.NewJSONHandler(&buf, nil)))
	logger.InfoContext(context.Background(), "plain")

	if bytes.Contains(buf.Bytes(), []byte(`"req"`)) {
		t.Fatalf("unexpected req group: %s", buf.String())
	}
}
