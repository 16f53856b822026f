package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"scheduling/internal/platform/logger"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"select 1":                     "select 1",
		"  select   1  ":               "select 1",
		"SELECT\t*\nFROM\r\tt WHERE  a": "SELECT * FROM t WHERE a",
		"":                             "",
	}
	for in, want := range cases {
		if got := compact(in); got != want {
			t.Fatalf("compact(%q) = %q want %q", in, got, want)
		}
	}
}

type logLine struct {
	Level     string  `json:"level"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Slow      bool    `json:"slow"`
	SQL       string  `json:"sql"`
	Args      int     `json:"args"`
	Error     string  `json:"error"`
	Component string  `json:"component"`
	RequestID string  `json:"request_id"`
}

func trace(t *testing.T, ctx context.Context, ev QueryEvent) logLine {
	t.Helper()
	var buf bytes.Buffer
	// root is at error level; the tracer must still emit
	Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel)).OnQuery(ctx, ev)
	var ll logLine
	if err := json.Unmarshal(buf.Bytes(), &ll); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return ll
}

func TestTracer_Levels(t *testing.T) {
	t.Parallel()

	ll := trace(t, context.Background(), QueryEvent{SQL: "SELECT\n 1", Args: []any{1, "x"}, ElapsedUS: 1500})
	if ll.Level != "debug" || ll.SQL != "SELECT 1" || ll.Args != 2 || ll.ElapsedMS != 1.5 || ll.Component != "pg" {
		t.Fatalf("debug line: %+v", ll)
	}

	ll = trace(t, context.Background(), QueryEvent{SQL: "x", Slow: true})
	if ll.Level != "warn" || !ll.Slow {
		t.Fatalf("slow line: %+v", ll)
	}

	ll = trace(t, context.Background(), QueryEvent{SQL: "x", Err: errors.New("boom")})
	if ll.Level != "warn" || ll.Error != "boom" {
		t.Fatalf("error line: %+v", ll)
	}
}

func TestTracer_RequestID(t *testing.T) {
	t.Parallel()

	ctx := logger.WithRequest(context.Background(), "rid-7")
	if ll := trace(t, ctx, QueryEvent{SQL: "x"}); ll.RequestID != "rid-7" {
		t.Fatalf("request id missing: %+v", ll)
	}
}
