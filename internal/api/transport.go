package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ahinestrog/gamingboost/internal/metrics"
)

// HeaderRequestID correlates a client log line with the server's.
const HeaderRequestID = "X-Request-ID"

type opKey struct{}

func withOp(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey{}, op)
}

func opFrom(ctx context.Context) string {
	if op, ok := ctx.Value(opKey{}).(string); ok {
		return op
	}
	return "unknown"
}

// Los cuerpos de estas operaciones llevan credenciales: nunca se loguean.
var redactedOps = map[string]bool{"login": true}

// loggingTransport logs every request/response pair and feeds the API metrics.
// Bodies are only read when trace logging is on.
type loggingTransport struct {
	next    http.RoundTripper
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func (t *loggingTransport) traceBodies(op string) bool {
	return !redactedOps[op] && t.log.GetLevel() <= zerolog.TraceLevel && zerolog.GlobalLevel() <= zerolog.TraceLevel
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	op := opFrom(req.Context())
	done := t.metrics.Begin(op)
	start := time.Now()

	l := t.log.With().
		Str("op", op).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Logger()

	if t.traceBodies(op) && req.GetBody != nil {
		if rc, err := req.GetBody(); err == nil {
			b, _ := io.ReadAll(rc)
			_ = rc.Close()
			l.Trace().Bytes("body", b).Msg("--> request")
		}
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		done(0)
		l.Warn().Err(err).Dur("took", time.Since(start)).Msg("<-- transport error")
		return nil, err
	}
	done(resp.StatusCode)

	if t.traceBodies(op) {
		b, rerr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(b))
		if rerr == nil {
			l.Trace().Bytes("body", b).Msg("<-- response body")
		}
	}

	lvl := zerolog.DebugLevel
	if resp.StatusCode >= 400 {
		lvl = zerolog.InfoLevel
	}
	l.WithLevel(lvl).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("<-- response")
	return resp, nil
}
