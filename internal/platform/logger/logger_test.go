package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	pnet "storefront/internal/platform/net"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"INFO":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		" error ":  zerolog.ErrorLevel,
		"panic":    zerolog.PanicLevel,
		"":         zerolog.DebugLevel,
		"nonsense": zerolog.DebugLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "parseLevel(%q)", in)
	}
}

// lines decodes one json object per line
func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(ln), &m))
		out = append(out, m)
	}
	return out
}

func TestBuild_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := build(Options{
		Level:        "info",
		Format:       "json",
		Service:      "storefront",
		Component:    "api",
		Writer:       &buf,
		StaticFields: map[string]string{"region": "eu"},
	})

	log.Debug().Msg("dropped")
	log.Info().Str("path", "/dashboard").Msg("route gate denied")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "route gate denied", got[0]["message"])
	assert.Equal(t, "storefront", got[0]["service"])
	assert.Equal(t, "api", got[0]["component"])
	assert.Equal(t, "eu", got[0]["region"])
	assert.Equal(t, "/dashboard", got[0]["path"])
}

func TestBuild_Console(t *testing.T) {
	var buf bytes.Buffer
	log := build(Options{Level: "debug", Format: "console", Writer: &buf, Service: "storefront"})
	log.Info().Msg("csrf token issued")
	assert.Contains(t, buf.String(), "csrf token issued")
	assert.Contains(t, buf.String(), "service=")
}

func TestC_CarriesRequestAndSubject(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Writer: &buf})

	ctx := pnet.WithSubject(pnet.WithRequestID(context.Background(), "req-123"), "sub-abc")
	C(ctx).Info().Msg("ctx-msg")
	Named("webhooks").Info().Msg("named-msg")
	C(context.Background()).Info().Msg("bare-msg")

	// Init is once per process; only assert when this test won the race
	if buf.Len() == 0 {
		t.Skip("root logger initialised elsewhere")
	}
	got := lines(t, &buf)
	require.Len(t, got, 3)
	assert.Equal(t, "req-123", got[0]["request_id"])
	assert.Equal(t, "sub-abc", got[0]["subject_id"])
	assert.Equal(t, "webhooks", got[1]["component"])
	assert.NotContains(t, got[2], "request_id")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_COMPONENT", "grant")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	assert.Equal(t, "warn", opt.Level)
	assert.Equal(t, "json", opt.Format)
	assert.Equal(t, "storefront", opt.Service)
	assert.Equal(t, "grant", opt.Component)
	assert.True(t, opt.WithCaller)
	assert.Equal(t, 5, opt.SampleEvery)
}
