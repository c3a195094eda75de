package observability_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/xraph/strand/hook"
	"github.com/xraph/strand/observability"
)

func captureLogger() (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return &buf, l
}

func TestLogging_ContextLifecycle(t *testing.T) {
	buf, l := captureLogger()
	h := observability.Logging(l)
	c := testInfo("pipeline")

	_ = h.OnContextStarted(c)
	_ = h.OnContextFinished(c, nil, 25*time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		`msg="context started"`,
		`msg="context finished"`,
		"context_id=" + c.ID.String(),
		"context_name=pipeline",
		"level=INFO",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogging_FailureLogsAtWarn(t *testing.T) {
	buf, l := captureLogger()
	h := observability.Logging(l)

	_ = h.OnContextFinished(testInfo("pipeline"), errors.New("service failed"), time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"level=WARN",
		`msg="context failed"`,
		`error="service failed"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogging_JobAndMessageEventsAtDebug(t *testing.T) {
	buf, l := captureLogger()
	h := observability.Logging(l)
	c := testInfo("pipeline")

	_ = h.OnJobAdded(c, hook.KindTask)
	_ = h.OnMessageDelivered(c, hook.KindPrimary, nil)
	_ = h.OnJobFinished(c, hook.KindTask)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG",
		`msg="job added"`,
		`msg="message delivered"`,
		`msg="job finished"`,
		"kind=task",
		"source=primary",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogging_SpawnedErrorAtWarn(t *testing.T) {
	buf, l := captureLogger()
	h := observability.Logging(l)

	_ = h.OnSpawnedError(testInfo("pipeline"), errors.New("spawned boom"))

	out := buf.String()
	if !strings.Contains(out, `msg="spawned task failed"`) || !strings.Contains(out, "level=WARN") {
		t.Errorf("log output missing spawned failure warning:\n%s", out)
	}
}

func TestLogging_NilLoggerUsesDefault(t *testing.T) {
	h := observability.Logging(nil)
	c := testInfo("noop")

	_ = h.OnContextStarted(c)
	_ = h.OnContextFinished(c, nil, time.Millisecond)
}
