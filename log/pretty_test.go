package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestPretty_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithLevel(LevelTrace), WithTimeLayout("none"))
	logger.Trace("fold",
		slog.String("after", "14"),
		slog.Int("depth", 2),
		slog.Bool("pure", true),
		slog.Duration("took", time.Millisecond),
		slog.Any("err", errors.New("boom")),
		slog.Any("nothing", nil))

	want := "level=TRACE msg=fold after=14 depth=2 pure=true took=1ms err=boom nothing=null\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPretty_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	logger.Warn("slow", slog.Float64("ratio", 1.5))

	want := "{\n  level: WARN,\n  msg: slow,\n  ratio: 1.5\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPretty_Groups(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none")).
		With(slog.String("cmd", "eval"))

	logger.Info("failed", slog.Group("error",
		slog.String("msg", "unknown symbol"),
		slog.Int("offset", 4)))

	want := "level=INFO msg=failed cmd=eval error.msg=unknown symbol error.offset=4\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPretty_WithGroup(t *testing.T) {
	var buf bytes.Buffer

	h := newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, FormatText)

	slog.New(h.WithGroup("repl").WithAttrs([]slog.Attr{slog.Int("line", 3)})).
		Info("read", slog.String("input", "1 + 2"))

	out := buf.String()
	for _, want := range []string{"repl.line=3", "repl.input=1 + 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q is missing %q", out, want)
		}
	}
}

type lazy struct{ calls *int }

func (l lazy) LogValue() slog.Value {
	*l.calls++

	return slog.StringValue("resolved")
}

func TestPretty_LogValuer(t *testing.T) {
	var (
		buf   bytes.Buffer
		calls int
	)

	logger := Make(&buf, WithFormat(FormatText), WithLevel(LevelInfo))

	logger.Debug("skipped", slog.Any("v", lazy{&calls}))

	if calls != 0 {
		t.Errorf("disabled record resolved its value %d times", calls)
	}

	logger.Info("kept", slog.Any("v", lazy{&calls}))

	if calls != 1 || !strings.Contains(buf.String(), "v=resolved") {
		t.Errorf("calls = %d, output %q", calls, buf.String())
	}
}
