package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"capstan/internal/config"
)

const (
	// FormatConsole renders human-readable lines for terminals.
	FormatConsole = "console"
	// FormatJSON renders one JSON object per line for ingestion.
	FormatJSON = "json"
)

// Options describe how to construct a logger.
type Options struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// Format selects console or json output. Defaults to console.
	Format string
	// OutputPaths lists destinations: "stdout", "stderr", or file paths.
	OutputPaths []string
	// ErrorOutputPaths is accepted for config compatibility; slog routes all
	// records through OutputPaths.
	ErrorOutputPaths []string
	// Development enables source annotation on every record.
	Development bool
}

// New constructs a slog.Logger from the supplied options.
func New(opts Options) (*slog.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	writer, err := openWriters(opts.OutputPaths)
	if err != nil {
		return nil, err
	}

	addSource := opts.Development

	var handler slog.Handler
	switch normalizeFormat(opts.Format) {
	case FormatJSON:
		handler = newJSONHandler(writer, levelVar, addSource)
	case FormatConsole:
		handler = newConsoleHandler(writer, levelVar, addSource)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return slog.New(handler), nil
}

// NewFromConfig builds the standard logger for a loaded configuration,
// writing to stdout and the shared capstan.log inside the log directory.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging: nil config")
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "capstan.log")
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
	})
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return FormatConsole
	}
	return f
}

// openWriters resolves output paths into a single writer, deduplicating
// repeated destinations and creating parent directories for files.
func openWriters(paths []string) (io.Writer, error) {
	if len(paths) == 0 {
		return os.Stdout, nil
	}

	writers := make([]io.Writer, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		switch path {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create log directory for %s: %w", path, err)
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", path, err)
			}
			writers = append(writers, file)
		}
	}

	switch len(writers) {
	case 0:
		return os.Stdout, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func newJSONHandler(writer io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
			case slog.LevelKey:
				attr.Key = "level"
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.MessageKey:
				attr.Key = "msg"
			case slog.SourceKey:
				if source, ok := attr.Value.Any().(*slog.Source); ok && source != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(source.File), source.Line))
				}
			}
			return attr
		},
	})
}

// consoleHandler renders compact single-line records for terminals:
//
//	2024-05-01T10:32:44Z INFO  [workflow] stage started item_id=3 stage=merging
type consoleHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     slog.Leveler
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newConsoleHandler(writer io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{
		mu:        &sync.Mutex{},
		writer:    writer,
		level:     level,
		addSource: addSource,
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.level != nil {
		minLevel = h.level.Level()
	}
	return level >= minLevel
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	sb.WriteString(ts.UTC().Format(time.RFC3339))
	sb.WriteByte(' ')
	sb.WriteString(levelLabel(record.Level))
	sb.WriteByte(' ')

	attrs := make([]slog.Attr, 0, record.NumAttrs()+len(h.attrs))
	attrs = append(attrs, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, flattenAttr(h.groups, attr)...)
		return true
	})

	if component, rest := extractComponent(attrs); component != "" {
		sb.WriteByte('[')
		sb.WriteString(component)
		sb.WriteString("] ")
		attrs = rest
	}

	sb.WriteString(record.Message)

	if h.addSource && record.PC != 0 {
		if src := sourceLabel(record); src != "" {
			sb.WriteString(" [")
			sb.WriteString(src)
			sb.WriteByte(']')
		}
	}

	for _, attr := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(attrString(attr))
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, flattenAttr(h.groups, attr)...)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// flattenAttr expands groups into dotted keys so console output stays flat.
func flattenAttr(groups []string, attr slog.Attr) []slog.Attr {
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		members := attr.Value.Group()
		out := make([]slog.Attr, 0, len(members))
		nested := groups
		if attr.Key != "" {
			nested = append(append([]string(nil), groups...), attr.Key)
		}
		for _, member := range members {
			out = append(out, flattenAttr(nested, member)...)
		}
		return out
	}
	if len(groups) > 0 {
		attr.Key = strings.Join(groups, ".") + "." + attr.Key
	}
	return []slog.Attr{attr}
}

func extractComponent(attrs []slog.Attr) (string, []slog.Attr) {
	for i, attr := range attrs {
		if attr.Key == FieldComponent {
			rest := make([]slog.Attr, 0, len(attrs)-1)
			rest = append(rest, attrs[:i]...)
			rest = append(rest, attrs[i+1:]...)
			return attr.Value.String(), rest
		}
	}
	return "", attrs
}

func sourceLabel(record slog.Record) string {
	frames := runtime.CallersFrames([]uintptr{record.PC})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	return filepath.Base(frame.File) + ":" + strconv.Itoa(frame.Line)
}

func attrString(attr slog.Attr) string {
	return attr.Key + "=" + formatValue(attr.Value)
}

func formatValue(value slog.Value) string {
	value = value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return quoteIfNeeded(value.String())
	case slog.KindInt64:
		return strconv.FormatInt(value.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(value.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(value.Float64(), 'g', -1, 64)
	case slog.KindBool:
		return strconv.FormatBool(value.Bool())
	case slog.KindDuration:
		return value.Duration().String()
	case slog.KindTime:
		return value.Time().UTC().Format(time.RFC3339)
	case slog.KindGroup:
		members := value.Group()
		parts := make([]string, 0, len(members))
		for _, member := range members {
			parts = append(parts, attrString(member))
		}
		sort.Strings(parts)
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return quoteIfNeeded(fmt.Sprint(value.Any()))
	}
}

func quoteIfNeeded(s string) string {
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		switch {
		case r == ' ', r == '"', r == '=':
			return true
		case r < 0x20, r == 0x7f:
			return true
		}
	}
	return false
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN "
	case level >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}
