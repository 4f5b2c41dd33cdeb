package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// TextWriter converts zerolog JSON lines into fixed-column text:
//
//	2026-10-14 09:00:00.000 [INF] [service     ] Service running state=Running
type TextWriter struct {
	w io.Writer
}

// NewTextWriter wraps w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

var levelTags = map[string]string{
	"trace": "TRC",
	"debug": "DBG",
	"info":  "INF",
	"warn":  "WRN",
	"error": "ERR",
	"fatal": "FTL",
	"panic": "PNC",
}

const (
	componentColumn = 12
	timestampLayout = "2006-01-02 15:04:05.000"
)

func (t *TextWriter) Write(p []byte) (int, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(p, &fields); err != nil {
		return t.w.Write(p)
	}

	ts := formatTime(popString(fields, timeField))
	lvl, ok := levelTags[popString(fields, "level")]
	if !ok {
		lvl = "???"
	}
	comp := popString(fields, "component")
	if len(comp) > componentColumn {
		comp = comp[:componentColumn]
	}
	msg := popString(fields, "message")

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%-*s] %s", ts, lvl, componentColumn, comp, msg)
	if extra := joinFields(fields); extra != "" {
		b.WriteByte(' ')
		b.WriteString(extra)
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(t.w, b.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}

const timeField = "time"

func popString(fields map[string]interface{}, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	delete(fields, key)
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func formatTime(raw string) string {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fmt.Sprintf("%-*s", len(timestampLayout), raw)
	}
	return ts.Format(timestampLayout)
}

func joinFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := fmt.Sprint(fields[k])
		if strings.ContainsAny(v, " \t\n\"") {
			v = fmt.Sprintf("%q", v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}
