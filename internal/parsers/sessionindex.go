package parsers

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/tidwall/gjson"
)

// maxLineBytes is the hard per-line cap: lines larger
// than this are skipped with a LoadError rather than read into memory.
const maxLineBytes = 10 * 1024 * 1024

// SessionIndexResult is the outcome of indexing one *.jsonl session file.
type SessionIndexResult struct {
	Metadata models.SessionMetadata
	Errors   []models.LoadError // per-line errors; the file as a whole still "loaded"
}

// ParseSessionIndex extracts a lightweight SessionMetadata from path
// without materializing the full message list. It tolerates
// individual malformed or oversized lines, skipping them and recording a
// LoadError, and never returns a fatal error for anything short of being
// unable to open the file at all.
func ParseSessionIndex(path string, mtime int64) (SessionIndexResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return SessionIndexResult{}, models.LoadError{Kind: models.ErrMissing, Path: path, Context: err.Error()}
	}
	defer f.Close()

	id := models.SessionID(strings.TrimSuffix(filepath.Base(path), ".jsonl"))
	project := filepath.Base(filepath.Dir(path))

	meta := models.SessionMetadata{
		ID:      id,
		Path:    path,
		Project: project,
		Mtime:   mtime,
	}

	result := SessionIndexResult{}
	modelsSeen := map[string]struct{}{}
	snippetSet := false
	branchSet := false
	lineNo := 0

	reader := bufio.NewReaderSize(f, 64*1024)
	for {
		line, truncated, readErr := readLineCapped(reader, maxLineBytes)
		if len(line) == 0 && readErr != nil {
			break
		}
		lineNo++
		if len(line) == 0 {
			if readErr != nil {
				break
			}
			continue
		}
		if truncated {
			result.Errors = append(result.Errors, models.LoadError{
				Kind: models.ErrPartiallyMalformed, Path: path,
				Context: "line " + strconv.Itoa(lineNo) + " exceeds 10MB limit",
			})
			if readErr != nil {
				break
			}
			continue
		}
		if !gjson.ValidBytes(line) {
			result.Errors = append(result.Errors, models.LoadError{
				Kind: models.ErrPartiallyMalformed, Path: path,
				Context: "line " + strconv.Itoa(lineNo) + " is not valid JSON",
			})
			continue
		}
		rec := gjson.ParseBytes(line)
		meta.MessageCount++

		ts := firstNonEmptyString(rec, "timestamp", "message.timestamp")
		if t, ok := parseTimestamp(ts); ok {
			if meta.FirstTimestamp == nil {
				meta.FirstTimestamp = &t
			}
			meta.LastTimestamp = &t
		}

		// usage may live at the record root or nested under "message".
		usage := rec.Get("usage")
		if !usage.Exists() {
			usage = rec.Get("message.usage")
		}
		if usage.Exists() {
			meta.Tokens.Input += usage.Get("input_tokens").Int()
			meta.Tokens.Output += usage.Get("output_tokens").Int()
			meta.Tokens.CacheRead += firstInt(usage, "cache_read_input_tokens", "cache_read_tokens")
			meta.Tokens.CacheWrite += firstInt(usage, "cache_creation_input_tokens", "cache_write_tokens")
		}

		if modelName := firstNonEmptyString(rec, "model", "message.model"); modelName != "" {
			if _, ok := modelsSeen[modelName]; !ok {
				modelsSeen[modelName] = struct{}{}
				meta.Models = append(meta.Models, modelName)
			}
		}

		role := firstNonEmptyString(rec, "message.role", "role", "type")
		if !branchSet {
			if b := rec.Get("gitBranch"); b.Exists() {
				meta.Branch = models.NormalizeBranch(b.String())
				branchSet = true
			}
		}

		if !meta.HasSubagents {
			if hasTaskToolCall(rec) {
				meta.HasSubagents = true
			}
		}

		if !snippetSet && role == "user" {
			text := extractUserText(rec)
			if text != "" && IsMeaningfulUserMessage(text) {
				meta.FirstSnippet = Snippet(text, 200)
				snippetSet = true
			}
		}
	}

	result.Metadata = meta
	return result, nil
}

func firstNonEmptyString(rec gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := rec.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func firstInt(rec gjson.Result, paths ...string) int64 {
	for _, p := range paths {
		if v := rec.Get(p); v.Exists() {
			return v.Int()
		}
	}
	return 0
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, false
		}
	}
	return t.UTC(), true
}

// readLineCapped reads one newline-terminated line from r, refusing to
// buffer more than limit bytes. If a line exceeds limit, the overflow is
// discarded up to the next newline and the returned line is truncated with
// truncated=true rather than growing without bound.
func readLineCapped(r *bufio.Reader, limit int) (line []byte, truncated bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, readErr := r.ReadLine()
		if len(chunk) > 0 {
			if len(buf)+len(chunk) <= limit {
				buf = append(buf, chunk...)
			} else {
				truncated = true
			}
		}
		if readErr != nil {
			return buf, truncated, readErr
		}
		if !isPrefix {
			return buf, truncated, nil
		}
	}
}

func hasTaskToolCall(rec gjson.Result) bool {
	content := rec.Get("message.content")
	if !content.Exists() {
		content = rec.Get("content")
	}
	found := false
	if content.IsArray() {
		content.ForEach(func(_, block gjson.Result) bool {
			if block.Get("type").String() == "tool_use" && block.Get("name").String() == "Task" {
				found = true
				return false
			}
			return true
		})
	}
	return found
}

func extractUserText(rec gjson.Result) string {
	content := rec.Get("message.content")
	if !content.Exists() {
		content = rec.Get("content")
	}
	if content.Type == gjson.String {
		return content.String()
	}
	if content.IsArray() {
		var sb strings.Builder
		content.ForEach(func(_, block gjson.Result) bool {
			if block.Get("type").String() == "text" {
				sb.WriteString(block.Get("text").String())
			}
			return true
		})
		return sb.String()
	}
	return ""
}

