package parsers

import (
	"bufio"
	"os"
	"strconv"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/tidwall/gjson"
)

// ParseSessionContent performs a full streaming parse of a session's
// *.jsonl file, materializing its ordered message list. Unlike
// ParseSessionIndex this is never run eagerly for every session on disk: it
// is invoked on demand (see internal/contentcache) because holding every
// session's full content in memory at once would be wasteful for archives
// with thousands of sessions.
func ParseSessionContent(id models.SessionID, path string) (models.SessionContent, []models.LoadError) {
	f, err := os.Open(path)
	if err != nil {
		return models.SessionContent{ID: id}, []models.LoadError{
			{Kind: models.ErrMissing, Path: path, Context: err.Error()},
		}
	}
	defer f.Close()

	content := models.SessionContent{ID: id}
	var errs []models.LoadError

	reader := bufio.NewReaderSize(f, 64*1024)
	lineNo := 0
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
			errs = append(errs, models.LoadError{
				Kind: models.ErrPartiallyMalformed, Path: path,
				Context: "line " + strconv.Itoa(lineNo) + " exceeds line limit",
			})
			if readErr != nil {
				break
			}
			continue
		}
		if !gjson.ValidBytes(line) {
			errs = append(errs, models.LoadError{
				Kind: models.ErrPartiallyMalformed, Path: path,
				Context: "line " + strconv.Itoa(lineNo) + " is not valid JSON",
			})
			continue
		}
		rec := gjson.ParseBytes(line)
		msg, ok := messageFromRecord(rec)
		if ok {
			content.Messages = append(content.Messages, msg)
		}
		if readErr != nil {
			break
		}
	}
	return content, errs
}

func messageFromRecord(rec gjson.Result) (models.Message, bool) {
	roleStr := firstNonEmptyString(rec, "message.role", "role", "type")
	role := models.RoleFromString(roleStr)
	if role == "" {
		return models.Message{}, false
	}

	msg := models.Message{Role: role}
	msg.Text = extractUserText(rec)
	msg.Model = firstNonEmptyString(rec, "model", "message.model")

	if ts := firstNonEmptyString(rec, "timestamp", "message.timestamp"); ts != "" {
		if t, ok := parseTimestamp(ts); ok {
			msg.Timestamp = &t
		}
	}

	usage := rec.Get("usage")
	if !usage.Exists() {
		usage = rec.Get("message.usage")
	}
	if usage.Exists() {
		tc := models.TokenCounts{
			Input:      usage.Get("input_tokens").Int(),
			Output:     usage.Get("output_tokens").Int(),
			CacheRead:  firstInt(usage, "cache_read_input_tokens", "cache_read_tokens"),
			CacheWrite: firstInt(usage, "cache_creation_input_tokens", "cache_write_tokens"),
		}
		msg.Usage = &tc
	}

	content := rec.Get("message.content")
	if !content.Exists() {
		content = rec.Get("content")
	}
	if content.IsArray() {
		content.ForEach(func(_, block gjson.Result) bool {
			if block.Get("type").String() != "tool_use" {
				return true
			}
			tc := models.ToolCall{
				Name: block.Get("name").String(),
			}
			if input := block.Get("input"); input.IsObject() {
				tc.Input = map[string]any{}
				input.ForEach(func(k, v gjson.Result) bool {
					tc.Input[k.String()] = v.Value()
					return true
				})
			}
			if tc.Name == "Task" {
				tc.SubagentType = block.Get("input.subagent_type").String()
			}
			msg.ToolCalls = append(msg.ToolCalls, tc)
			return true
		})
	}

	return msg, true
}
