package parsers

import (
	"os"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/tidwall/gjson"
)

// statsRetries and statsRetryDelay bound how long ParseStats will keep
// retrying a transient read failure - the assistant may be mid-write to
// the stats file when a load or reload happens to race it.
const (
	statsRetries    = 3
	statsRetryDelay = 100 * time.Millisecond
)

// ParseStats reads the assistant's own usage-statistics snapshot. Per-model
// token counts are taken as-is from the file; cost figures are intentionally
// left at zero here because they are never trusted from the snapshot -
// internal/pricing.Recalculate is the sole authority for cost.
//
// A missing file never retries. Any other read failure, or a file that
// reads back as invalid JSON, is treated as the assistant having caught
// mid-write: ParseStats retries up to statsRetries times at statsRetryDelay
// intervals before giving up and reporting the path as Missing.
func ParseStats(path string) (models.StatsCache, error) {
	var lastErr models.LoadError
	for attempt := 0; attempt <= statsRetries; attempt++ {
		cache, retryable, err := parseStatsOnce(path)
		if err == nil {
			return cache, nil
		}
		lastErr = err.(models.LoadError)
		if !retryable || attempt == statsRetries {
			break
		}
		time.Sleep(statsRetryDelay)
	}
	return models.StatsCache{}, models.LoadError{Kind: models.ErrMissing, Path: path, Context: lastErr.Context}
}

// parseStatsOnce performs a single read-and-parse attempt. retryable
// reports whether the failure looks transient (as opposed to the file
// genuinely not existing, which is never worth retrying).
func parseStatsOnce(path string) (cache models.StatsCache, retryable bool, err error) {
	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return models.StatsCache{}, false, models.LoadError{Kind: models.ErrMissing, Path: path, Context: "no stats file"}
		}
		return models.StatsCache{}, true, models.LoadError{Kind: models.ErrTransient, Path: path, Context: readErr.Error()}
	}
	if !gjson.ValidBytes(raw) {
		return models.StatsCache{}, true, models.LoadError{Kind: models.ErrMalformed, Path: path, Context: "not valid JSON"}
	}

	root := gjson.ParseBytes(raw)
	cache = models.StatsCache{ByModel: map[string]*models.ModelUsage{}}

	byModel := root.Get("models")
	if !byModel.Exists() {
		byModel = root.Get("by_model")
	}
	if byModel.IsObject() {
		byModel.ForEach(func(modelKey, v gjson.Result) bool {
			mu := &models.ModelUsage{
				Model: modelKey.String(),
				Tokens: models.TokenCounts{
					Input:      firstInt(v, "input_tokens", "inputTokens"),
					Output:     firstInt(v, "output_tokens", "outputTokens"),
					CacheRead:  firstInt(v, "cache_read_input_tokens", "cache_read_tokens"),
					CacheWrite: firstInt(v, "cache_creation_input_tokens", "cache_write_tokens"),
				},
			}
			cache.ByModel[modelKey.String()] = mu
			cache.TotalTokens = cache.TotalTokens.Add(mu.Tokens)
			return true
		})
	}

	hourly := root.Get("hourly_counts")
	if !hourly.Exists() {
		hourly = root.Get("hourly")
	}
	if hourly.IsArray() {
		i := 0
		hourly.ForEach(func(_, v gjson.Result) bool {
			if i < 24 {
				cache.HourlyCount[i] = v.Int()
			}
			i++
			return i < 24
		})
	}

	cache.LoadedAt = time.Now().UTC()
	return cache, false, nil
}
