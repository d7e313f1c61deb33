package parsers

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/ccboard/ccboard/internal/models"
)

// secretKeySubstrings marks a top-level settings key as sensitive; its
// value is replaced with a fixed placeholder before the merged config is
// ever handed to a reader, TUI, or the REST API.
var secretKeySubstrings = []string{"key", "token", "secret", "password", "apikey"}

const secretPlaceholder = "***"

// settingsLayer pairs a file path with the ConfigLayer it represents.
type settingsLayer struct {
	path  string
	layer models.ConfigLayer
}

// ParseSettings loads and merges the global, project, and local settings
// files in priority order (local wins), producing a MergedConfig with
// per-key provenance. A missing file is not an error: it simply
// contributes nothing. A malformed file is recorded as a LoadError and
// skipped, same as a missing one, so that one bad layer never blocks the
// others from loading.
func ParseSettings(globalPath, projectPath, localPath string) (models.MergedConfig, []models.LoadError) {
	merged := models.MergedConfig{
		Values:     map[string]any{},
		Provenance: map[string]models.ConfigLayer{},
	}
	var errs []models.LoadError

	layers := []settingsLayer{
		{globalPath, models.LayerGlobal},
		{projectPath, models.LayerProject},
		{localPath, models.LayerLocal},
	}
	for _, l := range layers {
		if l.path == "" {
			continue
		}
		values, err := readSettingsFile(l.path)
		if err != nil {
			if le, ok := err.(models.LoadError); ok && le.Kind != models.ErrMissing {
				errs = append(errs, le)
			}
			continue
		}
		for k, v := range values {
			merged.Values[k] = maskIfSecret(k, v)
			merged.Provenance[k] = l.layer
		}
	}

	if budget, ok := merged.Values["budget"]; ok {
		if b, ok := budget.(map[string]any); ok {
			if v, ok := b["monthly_budget_usd"].(float64); ok {
				merged.Budget.MonthlyBudgetUSD = v
			}
			if v, ok := b["alert_threshold_pct"].(float64); ok {
				merged.Budget.AlertThresholdPct = v
			}
		}
	}

	return merged, errs
}

func readSettingsFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.LoadError{Kind: models.ErrMissing, Path: path}
		}
		return nil, models.LoadError{Kind: models.ErrMissing, Path: path, Context: err.Error()}
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, models.LoadError{Kind: models.ErrMalformed, Path: path, Context: err.Error()}
	}
	return values, nil
}

func maskIfSecret(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sub := range secretKeySubstrings {
		if strings.Contains(lower, sub) {
			if _, isString := value.(string); isString {
				return secretPlaceholder
			}
		}
	}
	return value
}
