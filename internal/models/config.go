package models

// ConfigLayer identifies one of the four configuration overlay layers,
// lowest priority first.
type ConfigLayer int

const (
	LayerDefault ConfigLayer = iota
	LayerGlobal
	LayerProject
	LayerLocal
)

func (l ConfigLayer) String() string {
	switch l {
	case LayerDefault:
		return "default"
	case LayerGlobal:
		return "global"
	case LayerProject:
		return "project"
	case LayerLocal:
		return "local"
	default:
		return "unknown"
	}
}

// BudgetConfig is read from MergedConfig's "budget" key.
type BudgetConfig struct {
	MonthlyBudgetUSD  float64 `json:"monthly_budget_usd"`
	AlertThresholdPct float64 `json:"alert_threshold_pct"`
}

// MergedConfig is the result of overlaying the four configuration layers,
// plus a provenance map recording which layer contributed each top-level
// key.
type MergedConfig struct {
	Values     map[string]any
	Provenance map[string]ConfigLayer
	Budget     BudgetConfig
}

// Clone returns a deep-enough copy suitable for handing to a reader: the
// top-level map and provenance map are copied, nested values are shared
// (they are never mutated after construction).
func (m MergedConfig) Clone() MergedConfig {
	values := make(map[string]any, len(m.Values))
	for k, v := range m.Values {
		values[k] = v
	}
	prov := make(map[string]ConfigLayer, len(m.Provenance))
	for k, v := range m.Provenance {
		prov[k] = v
	}
	return MergedConfig{Values: values, Provenance: prov, Budget: m.Budget}
}

// McpServerConfig describes one entry in claude_desktop_config.json.
type McpServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// McpConfig is the parsed claude_desktop_config.json: a name -> server map.
type McpConfig struct {
	Servers map[string]McpServerConfig
}
