package api

import (
	"strings"

	"github.com/ccboard/ccboard/internal/models"
)

const mcpSecretPlaceholder = "***"

var mcpSecretSubstrings = []string{"API_KEY", "TOKEN", "SECRET", "PASSWORD"}

// looksLikeSecretEnvKey reports whether an MCP server's env var name
// matches the secret-looking patterns from the masking rule: it contains
// API_KEY, TOKEN, SECRET, or PASSWORD, or ends in _KEY.
func looksLikeSecretEnvKey(key string) bool {
	upper := strings.ToUpper(key)
	if strings.HasSuffix(upper, "_KEY") {
		return true
	}
	for _, sub := range mcpSecretSubstrings {
		if strings.Contains(upper, sub) {
			return true
		}
	}
	return false
}

// maskMcpConfig returns a copy of cfg with secret-looking env values
// replaced by a placeholder. Masking happens here, at render time, rather
// than in the parser, so that any future non-API consumer of McpConfig
// (e.g. the TUI) still sees the real values.
func maskMcpConfig(cfg models.McpConfig) models.McpConfig {
	out := models.McpConfig{Servers: make(map[string]models.McpServerConfig, len(cfg.Servers))}
	for name, server := range cfg.Servers {
		masked := server
		if len(server.Env) > 0 {
			maskedEnv := make(map[string]string, len(server.Env))
			for k, v := range server.Env {
				if looksLikeSecretEnvKey(k) {
					maskedEnv[k] = mcpSecretPlaceholder
				} else {
					maskedEnv[k] = v
				}
			}
			masked.Env = maskedEnv
		}
		out.Servers[name] = masked
	}
	return out
}
