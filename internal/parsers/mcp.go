package parsers

import (
	"encoding/json"
	"os"

	"github.com/ccboard/ccboard/internal/models"
)

// ParseMcpConfig reads the MCP server registry file, returning an empty
// McpConfig (not an error) if the file does not exist: most installs never
// configure any MCP servers.
func ParseMcpConfig(path string) (models.McpConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.McpConfig{Servers: map[string]models.McpServerConfig{}}, nil
		}
		return models.McpConfig{}, models.LoadError{Kind: models.ErrMissing, Path: path, Context: err.Error()}
	}

	var doc struct {
		McpServers map[string]models.McpServerConfig `json:"mcpServers"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.McpConfig{}, models.LoadError{Kind: models.ErrMalformed, Path: path, Context: err.Error()}
	}
	if doc.McpServers == nil {
		doc.McpServers = map[string]models.McpServerConfig{}
	}
	return models.McpConfig{Servers: doc.McpServers}, nil
}
