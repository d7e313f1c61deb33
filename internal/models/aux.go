package models

// Hook describes one executable hook script discovered under
// .claude/hooks/bash.
type Hook struct {
	Name            string
	Path            string
	ShebangValid    bool
	Executable      bool
}

// FrontmatterDoc is the parsed result of an agent/command/skill Markdown
// file: YAML frontmatter plus body.
type FrontmatterDoc struct {
	Path     string
	Metadata map[string]any
	Body     string
	Name     string // derived: frontmatter "name" key, else filename stem
}
