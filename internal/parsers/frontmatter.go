package parsers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ccboard/ccboard/internal/models"
	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// ParseFrontmatter splits a Markdown file into YAML frontmatter and body.
// A file with no frontmatter block is still returned successfully, with an
// empty Metadata map and the whole file as Body: agents/commands/skills are
// usable without any declared metadata.
func ParseFrontmatter(path string) (models.FrontmatterDoc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.FrontmatterDoc{}, models.LoadError{Kind: models.ErrMissing, Path: path, Context: err.Error()}
	}
	text := string(raw)
	doc := models.FrontmatterDoc{Path: path, Metadata: map[string]any{}}

	meta, body, ok := splitFrontmatter(text)
	if !ok {
		doc.Body = text
		doc.Name = stemName(path)
		return doc, nil
	}
	if err := yaml.Unmarshal([]byte(meta), &doc.Metadata); err != nil {
		return models.FrontmatterDoc{}, models.LoadError{Kind: models.ErrMalformed, Path: path, Context: err.Error()}
	}
	doc.Body = body

	if name, ok := doc.Metadata["name"].(string); ok && name != "" {
		doc.Name = name
	} else {
		doc.Name = stemName(path)
	}
	return doc, nil
}

// splitFrontmatter extracts the YAML block between the first two "---"
// delimiter lines. ok is false when the file does not open with one.
func splitFrontmatter(text string) (meta, body string, ok bool) {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelim {
		return "", "", false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelim {
			return strings.Join(lines[1:i], ""), strings.Join(lines[i+1:], ""), true
		}
	}
	return "", "", false
}

func stemName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ScanSkills recursively walks dir for SKILL.md files, the one filename
// skills use regardless of how deeply their directory is nested, and
// parses each one's frontmatter.
func ScanSkills(dir string) ([]models.FrontmatterDoc, []models.LoadError) {
	var docs []models.FrontmatterDoc
	var errs []models.LoadError

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree entry, skip it and keep walking siblings
		}
		if d.IsDir() || d.Name() != "SKILL.md" {
			return nil
		}
		doc, parseErr := ParseFrontmatter(path)
		if parseErr != nil {
			if le, ok := parseErr.(models.LoadError); ok {
				errs = append(errs, le)
			}
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		errs = append(errs, models.LoadError{Kind: models.ErrMissing, Path: dir, Context: err.Error()})
	}
	return docs, errs
}

// ScanFrontmatterDir parses every *.md file directly inside dir (used for
// the flat agents/ and commands/ directories, as opposed to the nested
// skills/ tree handled by ScanSkills).
func ScanFrontmatterDir(dir string) ([]models.FrontmatterDoc, []models.LoadError) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []models.LoadError{{Kind: models.ErrMissing, Path: dir, Context: err.Error()}}
	}

	var docs []models.FrontmatterDoc
	var errs []models.LoadError
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := ParseFrontmatter(path)
		if err != nil {
			if le, ok := err.(models.LoadError); ok {
				errs = append(errs, le)
			}
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}
