package extract

import (
	"strings"

	"github.com/goccy/go-yaml"
)

// frontmatter is the structured header block of a SKILL.md manifest.
type frontmatter struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Version      string `yaml:"version"`
	AllowedTools string `yaml:"allowed-tools"`
	Author       string `yaml:"author"`
	License      string `yaml:"license"`
}

// parseFrontmatter extracts the YAML frontmatter and body from markdown
// content. Content without a leading "---" fence, or with malformed YAML,
// yields a zero-value frontmatter, the full content as body, and ok=false.
func parseFrontmatter(content string) (fm frontmatter, body string, ok bool) {
	if !strings.HasPrefix(content, "---") {
		return frontmatter{}, content, false
	}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return frontmatter{}, content, false
	}

	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return frontmatter{}, content, false
	}

	return fm, strings.TrimSpace(parts[2]), true
}
