package intent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Draft is a custom intent read from a markdown file, not yet stored
type Draft struct {
	Label       string `yaml:"label"`
	Instruction string `yaml:"-"`
	Path        string `yaml:"-"`
}

// ParseDraft reads a draft from markdown with optional YAML frontmatter.
// The body is the instruction; the label falls back to fallbackLabel.
//
//	---
//	label: Pirate speak
//	---
//	Rewrite the text like a pirate.
func ParseDraft(content, fallbackLabel string) (Draft, error) {
	var d Draft
	body := content

	if rest, ok := strings.CutPrefix(content, "---\n"); ok {
		front, after, found := strings.Cut(rest, "\n---")
		if !found {
			return d, errors.New("unterminated frontmatter")
		}
		if err := yaml.Unmarshal([]byte(front), &d); err != nil {
			return d, fmt.Errorf("parse frontmatter: %w", err)
		}
		body = after
	}

	d.Label = strings.TrimSpace(d.Label)
	if d.Label == "" {
		d.Label = fallbackLabel
	}
	d.Instruction = strings.TrimSpace(body)
	if d.Instruction == "" {
		return d, errors.New("instruction is empty")
	}
	return d, nil
}

// LoadDraft reads one markdown file. The file name without extension is the
// fallback label.
func LoadDraft(path string) (Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	d, err := ParseDraft(strings.ReplaceAll(string(data), "\r\n", "\n"), name)
	if err != nil {
		return Draft{}, fmt.Errorf("%s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

// LoadDrafts reads every *.md file in dir, sorted by name. Invalid files are
// skipped and reported in the returned error list.
func LoadDrafts(dir string) ([]Draft, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var (
		out  []Draft
		errs []error
	)
	for _, name := range names {
		d, err := LoadDraft(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, d)
	}
	return out, errs
}
