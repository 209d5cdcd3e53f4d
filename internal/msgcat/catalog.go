// Package msgcat holds the player-facing status lines and advisories.
package msgcat

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"text/template"

	yaml "gopkg.in/yaml.v3"
)

//go:embed messages.en.yaml
var embeddedMessages []byte

// Catalog maps dotted keys ("status.to_move") to parsed templates.
// It is read-only once built, so one catalog is shared by every session.
type Catalog struct {
	tmpl map[string]*template.Template
}

// Default returns the embedded English catalog.
var Default = sync.OnceValue(func() *Catalog {
	c := &Catalog{tmpl: make(map[string]*template.Template)}
	if err := c.merge("embedded", embeddedMessages); err != nil {
		panic(fmt.Sprintf("msgcat: embedded messages broken: %v", err))
	}
	return c
})

// New starts from the embedded messages and applies every *.yaml/*.yml file in
// overrideDir in name order. A key may be overridden by one file only.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{tmpl: make(map[string]*template.Template)}
	if err := c.merge("embedded", embeddedMessages); err != nil {
		return nil, err
	}
	if strings.TrimSpace(overrideDir) == "" {
		return c, nil
	}

	entries, err := os.ReadDir(overrideDir)
	if err != nil {
		return nil, fmt.Errorf("read messages dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)

	owner := make(map[string]string)
	for _, name := range files {
		raw, err := os.ReadFile(filepath.Join(overrideDir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		keys, err := c.mergeKeys(name, raw)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if prev, ok := owner[k]; ok {
				return nil, fmt.Errorf("message %q overridden by both %s and %s", k, prev, name)
			}
			owner[k] = name
		}
	}
	return c, nil
}

func (c *Catalog) merge(source string, raw []byte) error {
	_, err := c.mergeKeys(source, raw)
	return err
}

// mergeKeys parses raw and installs its templates, returning the keys it set.
func (c *Catalog) mergeKeys(source string, raw []byte) ([]string, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	flat := make(map[string]string)
	if err := flatten(tree, "", flat); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	keys := make([]string, 0, len(flat))
	for k, text := range flat {
		t, err := template.New(k).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%s: message %q: %w", source, k, err)
		}
		c.tmpl[k] = t
		keys = append(keys, k)
	}
	return keys, nil
}

// flatten joins nested YAML maps into dotted keys; leaves must be strings.
func flatten(node any, prefix string, out map[string]string) error {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flatten(child, key, out); err != nil {
				return err
			}
		}
	case string:
		if prefix == "" || strings.TrimSpace(v) == "" {
			return fmt.Errorf("empty message at %q", prefix)
		}
		out[prefix] = v
	case nil:
	default:
		return fmt.Errorf("message %q is a %T, want string", prefix, v)
	}
	return nil
}

// Render executes the template under key. Unknown keys and missing fields are errors.
func (c *Catalog) Render(key string, data any) (string, error) {
	t, ok := c.tmpl[strings.TrimSpace(key)]
	if !ok {
		return "", fmt.Errorf("unknown message %q", key)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Text renders key and falls back to the key itself when rendering fails.
// A nil catalog reads from Default.
func (c *Catalog) Text(key string, data any) string {
	if c == nil {
		c = Default()
	}
	out, err := c.Render(key, data)
	if err != nil {
		return key
	}
	return out
}
