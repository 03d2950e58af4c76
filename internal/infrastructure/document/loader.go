// Package document reads configuration documents from disk into the untyped,
// key-ordered tree consumed by the configuration validator.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"monoenv.dev/cli/internal/core/config"
)

// DefaultFileNames are tried, in order, when no config path is given
var DefaultFileNames = []string{"monoenv.yaml", "monoenv.yml", "monoenv.json", "monoenv.jsonc"}

// ErrNotFound is returned by Discover when no default config file exists
var ErrNotFound = errors.New("no configuration file found")

// Loader reads configuration documents through a filesystem abstraction
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a loader over fs
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Discover returns the first default config file present in dir
func (l *Loader) Discover(dir string) (string, error) {
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(dir, name)
		if ok, _ := afero.Exists(l.fs, candidate); ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNotFound, dir, strings.Join(DefaultFileNames, ", "))
}

// Load reads and parses the document at path. JSON and JSONC files have their
// comments and trailing commas stripped before parsing.
func (l *Loader) Load(path string) (any, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var tree any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		tree, err = ParseJSON(jsonc.ToJSON(data))
	default:
		tree, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return tree, nil
}

// Parse decodes YAML into an untyped tree whose mappings are *config.RawMap
// values in source order.
func Parse(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return convert(&root)
}

func convert(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return convert(node.Content[0])

	case yaml.AliasNode:
		return convert(node.Alias)

	case yaml.MappingNode:
		m := config.NewRawMap()
		if err := mergeInto(m, node); err != nil {
			return nil, err
		}
		return m, nil

	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := convert(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	case yaml.ScalarNode:
		return scalar(node)

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
}

func mergeInto(m *config.RawMap, node *yaml.Node) error {
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		if keyNode.Tag == "!!merge" {
			if err := merge(m, valueNode); err != nil {
				return err
			}
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping keys must be strings", keyNode.Line)
		}

		key := keyNode.Value
		if seen[key] {
			return fmt.Errorf("line %d: duplicate key %q", keyNode.Line, key)
		}
		seen[key] = true

		value, err := convert(valueNode)
		if err != nil {
			return err
		}
		m.Set(key, value)
	}
	return nil
}

// merge applies a YAML merge key (<<) whose value is a mapping or a list of
// mappings. Keys already present in m win, as do earlier sources in a list.
func merge(m *config.RawMap, node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.MappingNode:
		source := config.NewRawMap()
		if err := mergeInto(source, node); err != nil {
			return err
		}
		for _, key := range source.Keys() {
			if !m.Has(key) {
				value, _ := source.Get(key)
				m.Set(key, value)
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, child := range node.Content {
			if err := merge(m, child); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("line %d: merge value must be a mapping", node.Line)
	}
}

func scalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return i, nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return node.Value, nil
	}
}

// ParseJSON decodes JSON into the same untyped tree as Parse. Objects keep
// their key order and duplicate keys are rejected.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tree, err := jsonValue(dec, tok)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("offset %d: unexpected data after the top-level value", dec.InputOffset())
	}
	return tree, nil
}

func jsonValue(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return jsonObject(dec)
		case '[':
			return jsonArray(dec)
		default:
			return nil, fmt.Errorf("offset %d: unexpected %q", dec.InputOffset(), t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("offset %d: invalid number %s", dec.InputOffset(), t)
		}
		return f, nil
	default:
		// string, bool or nil
		return t, nil
	}
}

func jsonObject(dec *json.Decoder) (any, error) {
	m := config.NewRawMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("offset %d: object keys must be strings", dec.InputOffset())
		}
		if m.Has(key) {
			return nil, fmt.Errorf("offset %d: duplicate key %q", dec.InputOffset(), key)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		value, err := jsonValue(dec, tok)
		if err != nil {
			return nil, err
		}
		m.Set(key, value)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func jsonArray(dec *json.Decoder) (any, error) {
	items := []any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		item, err := jsonValue(dec, tok)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}
