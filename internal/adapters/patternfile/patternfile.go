// Package patternfile normalizes pattern input into a plain list of
// distinct, non-empty pattern strings ready for the automaton.
//
// Supported sources:
//
//	.json         ["he", "she"] or {"patterns": ["he", "she"]}
//	.yaml, .yml   - he / - she, or patterns: [he, she]
//	anything else one pattern per line; blank lines and lines starting
//	              with # are skipped
//
// JSON and YAML entries are kept verbatim, so " " is a valid pattern there;
// only "" is dropped. Text lines that hold nothing but whitespace count
// as blank.
//
// Comma-separated lists from flags go through ParseList.
package patternfile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoPatterns is returned when a source yields no usable pattern.
var ErrNoPatterns = errors.New("no patterns")

// Format identifies how a pattern source is encoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Load reads and parses a pattern file, choosing the format by extension.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	patterns, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return patterns, nil
}

// Parse decodes data in the given format and normalizes the result.
func Parse(data []byte, format Format) ([]string, error) {
	var raw []string
	var err error
	switch format {
	case FormatJSON:
		raw, err = parseJSON(data)
	case FormatYAML:
		raw, err = parseYAML(data)
	case FormatText:
		raw, err = parseText(data)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return normalize(raw)
}

// ParseList splits a comma-separated list. Surrounding whitespace is trimmed
// from each entry, so "he, she" yields "he" and "she".
func ParseList(list string) ([]string, error) {
	parts := strings.Split(list, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return normalize(parts)
}

// patternDoc is the object form accepted by the JSON and YAML decoders.
type patternDoc struct {
	Patterns []string `json:"patterns" yaml:"patterns"`
}

func parseJSON(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode json list: %w", err)
		}
		return list, nil
	}
	var doc patternDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc.Patterns, nil
}

func parseYAML(data []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	body := node.Content[0]
	switch body.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := body.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode yaml list: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		var doc patternDoc
		if err := body.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return doc.Patterns, nil
	default:
		return nil, fmt.Errorf("decode yaml: expected a list or a mapping with a patterns key")
	}
}

func parseText(data []byte) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if t := strings.TrimSpace(line); t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalize drops empty entries and duplicates, keeping first-seen order.
// Entries are otherwise kept verbatim: matching is exact.
func normalize(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, ErrNoPatterns
	}
	return out, nil
}
