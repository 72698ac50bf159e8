// Package config loads the optional YAML run configuration.
//
// Keys use the long flag names (input-format, maxdist, ...). Values may
// reference environment variables as ${NAME}.
package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads path, substitutes ${VAR} references and decodes the YAML
// mapping. Keys not in known are rejected; known may be nil to accept
// everything.
func Load(path string, known []string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from --config
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, known)
}

// Parse is Load without the file read.
func Parse(data []byte, known []string) (map[string]any, error) {
	content := substituteEnvVars(string(data))
	out := map[string]any{}
	if len(bytes.TrimSpace([]byte(content))) == 0 {
		return out, nil
	}
	if err := yaml.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if known == nil {
		return out, nil
	}
	allowed := make(map[string]struct{}, len(known))
	for _, k := range known {
		allowed[k] = struct{}{}
	}
	var unknown []string
	for k := range out {
		if _, ok := allowed[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// Unset variables become empty strings.
func substituteEnvVars(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start
		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
