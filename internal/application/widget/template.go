package widget

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ConfigPlaceholder is replaced by the serialized Config
const ConfigPlaceholder = "__HOMEFLOW_CONFIG_JSON__"

// FallbackHTML is served when no template file can be read
const FallbackHTML = "<!doctype html><html><body><p>HomeFlow UI unavailable.</p></body></html>"

// Template is the widget HTML shell
type Template struct {
	html string
}

// NewTemplate wraps an in-memory template
func NewTemplate(html string) *Template {
	return &Template{html: html}
}

// LoadTemplate reads the first readable candidate path, else FallbackHTML
func LoadTemplate(paths ...string) *Template {
	for _, candidate := range paths {
		if candidate == "" {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		log.Info().Str("path", candidate).Msg("Loaded widget template")
		return &Template{html: string(data)}
	}
	log.Warn().Strs("paths", paths).Msg("Widget template not found, using fallback")
	return &Template{html: FallbackHTML}
}

// Render embeds config into the template as an attribute-safe JSON string
func (t *Template) Render(config *Config) (string, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal widget config: %w", err)
	}
	escaped := strings.ReplaceAll(string(data), `"`, "&quot;")
	return strings.Replace(t.html, ConfigPlaceholder, escaped, 1), nil
}
