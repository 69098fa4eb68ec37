package widget

import (
	"context"
	"maps"
)

const (
	// TemplateURI identifies the widget resource
	TemplateURI = "ui://widget/homeflow.html"

	// ResourceMimeType is the mime type clients expect for the widget
	ResourceMimeType = "text/html+skybridge"
)

// Meta returns the widget metadata attached to tools, resources and results
func Meta() map[string]any {
	return map[string]any{
		"openai/outputTemplate":          TemplateURI,
		"openai/widgetAccessible":        true,
		"openai/resultCanProduceWidget":  true,
		"openai/toolInvocation/invoking": "Planning your HomeFlow experience…",
		"openai/toolInvocation/invoked":  "HomeFlow is ready!",
	}
}

// Content is one element of a tool result, either rendered HTML or text
type Content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Resource *Resource `json:"resource,omitempty"`
}

// Resource is the rendered widget
type Resource struct {
	URI      string         `json:"uri"`
	MimeType string         `json:"mimeType"`
	Text     string         `json:"text"`
	Meta     map[string]any `json:"_meta,omitempty"`
}

// CallResult is the content, structured payload and meta of a tool call
type CallResult struct {
	Content           []Content      `json:"content"`
	StructuredContent map[string]any `json:"structuredContent"`
	Meta              map[string]any `json:"_meta"`
}

// ToolResult is the uniform envelope returned by every tool. ToolResult
// repeats the top-level fields for hosts that read the nested form.
type ToolResult struct {
	Content           []Content      `json:"content"`
	StructuredContent map[string]any `json:"structuredContent"`
	Meta              map[string]any `json:"_meta"`
	ToolResult        *CallResult    `json:"toolResult"`

	// Config is the enriched document, kept for callers that inspect it
	Config *Config `json:"-"`
}

// Summary returns the human-readable text of the result
func (r *ToolResult) Summary() string {
	for _, c := range r.Content {
		if c.Type == "text" {
			return c.Text
		}
	}
	return ""
}

// Assembler turns a summary, config and payload into a ToolResult
type Assembler struct {
	apiBase  string
	template *Template
}

// NewAssembler creates a new response assembler
func NewAssembler(apiBase string, template *Template) *Assembler {
	if template == nil {
		template = NewTemplate(FallbackHTML)
	}
	return &Assembler{apiBase: apiBase, template: template}
}

// Enrich returns a copy of config whose context carries apiBase (unless
// already set) and the caller account from ctx. A stale account is removed.
func (a *Assembler) Enrich(ctx context.Context, config *Config) *Config {
	enriched := *config
	enriched.Context = make(map[string]any, len(config.Context)+2)
	maps.Copy(enriched.Context, config.Context)

	if a.apiBase != "" {
		if existing, ok := enriched.Context["apiBase"]; !ok || existing == "" || existing == nil {
			enriched.Context["apiBase"] = a.apiBase
		}
	}
	if account, ok := AccountFrom(ctx); ok {
		enriched.Context["account"] = account
	} else {
		delete(enriched.Context, "account")
	}
	return &enriched
}

// Build assembles the envelope. payload keys are preserved and widgetData is
// added alongside them.
func (a *Assembler) Build(ctx context.Context, summary string, config *Config, payload map[string]any) (*ToolResult, error) {
	enriched := a.Enrich(ctx, config)

	html, err := a.template.Render(enriched)
	if err != nil {
		return nil, err
	}

	meta := Meta()
	meta["widgetData"] = enriched

	structured := make(map[string]any, len(payload)+1)
	maps.Copy(structured, payload)
	structured["widgetData"] = enriched

	content := []Content{
		{Type: "resource", Resource: &Resource{URI: TemplateURI, MimeType: ResourceMimeType, Text: html, Meta: meta}},
		{Type: "text", Text: summary},
	}
	return &ToolResult{
		Content:           content,
		StructuredContent: structured,
		Meta:              meta,
		ToolResult:        &CallResult{Content: content, StructuredContent: structured, Meta: meta},
		Config:            enriched,
	}, nil
}

// RenderResource renders config as the standalone widget resource
func (a *Assembler) RenderResource(ctx context.Context, config *Config) (*Resource, error) {
	enriched := a.Enrich(ctx, config)
	html, err := a.template.Render(enriched)
	if err != nil {
		return nil, err
	}
	meta := Meta()
	meta["widgetData"] = enriched
	return &Resource{URI: TemplateURI, MimeType: ResourceMimeType, Text: html, Meta: meta}, nil
}
