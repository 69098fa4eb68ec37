package widget

import "github.com/zatekoja/homeflow/internal/domain/tool"

// ActionType discriminates the Action union
type ActionType string

const (
	ActionTool     ActionType = "tool"
	ActionFollowup ActionType = "followup"
	ActionLink     ActionType = "link"
)

// Variant is the visual weight of an action
type Variant string

const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
	VariantGhost     Variant = "ghost"
	VariantDanger    Variant = "danger"
)

// Action is a next step the client can render as a button. Only the fields of
// its Type are populated: Tool/Params for tool, Prompt for followup,
// Href/External for link.
type Action struct {
	Type     ActionType     `json:"type"`
	Label    string         `json:"label"`
	Tool     tool.Name      `json:"tool,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
	Prompt   string         `json:"prompt,omitempty"`
	Href     string         `json:"href,omitempty"`
	External bool           `json:"external,omitempty"`
	Variant  Variant        `json:"variant,omitempty"`
}

// ToolAction invokes another tool with params
func ToolAction(label string, name tool.Name, params map[string]any, variant Variant) Action {
	return Action{Type: ActionTool, Label: label, Tool: name, Params: params, Variant: variant}
}

// FollowupAction sends prompt back into the conversation
func FollowupAction(label, prompt string, variant Variant) Action {
	return Action{Type: ActionFollowup, Label: label, Prompt: prompt, Variant: variant}
}

// LinkAction opens href
func LinkAction(label, href string, external bool, variant Variant) Action {
	return Action{Type: ActionLink, Label: label, Href: href, External: external, Variant: variant}
}
