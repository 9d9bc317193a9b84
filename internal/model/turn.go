// Package model defines the conversation data structures shared by the
// chat core, the completion clients, and the HTTP surface.
package model

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks turns authored by the site visitor.
	RoleUser Role = "user"
	// RoleModel marks turns authored by the completion service.
	RoleModel Role = "model"
	// RoleAck marks locally synthesized acknowledgments. Ack turns are
	// rendered to the visitor but never replayed to the completion
	// service, so the model is not confused by text it never produced.
	RoleAck Role = "ack"
)

// FragmentKind discriminates the Fragment union.
type FragmentKind string

const (
	FragmentText       FragmentKind = "text"
	FragmentToolCall   FragmentKind = "tool_call"
	FragmentToolResult FragmentKind = "tool_result"
)

// ToolCall is a structured action request emitted by the completion
// service instead of free text. Local code never fabricates one.
type ToolCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult carries the locally executed outcome of a ToolCall back to
// the completion service on the next round trip.
type ToolResult struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response,omitempty"`
}

// Fragment is one piece of content within a turn. Exactly one of the
// three variants is set; Kind reports which. The JSON shape mirrors the
// Gemini part union so histories round-trip through the proxy endpoint
// unchanged.
type Fragment struct {
	Text         string      `json:"text,omitempty"`
	FunctionCall *ToolCall   `json:"functionCall,omitempty"`
	FunctionResp *ToolResult `json:"functionResponse,omitempty"`
}

// Kind reports which variant of the union is populated.
func (f Fragment) Kind() FragmentKind {
	switch {
	case f.FunctionCall != nil:
		return FragmentToolCall
	case f.FunctionResp != nil:
		return FragmentToolResult
	default:
		return FragmentText
	}
}

// TextFragment builds a plain-text fragment.
func TextFragment(text string) Fragment {
	return Fragment{Text: text}
}

// ToolCallFragment builds a tool-invocation fragment.
func ToolCallFragment(call ToolCall) Fragment {
	return Fragment{FunctionCall: &call}
}

// ToolResultFragment builds a tool-result fragment.
func ToolResultFragment(result ToolResult) Fragment {
	return Fragment{FunctionResp: &result}
}

// Turn is one message-equivalent unit of the conversation. Parts is
// never empty; a turn with no text fragment is not rendered but may
// still be replayed to the completion service.
type Turn struct {
	Role  Role       `json:"role"`
	Parts []Fragment `json:"parts"`
}

// TextTurn builds a single-fragment text turn.
func TextTurn(role Role, text string) Turn {
	return Turn{Role: role, Parts: []Fragment{TextFragment(text)}}
}

// Text returns the first text fragment's content, or "" when the turn
// carries no renderable text.
func (t Turn) Text() string {
	for _, p := range t.Parts {
		if p.Kind() == FragmentText && p.Text != "" {
			return p.Text
		}
	}
	return ""
}

// FirstToolCall returns the first tool-invocation fragment, or nil.
// Multiple simultaneous tool calls are not supported; callers take the
// first and ignore the rest.
func (t Turn) FirstToolCall() *ToolCall {
	for _, p := range t.Parts {
		if p.Kind() == FragmentToolCall {
			return p.FunctionCall
		}
	}
	return nil
}
