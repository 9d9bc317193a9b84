package llm

import (
	"encoding/json"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bea-tech/site-assistant/internal/model"
	"github.com/bea-tech/site-assistant/internal/tool"
)

func TestToOpenAIMessagesPrependsSystemPrompt(t *testing.T) {
	t.Parallel()

	messages := toOpenAIMessages("You are the site assistant.", []model.Turn{
		model.TextTurn(model.RoleUser, "hello"),
		model.TextTurn(model.RoleModel, "hi there"),
	})

	require.Len(t, messages, 3)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, "You are the site assistant.", messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, messages[2].Role)
	assert.Equal(t, "hi there", messages[2].Content)
}

func TestToOpenAIMessagesToolRoundTrip(t *testing.T) {
	t.Parallel()

	messages := toOpenAIMessages("", []model.Turn{
		{
			Role: model.RoleModel,
			Parts: []model.Fragment{model.ToolCallFragment(model.ToolCall{
				Name: "bookAppointment",
				Args: map[string]any{"name": "Jane"},
			})},
		},
		{
			Role: model.RoleUser,
			Parts: []model.Fragment{model.ToolResultFragment(model.ToolResult{
				Name:     "bookAppointment",
				Response: map[string]any{"status": "SUCCESS"},
			})},
		},
	})

	require.Len(t, messages, 2)

	assistant := messages[0]
	assert.Equal(t, openai.ChatMessageRoleAssistant, assistant.Role)
	require.Len(t, assistant.ToolCalls, 1)
	assert.Equal(t, "call_bookAppointment", assistant.ToolCalls[0].ID)
	assert.Equal(t, openai.ToolTypeFunction, assistant.ToolCalls[0].Type)
	assert.Equal(t, "bookAppointment", assistant.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"name":"Jane"}`, assistant.ToolCalls[0].Function.Arguments)

	result := messages[1]
	assert.Equal(t, openai.ChatMessageRoleTool, result.Role)
	assert.Equal(t, "call_bookAppointment", result.ToolCallID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content), &payload))
	assert.Equal(t, "SUCCESS", payload["status"])
}

func TestToOpenAIToolsBuildsJSONSchema(t *testing.T) {
	t.Parallel()

	tools := toOpenAITools(tool.Catalog())
	require.Len(t, tools, 2)

	booking := tools[0]
	assert.Equal(t, openai.ToolTypeFunction, booking.Type)
	assert.Equal(t, "bookAppointment", booking.Function.Name)

	params, ok := booking.Function.Parameters.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", params["type"])

	properties, ok := params["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, properties, "contact")
	assert.Contains(t, properties, "time")
	assert.ElementsMatch(t, []string{"name", "contact", "date", "reason"}, params["required"])

	assert.Equal(t, "displayAppointmentForm", tools[1].Function.Name)
}

func TestToolCallID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "call_abc", toolCallID("call_abc", "bookAppointment"))
	assert.Equal(t, "call_bookAppointment", toolCallID("", "bookAppointment"))
}

func TestMarshalArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "{}", marshalArgs(nil))
	assert.JSONEq(t, `{"date":"2026-09-02"}`, marshalArgs(map[string]any{"date": "2026-09-02"}))
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAIClient("", "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}
