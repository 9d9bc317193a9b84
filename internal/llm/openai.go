package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bea-tech/site-assistant/internal/model"
	"github.com/bea-tech/site-assistant/internal/tool"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient is the OpenAI completion client.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey, modelName string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", ErrUnauthenticated)
	}

	if modelName == "" {
		modelName = defaultOpenAIModel
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  modelName,
	}, nil
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Complete sends one stateless completion request.
func (c *OpenAIClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  toOpenAIMessages(req.SystemPrompt, req.History),
		MaxTokens: maxTokens,
		Tools:     toOpenAITools(req.Tools),
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	msg := resp.Choices[0].Message
	out := &CompletionResponse{
		Text:      msg.Content,
		Model:     resp.Model,
		LatencyMs: time.Since(start).Milliseconds(),
	}

	for _, call := range msg.ToolCalls {
		args := map[string]any{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("%w: tool call arguments: %v", ErrMalformedResponse, err)
			}
		}
		out.ToolCalls = append(out.ToolCalls, model.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}

	if out.Text == "" && len(out.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w: choice carries neither text nor a tool call", ErrMalformedResponse)
	}

	return out, nil
}

// toOpenAIMessages flattens the Gemini-shaped history into the OpenAI
// chat format: tool results become role "tool" messages and model tool
// calls ride on the assistant message.
func toOpenAIMessages(systemPrompt string, history []model.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}

	for _, turn := range history {
		msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
		if turn.Role == model.RoleModel {
			msg.Role = openai.ChatMessageRoleAssistant
		}

		emitted := false
		for _, frag := range turn.Parts {
			switch frag.Kind() {
			case model.FragmentToolCall:
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   toolCallID(frag.FunctionCall.ID, frag.FunctionCall.Name),
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      frag.FunctionCall.Name,
						Arguments: marshalArgs(frag.FunctionCall.Args),
					},
				})
			case model.FragmentToolResult:
				payload, _ := json.Marshal(frag.FunctionResp.Response)
				messages = append(messages, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					ToolCallID: toolCallID(frag.FunctionResp.ID, frag.FunctionResp.Name),
					Content:    string(payload),
				})
				emitted = true
			default:
				msg.Content += frag.Text
			}
		}

		if msg.Content != "" || len(msg.ToolCalls) > 0 {
			messages = append(messages, msg)
		} else if !emitted {
			// Preserve turn count for degenerate empty turns.
			messages = append(messages, msg)
		}
	}

	return messages
}

func toOpenAITools(decls []tool.Declaration) []openai.Tool {
	if len(decls) == 0 {
		return nil
	}

	tools := make([]openai.Tool, 0, len(decls))
	for _, d := range decls {
		properties := map[string]any{}
		var required []string
		for _, f := range d.Fields {
			properties[f.Name] = map[string]any{
				"type":        f.Type,
				"description": f.Description,
			}
			if f.Required {
				required = append(required, f.Name)
			}
		}

		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		})
	}
	return tools
}

// toolCallID falls back to the tool name when the upstream protocol
// carried no invocation id, as Gemini-shaped histories often do.
func toolCallID(id, name string) string {
	if id != "" {
		return id
	}
	return "call_" + name
}

func marshalArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
