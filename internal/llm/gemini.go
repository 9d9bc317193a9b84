package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/bea-tech/site-assistant/internal/model"
	"github.com/bea-tech/site-assistant/internal/tool"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient is the Gemini completion client.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", ErrUnauthenticated)
	}

	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  modelName,
	}, nil
}

// Name returns the provider name.
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Complete sends one stateless completion request.
func (c *GeminiClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	cfg := &genai.GenerateContentConfig{
		Tools: toGeminiTools(req.Tools),
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, toGeminiContents(req.History), cfg)
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	out, err := parseGeminiResponse(resp)
	if err != nil {
		return nil, err
	}
	out.Model = c.model
	out.LatencyMs = time.Since(start).Milliseconds()

	return out, nil
}

func toGeminiContents(history []model.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		parts := make([]*genai.Part, 0, len(turn.Parts))
		for _, frag := range turn.Parts {
			switch frag.Kind() {
			case model.FragmentToolCall:
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   frag.FunctionCall.ID,
						Name: frag.FunctionCall.Name,
						Args: frag.FunctionCall.Args,
					},
				})
			case model.FragmentToolResult:
				parts = append(parts, &genai.Part{
					FunctionResponse: &genai.FunctionResponse{
						ID:       frag.FunctionResp.ID,
						Name:     frag.FunctionResp.Name,
						Response: frag.FunctionResp.Response,
					},
				})
			default:
				parts = append(parts, &genai.Part{Text: frag.Text})
			}
		}
		contents = append(contents, &genai.Content{
			Role:  string(turn.Role),
			Parts: parts,
		})
	}
	return contents
}

func toGeminiTools(decls []tool.Declaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}

	functions := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fd := &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
		}
		if len(d.Fields) > 0 {
			schema := &genai.Schema{
				Type:       genai.TypeObject,
				Properties: make(map[string]*genai.Schema, len(d.Fields)),
			}
			for _, f := range d.Fields {
				schema.Properties[f.Name] = &genai.Schema{
					Type:        genai.TypeString,
					Description: f.Description,
				}
				if f.Required {
					schema.Required = append(schema.Required, f.Name)
				}
			}
			fd.Parameters = schema
		}
		functions = append(functions, fd)
	}

	return []*genai.Tool{{FunctionDeclarations: functions}}
}

func parseGeminiResponse(resp *genai.GenerateContentResponse) (*CompletionResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	out := &CompletionResponse{}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			switch {
			case part.FunctionCall != nil:
				out.ToolCalls = append(out.ToolCalls, model.ToolCall{
					ID:   part.FunctionCall.ID,
					Name: part.FunctionCall.Name,
					Args: part.FunctionCall.Args,
				})
			case part.Text != "":
				out.Text += part.Text
			}
		}
	}

	if out.Text == "" && len(out.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w: candidate carries neither text nor a function call", ErrMalformedResponse)
	}

	return out, nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
