package llm

import (
	"context"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
)

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Complete(ctx context.Context, messages []Message) (string, error) {
	model := v.model

	// Gemini takes the system prompt out of band; the remaining turns are
	// flattened into a single prompt with role markers.
	var system []string
	var turns []string
	for _, m := range messages {
		switch m.Role {
		case "system":
			system = append(system, m.Content)
		case "assistant":
			turns = append(turns, "Assistant: "+m.Content)
		default:
			turns = append(turns, "User: "+m.Content)
		}
	}

	if len(system) > 0 {
		clone := *v.model
		clone.SystemInstruction = &vertexgenai.Content{
			Parts: []vertexgenai.Part{vertexgenai.Text(strings.Join(system, "\n\n"))},
		}
		model = &clone
	}

	resp, err := model.GenerateContent(ctx, vertexgenai.Text(strings.Join(turns, "\n\n")))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return sb.String(), nil
}
