package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GoogleProvider implements Provider using the Gemini API through the genai SDK.
// A client is built per call so the key is picked up fresh every time.
type GoogleProvider struct {
	key        KeySource
	model      string
	baseURL    string
	httpClient *http.Client
}

// GoogleOption configures a GoogleProvider.
type GoogleOption func(*GoogleProvider)

// WithGoogleBaseURL points the provider at a different API host.
func WithGoogleBaseURL(u string) GoogleOption {
	return func(p *GoogleProvider) { p.baseURL = u }
}

// WithGoogleHTTPClient overrides the transport used by the SDK.
func WithGoogleHTTPClient(c *http.Client) GoogleOption {
	return func(p *GoogleProvider) { p.httpClient = c }
}

// NewGoogleProvider creates a new Gemini provider.
func NewGoogleProvider(key KeySource, model string, opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{key: key, model: model}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	apiKey := p.key()
	if apiKey == "" {
		return nil, ErrNoCredential
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	// Build system instruction and conversation contents.
	var systemParts []*genai.Part
	var contents []*genai.Content
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, &genai.Part{Text: msg.Content})
		case RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		}
	}
	if len(contents) == 0 {
		contents = append(contents, genai.NewContentFromText("", genai.RoleUser))
	}

	temperature := float32(req.Temperature)
	genCfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if len(systemParts) > 0 {
		genCfg.SystemInstruction = &genai.Content{Parts: systemParts}
	}
	if req.JSONMode || req.Schema != nil {
		genCfg.ResponseMIMEType = "application/json"
	}
	if req.Schema != nil {
		genCfg.ResponseSchema = toGenaiSchema(req.Schema)
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	out := &CompletionResponse{
		Content: resp.Text(),
		Model:   model,
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

// toGenaiSchema converts the neutral schema into the SDK's representation.
func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	gs := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		gs.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, name := range s.PropertyNames() {
			gs.Properties[name] = toGenaiSchema(s.Properties[name])
		}
		gs.PropertyOrdering = s.PropertyNames()
	}
	if s.Items != nil {
		gs.Items = toGenaiSchema(s.Items)
	}
	return gs
}

func genaiType(t SchemaType) genai.Type {
	switch t {
	case TypeObject:
		return genai.TypeObject
	case TypeArray:
		return genai.TypeArray
	case TypeNumber:
		return genai.TypeNumber
	case TypeInteger:
		return genai.TypeInteger
	case TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
