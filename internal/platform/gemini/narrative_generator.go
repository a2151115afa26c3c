package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/arcana-api/internal/config"
	"github.com/phrazzld/arcana-api/internal/interpret"
	"google.golang.org/genai"
)

// promptTemplateText asks the model for a strict JSON object so the
// response parses without post-processing.
const promptTemplateText = `You are an experienced tarot reader composing the combined narrative for a finished reading.

Spread: {{.SpreadName}}
{{- if .Question}}
Question asked: {{.Question}}
{{- end}}
Cards in position order:
{{- range .Cards}}
- {{.Label}}: {{.Name}}{{if .Reversed}} (Reversed){{end}} — {{.Meaning}}
{{- end}}

Write one flowing paragraph that references the cards in the order given,
connecting each card to its position. Then write a short closing thought
{{- if .Question}} that repeats the question verbatim{{end}}.

Respond with ONLY a JSON object of this shape:
{"combined_narrative": "...", "conclusion": "..."}`

// promptData is the template input for one narrative request.
type promptData struct {
	SpreadName string
	Question   string
	Cards      []promptCard
}

type promptCard struct {
	Label    string
	Name     string
	Reversed bool
	Meaning  string
}

// narrativeResponse is the JSON shape the model is instructed to return.
type narrativeResponse struct {
	CombinedNarrative string `json:"combined_narrative"`
	Conclusion        string `json:"conclusion"`
}

// NarrativeGenerator implements interpret.NarrativeGenerator using the
// Gemini API, with exponential backoff retry for transient failures.
type NarrativeGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// Ensure NarrativeGenerator implements interpret.NarrativeGenerator
var _ interpret.NarrativeGenerator = (*NarrativeGenerator)(nil)

// NewNarrativeGenerator creates a Gemini-backed narrative generator.
// Returns interpret.ErrInvalidConfig when required settings are missing.
func NewNarrativeGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*NarrativeGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", interpret.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", interpret.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("narrative").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			interpret.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			interpret.ErrInvalidConfig, err)
	}

	return &NarrativeGenerator{
		logger:         logger.With(slog.String("component", "narrative_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateNarrative implements interpret.NarrativeGenerator.
func (g *NarrativeGenerator) GenerateNarrative(
	ctx context.Context,
	req interpret.NarrativeRequest,
) (*interpret.NarrativeResult, error) {
	if len(req.PlacedCards) == 0 {
		return nil, ErrEmptyRequest
	}

	prompt, err := g.buildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interpret.ErrNarrativeUnavailable, err)
	}

	parsed, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &interpret.NarrativeResult{
		CombinedNarrative: parsed.CombinedNarrative,
		Conclusion:        parsed.Conclusion,
	}, nil
}

// buildPrompt renders the prompt template for one request.
func (g *NarrativeGenerator) buildPrompt(req interpret.NarrativeRequest) (string, error) {
	data := promptData{
		SpreadName: req.Spread.Name,
		Question:   req.Question,
		Cards:      make([]promptCard, 0, len(req.PlacedCards)),
	}
	for _, placed := range req.PlacedCards {
		data.Cards = append(data.Cards, promptCard{
			Label:    placed.Label,
			Name:     placed.Card.Name,
			Reversed: placed.IsReversed,
			Meaning:  placed.Card.Meaning(placed.IsReversed),
		})
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry calls the Gemini API with exponential backoff and jitter
// for transient errors. Permanent errors (safety blocks, unparseable
// responses) are returned immediately without retrying.
func (g *NarrativeGenerator) callWithRetry(ctx context.Context, prompt string) (*narrativeResponse, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	if maxRetries < 0 {
		maxRetries = 3
	}
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		g.logger.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		parsed, err := g.callOnce(ctx, prompt)
		if err == nil {
			return parsed, nil
		}
		lastErr = err

		if errors.Is(err, interpret.ErrContentBlocked) || errors.Is(err, interpret.ErrInvalidResponse) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", interpret.ErrNarrativeUnavailable, ctx.Err())
		}
		if attempt == maxRetries {
			break
		}

		// Exponential backoff with up to one base-delay of jitter.
		delay := time.Duration(float64(baseDelaySeconds)*math.Pow(2, float64(attempt))) * time.Second
		delay += time.Duration(rng.Int63n(int64(baseDelaySeconds) * int64(time.Second)))

		g.logger.WarnContext(ctx, "Gemini call failed, retrying",
			slog.String("error", err.Error()),
			slog.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", interpret.ErrNarrativeUnavailable, ctx.Err())
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("%w: %v", interpret.ErrTransientFailure, lastErr)
}

// callOnce makes a single Gemini API call and parses the JSON response.
func (g *NarrativeGenerator) callOnce(ctx context.Context, prompt string) (*narrativeResponse, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interpret.ErrNarrativeUnavailable, err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s", interpret.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", interpret.ErrInvalidResponse)
	}

	var parsed narrativeResponse
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", interpret.ErrInvalidResponse, err)
	}
	if parsed.CombinedNarrative == "" {
		return nil, fmt.Errorf("%w: missing combined_narrative", interpret.ErrInvalidResponse)
	}

	return &parsed, nil
}

// extractJSON strips markdown code fences the model sometimes wraps around
// its JSON output.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	return text
}
