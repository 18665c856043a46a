package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"reqgen/internal/domain/services"
	"reqgen/internal/templates"
)

const summarizePrompt = `You refine raw requirement notes, meeting transcripts and dictation into a clear summary.
Keep every requirement, constraint, name, number and date. Drop filler and repetition.
Return plain prose paragraphs without headings.`

// messageAPI is the part of the Anthropic SDK this client uses
type messageAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicClient refines notes and drafts documents with Claude.
// It implements Summarizer and DocumentGenerator.
type AnthropicClient struct {
	messages  messageAPI
	model     string
	templates *templates.Registry
	analyzer  services.ContentAnalyzer
	logger    *slog.Logger
}

// NewAnthropicClient creates a Claude-backed collaborator
func NewAnthropicClient(
	apiKey string,
	model string,
	registry *templates.Registry,
	analyzer services.ContentAnalyzer,
	logger *slog.Logger,
) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicClient{
		messages:  &client.Messages,
		model:     model,
		templates: registry,
		analyzer:  analyzer,
		logger:    logger,
	}, nil
}

// Name returns the collaborator name
func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// Summarize refines text into a shorter summary
func (c *AnthropicClient) Summarize(ctx context.Context, text string) (*services.Summary, error) {
	summary, err := c.complete(ctx, summarizePrompt, text, 2048)
	if err != nil {
		return nil, err
	}

	return &services.Summary{
		Success:          true,
		Summary:          summary,
		WordCount:        c.analyzer.CountWords(text),
		SummaryWordCount: c.analyzer.CountWords(summary),
	}, nil
}

// Generate drafts a document following the template of req.DocumentType
func (c *AnthropicClient) Generate(ctx context.Context, req *services.GenerateRequest) (*services.GeneratedDocument, error) {
	tmpl, err := c.templates.Get(req.DocumentType)
	if err != nil {
		return nil, err
	}

	document, err := c.complete(ctx, tmpl.SystemPrompt(), generationInput(req), 8192)
	if err != nil {
		return nil, err
	}

	return &services.GeneratedDocument{
		Success:      true,
		Document:     document,
		DocumentType: req.DocumentType,
		WordCount:    c.analyzer.CountWords(document),
	}, nil
}

// generationInput lists the metadata as "key: value" lines above the notes
func generationInput(req *services.GenerateRequest) string {
	var b strings.Builder
	if len(req.Metadata) > 0 {
		keys := make([]string, 0, len(req.Metadata))
		for k := range req.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("Metadata:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", strings.ReplaceAll(k, "_", " "), req.Metadata[k])
		}
		b.WriteString("\n")
	}
	b.WriteString("Notes:\n")
	b.WriteString(req.Text)
	return b.String()
}

func (c *AnthropicClient) complete(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	message, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("anthropic returned no text")
	}

	c.logger.Debug("anthropic completion",
		"model", c.model,
		"input_tokens", message.Usage.InputTokens,
		"output_tokens", message.Usage.OutputTokens,
		"stop_reason", message.StopReason,
	)

	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}
