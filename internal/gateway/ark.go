package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/wanchen/pixelforge/backend/internal/config"
)

// ArkGateway implements Gateway on top of the Ark model backend. Chat and
// concept synthesis run through compiled eino chains; image synthesis calls
// the images/generations endpoint directly since eino has no image
// component.
type ArkGateway struct {
	chain      compose.Runnable[map[string]any, *schema.Message]
	httpClient *http.Client
	cfg        config.AIConfig
}

// NewArkGateway compiles the shared prompt chain against the configured
// model.
func NewArkGateway(ctx context.Context, cfg config.AIConfig) (*ArkGateway, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ArkGateway{
		chain:      runnable,
		httpClient: &http.Client{},
		cfg:        cfg,
	}, nil
}

// Converse replays the bounded window and returns the assistant reply.
func (g *ArkGateway) Converse(ctx context.Context, turns []Turn) (string, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	query := ""
	history := turns
	if n := len(turns); n > 0 && turns[n-1].Role == "user" {
		query = turns[n-1].Content
		history = turns[:n-1]
	}

	response, err := g.chain.Invoke(ctx, map[string]any{
		"system":  brainstormSystem,
		"history": toSchemaMessages(history),
		"query":   query,
	})
	if err != nil {
		return "", fail("converse", err)
	}

	log.Printf("[gateway] converse ok, context=%d reply_len=%d", len(turns), len(response.Content))
	if response.Content == "" {
		return emptyReply, nil
	}
	return response.Content, nil
}

// SynthesizeConcept weaves the MBTI/tarot pair into a character concept.
func (g *ArkGateway) SynthesizeConcept(ctx context.Context, mbti, tarot string) (string, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	response, err := g.chain.Invoke(ctx, map[string]any{
		"system":  conceptSystem,
		"history": []*schema.Message{},
		"query":   conceptPrompt(mbti, tarot),
	})
	if err != nil {
		return "", fail("synthesize_concept", err)
	}

	log.Printf("[gateway] concept ok, mbti=%s tarot=%s len=%d", mbti, tarot, len(response.Content))
	if response.Content == "" {
		return emptyReply, nil
	}
	return response.Content, nil
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SynthesizeImage generates a square sprite and returns it as a data URI
// when the backend inlines the payload, otherwise as the hosted URL.
func (g *ArkGateway) SynthesizeImage(ctx context.Context, subject string) (string, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	payload, err := json.Marshal(imageRequest{
		Model:          g.cfg.ImageModel,
		Prompt:         decorateSpritePrompt(subject),
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return "", fail("synthesize_image", err)
	}

	url := strings.TrimSuffix(g.cfg.BaseURL, "/") + "/images/generations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fail("synthesize_image", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fail("synthesize_image", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fail("synthesize_image", err)
	}

	var parsed imageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fail("synthesize_image", fmt.Errorf("decode response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", fail("synthesize_image", fmt.Errorf("backend returned %s", msg))
	}
	if len(parsed.Data) == 0 {
		return "", fail("synthesize_image", fmt.Errorf("backend returned no image"))
	}

	if b64 := parsed.Data[0].B64JSON; b64 != "" {
		return "data:image/png;base64," + b64, nil
	}
	if parsed.Data[0].URL != "" {
		return parsed.Data[0].URL, nil
	}
	return "", fail("synthesize_image", fmt.Errorf("backend returned empty payload"))
}

func (g *ArkGateway) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.cfg.GenTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.cfg.GenTimeout)
}

func toSchemaMessages(turns []Turn) []*schema.Message {
	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case "user":
			history = append(history, schema.UserMessage(turn.Content))
		case "assistant":
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return history
}

var _ Gateway = (*ArkGateway)(nil)
