package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillchat/pkg/logger"
)

const ollamaChatPath = "/api/chat"

// OllamaClient sends chat turns to an Ollama server's /api/chat endpoint.
type OllamaClient struct {
	httpClient *http.Client
	host       string
	model      string
	options    map[string]any
}

// NewOllamaClient creates a client for the server at host. options, when
// non-empty, is passed through as the request's model options.
func NewOllamaClient(httpClient *http.Client, host, model string, options map[string]any) *OllamaClient {
	return &OllamaClient{
		httpClient: httpClient,
		host:       strings.TrimRight(host, "/"),
		model:      model,
		options:    options,
	}
}

// replyEnvelope detects replies without a message.content field.
type replyEnvelope struct {
	Message *struct {
		Content *string `json:"content"`
	} `json:"message"`
}

// Complete implements Client.
func (c *OllamaClient) Complete(ctx context.Context, messages []Message) (string, error) {
	log := logger.G(ctx).WithField("model", c.model)

	stream := false
	chatReq := api.ChatRequest{
		Model:    c.model,
		Messages: toOllamaMessages(messages),
		Stream:   &stream,
	}
	if len(c.options) > 0 {
		chatReq.Options = c.options
	}

	payload, err := json.Marshal(chatReq)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+ollamaChatPath, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "failed to create chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "chat request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read chat response")
	}

	if resp.StatusCode/100 != 2 {
		log.WithField("status", resp.StatusCode).Debug("chat request rejected")
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope replyEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", errors.Wrap(err, "failed to decode chat response")
	}
	if envelope.Message == nil || envelope.Message.Content == nil {
		return string(body), nil
	}

	var chatResp api.ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", errors.Wrap(err, "failed to decode chat response")
	}

	log.WithField("done", chatResp.Done).
		WithField("eval_count", chatResp.EvalCount).
		WithField("total_duration", chatResp.TotalDuration).
		Debug("chat turn completed")

	return chatResp.Message.Content, nil
}

func toOllamaMessages(messages []Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, api.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
