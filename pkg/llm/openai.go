package llm

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/jingkaihe/skillchat/pkg/logger"
)

const openAIPathSuffix = "/v1"

// OpenAIClient sends chat turns to an OpenAI-compatible chat completions
// endpoint, such as the one Ollama serves under /v1.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	options map[string]any
}

// NewOpenAIClient creates a client for the server at host. apiKey may be
// empty for servers that do not check it.
func NewOpenAIClient(httpClient *http.Client, host, apiKey, model string, options map[string]any) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = openAIBaseURL(host)
	config.HTTPClient = rawStatusDoer{client: httpClient}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		options: options,
	}
}

func openAIBaseURL(host string) string {
	host = strings.TrimRight(host, "/")
	if strings.HasSuffix(host, openAIPathSuffix) {
		return host
	}
	return host + openAIPathSuffix
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	}
	applyOpenAIOptions(&req, c.options)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", convertOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat response contained no choices")
	}

	logger.G(ctx).WithField("model", c.model).
		WithField("prompt_tokens", resp.Usage.PromptTokens).
		WithField("completion_tokens", resp.Usage.CompletionTokens).
		Debug("chat turn completed")

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// applyOpenAIOptions maps the Ollama-style model options that have an
// OpenAI equivalent onto req. Unknown options are ignored.
func applyOpenAIOptions(req *openai.ChatCompletionRequest, options map[string]any) {
	for key, value := range options {
		number, ok := value.(float64)
		if !ok {
			continue
		}
		switch key {
		case "temperature":
			req.Temperature = float32(number)
		case "top_p":
			req.TopP = float32(number)
		case "num_predict", "max_tokens":
			req.MaxTokens = int(number)
		case "seed":
			seed := int(number)
			req.Seed = &seed
		}
	}
}

// rawStatusDoer reports failed responses as *StatusError with the raw body,
// which go-openai would otherwise reduce to the decoded error message.
type rawStatusDoer struct {
	client *http.Client
}

func (d rawStatusDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read error response")
	}
	return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
}

// convertOpenAIError keeps *StatusError as is and wraps everything else.
func convertOpenAIError(err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr
	}
	return errors.Wrap(err, "chat request failed")
}
