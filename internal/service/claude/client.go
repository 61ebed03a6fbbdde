package claude

import (
	"context"
	"encoding/base64"
	"strings"

	"memewatch/internal/scanerr"
	xhttp "memewatch/pkg/http"
)

const (
	providerName = "claude"
	apiVersion   = "2023-06-01"
)

// Client sends multimodal completion requests to the Anthropic messages API.
type Client struct {
	http      *xhttp.Client
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
}

func New(httpClient *xhttp.Client, baseURL, apiKey, model string, maxTokens int) *Client {
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends an instruction plus one base64-encoded image and returns
// the text completion verbatim.
func (c *Client) Complete(ctx context.Context, instruction, mediaType string, image []byte) (string, error) {
	req := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{Type: "text", Text: instruction},
				{Type: "image", Source: &imageSource{
					Type:      "base64",
					MediaType: mediaType,
					Data:      base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
	}

	var resp messagesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/v1/messages",
		Headers: map[string]string{
			"x-api-key":         c.apiKey,
			"anthropic-version": apiVersion,
		},
		Body: req,
	}, &resp)
	if err != nil {
		return "", scanerr.Wrap(scanerr.CodeServiceUnavailable, providerName+" request failed", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", scanerr.New(scanerr.CodeEmptyResponse, providerName+" returned no usable text")
	}
	return out, nil
}
