// Package gmail provides the Gmail inbox adapter.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"mailmind_server/core/port/out"
)

// Provider implements out.MailProvider for Gmail.
type Provider struct {
	service *gmail.Service
}

// NewProvider builds a Gmail client from a user's OAuth token.
func NewProvider(ctx context.Context, token *oauth2.Token, config *oauth2.Config) (*Provider, error) {
	client := config.Client(ctx, token)
	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Provider{service: service}, nil
}

var _ out.MailProvider = (*Provider)(nil)

// FetchInbox lists up to max recent INBOX messages and fetches each one in
// full. Fetching is fanned out with bounded concurrency; messages that fail
// to load are skipped rather than failing the whole batch.
func (p *Provider) FetchInbox(ctx context.Context, max int) ([]*out.MailMessage, error) {
	resp, err := p.service.Users.Messages.List("me").
		LabelIds("INBOX").
		MaxResults(int64(max)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	if len(resp.Messages) == 0 {
		return []*out.MailMessage{}, nil
	}

	const maxConcurrency = 5
	type result struct {
		index int
		msg   *out.MailMessage
	}

	results := make(chan result, len(resp.Messages))
	semaphore := make(chan struct{}, maxConcurrency)

	for i, m := range resp.Messages {
		go func(idx int, msgID string) {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			full, err := p.service.Users.Messages.Get("me", msgID).
				Format("full").
				Context(ctx).
				Do()
			if err != nil {
				results <- result{index: idx}
				return
			}
			results <- result{index: idx, msg: parseMessage(full)}
		}(i, m.Id)
	}

	ordered := make([]*out.MailMessage, len(resp.Messages))
	for range resp.Messages {
		r := <-results
		ordered[r.index] = r.msg
	}

	messages := make([]*out.MailMessage, 0, len(ordered))
	for _, msg := range ordered {
		if msg != nil {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

func parseMessage(msg *gmail.Message) *out.MailMessage {
	m := &out.MailMessage{
		MessageID: msg.Id,
		Snippet:   msg.Snippet,
	}

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			switch header.Name {
			case "From":
				m.SenderFull = header.Value
				m.Sender = bareAddress(header.Value)
			case "Subject":
				m.Subject = header.Value
			case "Date":
				m.Date = header.Value
			}
		}
		m.Body = extractBody(msg.Payload)
	}

	if m.Body == "" {
		m.Body = msg.Snippet
	}
	return m
}

// extractBody walks the MIME tree preferring text/plain; an HTML-only message
// falls back to the tag-stripped HTML part.
func extractBody(payload *gmail.MessagePart) string {
	text, html := collectParts(payload)
	if text != "" {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(stripHTML(html))
}

func collectParts(payload *gmail.MessagePart) (text, html string) {
	if payload == nil {
		return "", ""
	}

	if payload.Body != nil && payload.Body.Data != "" {
		switch payload.MimeType {
		case "text/plain":
			text = decodeBase64URL(payload.Body.Data)
		case "text/html":
			html = decodeBase64URL(payload.Body.Data)
		}
	}

	for _, part := range payload.Parts {
		t, h := collectParts(part)
		if text == "" && t != "" {
			text = t
		}
		if html == "" && h != "" {
			html = h
		}
	}
	return text, html
}

// decodeBase64URL decodes Gmail body data, repairing missing padding first.
func decodeBase64URL(data string) string {
	if m := len(data) % 4; m != 0 {
		data += strings.Repeat("=", 4-m)
	}
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}

var (
	htmlTagRe    = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>|<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'").Replace(s)
	return whitespaceRe.ReplaceAllString(s, " ")
}

func bareAddress(from string) string {
	if addr, err := mail.ParseAddress(from); err == nil {
		return strings.ToLower(addr.Address)
	}
	// Header did not parse; take whatever sits between angle brackets.
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return strings.ToLower(strings.TrimSpace(from[i+1 : i+j]))
		}
	}
	return strings.ToLower(strings.TrimSpace(from))
}
