package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type slackAttachment struct {
	Fallback string       `json:"fallback"`
	Color    string       `json:"color"`
	Title    string       `json:"title,omitempty"`
	Text     string       `json:"text,omitempty"`
	Fields   []slackField `json:"fields"`
}

type slackPayload struct {
	Text        string            `json:"text"`
	Username    string            `json:"username"`
	Channel     string            `json:"channel,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

// SlackSink incoming webhook，本地环境发给个人频道
type SlackSink struct {
	url      string
	username string
	channel  string
	client   *http.Client
}

func NewSlackSink(url, username, channel string) *SlackSink {
	if username == "" {
		username = "Atlas"
	}
	return &SlackSink{
		url:      url,
		username: username,
		channel:  channel,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SlackSink) Name() string { return "slack" }

func (s *SlackSink) Send(ctx context.Context, o *Outcome) error {
	body, err := json.Marshal(s.payload(o))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack webhook: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}

func (s *SlackSink) payload(o *Outcome) slackPayload {
	status, color := "Success", "good"
	if !o.Success {
		status, color = "Failed", "danger"
	}
	text := fmt.Sprintf("%s - %s", o.Title, status)

	fields := []slackField{{Title: "Environment", Value: o.Environment, Short: true}}
	if o.Actor != "" {
		fields = append(fields, slackField{Title: "Requested by", Value: o.Actor, Short: true})
	}
	if o.EntityID != "" {
		fields = append(fields, slackField{Title: o.Entity, Value: o.EntityID, Short: true})
	}
	keys := make([]string, 0, len(o.Fields))
	for k := range o.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, slackField{Title: k, Value: o.Fields[k], Short: len(o.Fields[k]) < 40})
	}

	attachments := []slackAttachment{{Fallback: text, Color: color, Fields: fields}}
	if !o.Success {
		errFields := make([]slackField, 0, len(o.Hosts))
		hosts := make([]string, 0, len(o.Hosts))
		for h := range o.Hosts {
			hosts = append(hosts, h)
		}
		sort.Strings(hosts)
		for _, h := range hosts {
			ho := o.Hosts[h]
			if ho.Success {
				continue
			}
			errFields = append(errFields, slackField{
				Title: h,
				Value: fmt.Sprintf("exit %d: %s", ho.ExitStatus, ho.Error),
			})
		}
		attachments = append(attachments, slackAttachment{
			Fallback: o.Error,
			Color:    "#e07f7f",
			Title:    "Error",
			Text:     o.Error,
			Fields:   errFields,
		})
	}
	return slackPayload{Text: text, Username: s.username, Channel: s.channel, Attachments: attachments}
}
