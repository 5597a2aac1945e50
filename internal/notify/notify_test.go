package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"atlas/internal/model"
	"atlas/pkg/log"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackSink_Failure(t *testing.T) {
	var got slackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlackSink(srv.URL, "", "#atlas")
	err := s.Send(context.Background(), &Outcome{
		Title:       "Code deploy",
		Success:     false,
		Environment: "prod",
		Actor:       "jdoe",
		Entity:      "code",
		EntityID:    "12",
		Error:       "clone failed on web2 (exit 128)",
		Hosts: map[string]model.HostOutcome{
			"web1": {Success: true},
			"web2": {Success: false, ExitStatus: 128, Error: "fatal"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Code deploy - Failed", got.Text)
	assert.Equal(t, "Atlas", got.Username)
	require.Len(t, got.Attachments, 2)
	assert.Equal(t, "danger", got.Attachments[0].Color)
	require.Len(t, got.Attachments[1].Fields, 1)
	assert.Equal(t, "web2", got.Attachments[1].Fields[0].Title)
}

func TestSlackSink_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewSlackSink(srv.URL, "Atlas", "").Send(context.Background(), &Outcome{Title: "x", Success: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

type failingSink struct{ calls int }

func (f *failingSink) Name() string { return "failing" }
func (f *failingSink) Send(ctx context.Context, o *Outcome) error {
	f.calls++
	return errors.New("down")
}

type recordingSink struct{ got []*Outcome }

func (r *recordingSink) Name() string { return "recording" }
func (r *recordingSink) Send(ctx context.Context, o *Outcome) error {
	r.got = append(r.got, o)
	return nil
}

func TestNotifier_SinkFailureDoesNotStopOthers(t *testing.T) {
	failing, rec := &failingSink{}, &recordingSink{}
	n := NewNotifier("test", log.NewNop(), failing, rec)

	n.Notify(context.Background(), &Outcome{Title: "Instance remove", Success: true})

	assert.Equal(t, 1, failing.calls)
	require.Len(t, rec.got, 1)
	assert.Equal(t, "test", rec.got[0].Environment)
	assert.False(t, rec.got[0].Time.IsZero())
}

func TestEmailSink(t *testing.T) {
	var to []string
	var body string
	s := NewEmailSink(EmailConfig{Host: "smtp.example.edu", Port: 587, From: "atlas@example.edu", Domain: "example.edu"})
	s.send = func(addr string, a smtp.Auth, from string, rcpt []string, msg []byte) error {
		assert.Equal(t, "smtp.example.edu:587", addr)
		to, body = rcpt, string(msg)
		return nil
	}

	require.NoError(t, s.Send(context.Background(), &Outcome{Actor: "jdoe", Success: true}))
	assert.Nil(t, to)

	require.NoError(t, s.Send(context.Background(), &Outcome{
		Actor:  "jdoe",
		Fields: map[string]string{"email_subject": "Package(s) added", "email_body": "views"},
	}))
	assert.Equal(t, []string{"jdoe@example.edu"}, to)
	assert.True(t, strings.HasSuffix(body, "views"))
	assert.Contains(t, body, "Subject: Package(s) added\r\n")
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub(log.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Send(context.Background(), &Outcome{Title: "Cron", Success: true, Entity: "instance"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Outcome
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "Cron", got.Title)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "atlas.outcomes.instance", Subject(&Outcome{Entity: "instance"}))
	assert.Equal(t, "atlas.outcomes.platform", Subject(&Outcome{}))
}
