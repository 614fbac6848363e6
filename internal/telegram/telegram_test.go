package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reviewcheckk/dealbot/internal/models"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("TOKEN", srv.URL)
	if err := c.SendMessage(context.Background(), 77, "deal text", 42); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if gotPath != "/botTOKEN/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotPayload["chat_id"].(float64) != 77 {
		t.Errorf("chat_id = %v", gotPayload["chat_id"])
	}
	if gotPayload["text"] != "deal text" {
		t.Errorf("text = %v", gotPayload["text"])
	}
	if gotPayload["reply_to_message_id"].(float64) != 42 {
		t.Errorf("reply_to_message_id = %v", gotPayload["reply_to_message_id"])
	}
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":403,"description":"bot was blocked"}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("TOKEN", srv.URL)
	err := c.SendMessage(context.Background(), 77, "x", 0)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("expected API error, got %v", err)
	}
}

func TestPollDeliversMessagesAndAdvancesOffset(t *testing.T) {
	var offsets []int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/getUpdates") {
			t.Errorf("unexpected call %s", r.URL.Path)
		}
		var payload struct {
			Offset int64 `json:"offset"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		offsets = append(offsets, payload.Offset)

		if len(offsets) == 1 {
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":10,"channel_post":{"message_id":1,"chat":{"id":-100},"text":"link https://amzn.to/x1y2z3w"}},
				{"update_id":11,"message":{"message_id":2,"chat":{"id":5},"caption":"photo deal","photo":[{"file_id":"small"},{"file_id":"big"}]}}
			]}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var got []models.RawMessage
	c := NewWithBaseURL("TOKEN", srv.URL)
	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()
	err := c.Poll(ctx, func(m models.RawMessage) {
		got = append(got, m)
	})
	if err != context.Canceled {
		t.Errorf("Poll returned %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("handled %d messages, want 2", len(got))
	}
	if got[0].ChatID != -100 || got[0].MessageID != 1 {
		t.Errorf("first message = %+v", got[0])
	}
	if got[1].Text != "photo deal" || got[1].PhotoFileID != "big" {
		t.Errorf("caption/photo not mapped: %+v", got[1])
	}
	if len(offsets) < 2 || offsets[1] != 12 {
		t.Errorf("offset did not advance past last update: %v", offsets)
	}
}
