package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTelebotAdapterSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot123:abc/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"hi"}}`))
	}))
	defer srv.Close()

	bot, err := NewBot("123:abc", srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	if err := NewTelebotAdapter(bot).Send(context.Background(), "42", "hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "hi" {
		t.Fatalf("unexpected payload %v", got)
	}
}

func TestTelebotAdapterSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	bot, err := NewBot("bad", srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	if err := NewTelebotAdapter(bot).Send(context.Background(), "42", "hi"); err == nil {
		t.Fatal("expected error for unauthorized response")
	}
}
