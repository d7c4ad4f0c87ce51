package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTwilioClientSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "secret" {
			t.Errorf("unexpected basic auth %q %q %v", user, pass, ok)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if r.PostForm.Get("From") != "whatsapp:+100" || r.PostForm.Get("To") != "whatsapp:+200" || r.PostForm.Get("Body") != "hello" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewTwilioClient(srv.URL+"/", "AC123", "secret", "+100", time.Second)
	if err := c.Send(context.Background(), "+200", "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestTwilioClientSendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewTwilioClient(srv.URL, "AC123", "secret", "whatsapp:+100", time.Second)
	if err := c.Send(context.Background(), "+200", "hello"); err == nil {
		t.Fatal("expected error for 400")
	}
}
