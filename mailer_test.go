package folio

import (
	"bytes"
	"context"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testMessage() ContactMessage {
	return ContactMessage{
		ID:       "1234",
		Name:     "Ada",
		Email:    "ada@example.com",
		Body:     "line one\nline two",
		IP:       "198.51.100.7",
		Received: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSMTPMailerSend(t *testing.T) {
	m := NewSMTPMailer(MailConfig{Host: "smtp.example.com", Port: "587", User: "me@example.com", Pass: "x"})
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}
	if err := m.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotAddr != "smtp.example.com:587" || gotFrom != "me@example.com" {
		t.Errorf("addr = %q, from = %q", gotAddr, gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "me@example.com" {
		t.Errorf("to = %v, want the user address", gotTo)
	}
	msg := string(gotMsg)
	for _, want := range []string{"Reply-To: ada@example.com\r\n", "Subject: Portfolio contact: Ada\r\n", "line one\r\nline two"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestComposeMailStripsHeaderInjection(t *testing.T) {
	msg := testMessage()
	msg.Name = "Eve\r\nBcc: victim@example.com"
	out := string(composeMail(MailConfig{To: "me@example.com", From: "me@example.com"}, msg))
	if strings.Contains(out, "\r\nBcc:") {
		t.Error("header injection not neutralised")
	}
}

func TestSMTPMailerHonoursContext(t *testing.T) {
	m := NewSMTPMailer(MailConfig{Host: "h", User: "u"})
	called := false
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Send(ctx, testMessage()); err == nil || called {
		t.Errorf("err = %v, called = %v", err, called)
	}
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := LogMailer{Log: zerolog.New(&buf)}
	if err := m.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(buf.String(), `"id":"1234"`) {
		t.Errorf("log = %s", buf.String())
	}
	if strings.Contains(buf.String(), "line one") {
		t.Error("message body should not be logged")
	}
}

func TestContactFormProblem(t *testing.T) {
	ok := contactForm{Name: "Ada", Email: "ada@example.com", Message: "hi"}
	if p := ok.problem(); p != "" {
		t.Errorf("valid form rejected: %s", p)
	}
	f := contactForm{Name: "  Ada ", Email: " ada@example.com ", Message: " hi "}
	f.normalize()
	if f != ok {
		t.Errorf("normalize = %+v", f)
	}
	long := ok
	long.Name = strings.Repeat("n", ContactNameMax+1)
	if long.problem() != msgContactName {
		t.Error("long name accepted")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("log output = %s", out)
	}

	buf.Reset()
	fallback := NewLogger(LogConfig{Level: "bogus", Format: "json"}, &buf)
	fallback.Info().Msg("default level")
	if !strings.Contains(buf.String(), "default level") {
		t.Error("unknown level should fall back to info")
	}
}
