package middleware

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type fakeLimiter struct {
	count int64
	err   error
}

func (f *fakeLimiter) IncrementUserRateLimit(ctx context.Context, userID int64) (int64, error) {
	return f.count, f.err
}

func newContext(t *testing.T, u tele.Update) tele.Context {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	return b.NewContext(u)
}

func messageFrom(id int64, text string) tele.Update {
	return tele.Update{Message: &tele.Message{
		Sender: &tele.User{ID: id},
		Chat:   &tele.Chat{ID: id},
		Text:   text,
	}}
}

func TestRateLimit(t *testing.T) {
	cases := []struct {
		name     string
		limiter  *fakeLimiter
		wantNext bool
	}{
		{"under the limit", &fakeLimiter{count: 3}, true},
		{"at the limit", &fakeLimiter{count: 5}, true},
		{"counter down", &fakeLimiter{err: errors.New("redis down")}, true},
		{"already warned", &fakeLimiter{count: 7}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := RateLimit(tc.limiter, 5, zap.NewNop())(func(c tele.Context) error {
				called = true
				return nil
			})

			if err := h(newContext(t, messageFrom(1, "hi"))); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if called != tc.wantNext {
				t.Errorf("next called = %v, want %v", called, tc.wantNext)
			}
		})
	}
}

func TestDescribeUpdateHidesFreeText(t *testing.T) {
	cases := []struct {
		update    tele.Update
		kind, txt string
	}{
		{messageFrom(1, "/listing 42"), "command", "/listing"},
		{messageFrom(1, "hunter2"), "message", ""},
		{tele.Update{Callback: &tele.Callback{Data: "\flst:42", Sender: &tele.User{ID: 1}}}, "callback", "lst:42"},
	}

	for _, tc := range cases {
		kind, txt := describeUpdate(newContext(t, tc.update))
		if kind != tc.kind || txt != tc.txt {
			t.Errorf("describeUpdate = %q, %q; want %q, %q", kind, txt, tc.kind, tc.txt)
		}
	}
}

func TestAdminOnlyPassesAdmins(t *testing.T) {
	called := false
	h := AdminOnly(func(tele.Context) bool { return true })(func(c tele.Context) error {
		called = true
		return nil
	})

	if err := h(newContext(t, messageFrom(1, "/admin"))); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("admin was stopped")
	}
}

func TestAdminOnlyStopsOthers(t *testing.T) {
	called := false
	h := AdminOnly(func(tele.Context) bool { return false })(func(c tele.Context) error {
		called = true
		return nil
	})

	// the refusal can't be delivered offline, only the handler matters here
	_ = h(newContext(t, messageFrom(1, "/admin")))
	_ = h(newContext(t, tele.Update{Callback: &tele.Callback{ID: "1", Data: "\fadm:home", Sender: &tele.User{ID: 1}}}))

	if called {
		t.Error("non admin reached the admin handler")
	}
}

func TestRecoveryStopsPanics(t *testing.T) {
	h := Recovery(zap.NewNop())(func(c tele.Context) error {
		panic("boom")
	})

	// the apology fails without a network, the panic must not escape
	_ = h(newContext(t, messageFrom(1, "/start")))
}
