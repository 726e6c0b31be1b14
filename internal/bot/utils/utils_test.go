package utils

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/listingform"
	"jarrib-bot/internal/models"

	tele "gopkg.in/telebot.v3"
)

func TestEscapeMarkdown(t *testing.T) {
	cases := map[string]string{
		"plain":        "plain",
		"1.5 KD":       "1\\.5 KD",
		"a_b*c":        "a\\_b\\*c",
		"(drop-in)!":   "\\(drop\\-in\\)\\!",
		"back\\slash":  "back\\\\slash",
		"صناعة الفخار": "صناعة الفخار",
	}

	for in, want := range cases {
		if got := EscapeMarkdown(in); got != want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("short string changed: %q", got)
	}

	got := TruncateString("صناعة الفخار للمبتدئين", 8)
	if n := len([]rune(got)); n != 8 {
		t.Errorf("truncated to %d runes, want 8", n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("missing ellipsis: %q", got)
	}
}

func TestOptionForLabel(t *testing.T) {
	options := []models.Option{
		{Value: "beginner", Label: "Beginner"},
		{Value: "advanced", Label: "Advanced"},
	}

	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"Beginner", "beginner", true},
		{"✓ Advanced", "advanced", true},
		{"advanced", "advanced", true},
		{"Expert", "", false},
	}

	for _, tc := range cases {
		got, ok := OptionForLabel(options, tc.text)
		if got != tc.want || ok != tc.ok {
			t.Errorf("OptionForLabel(%q) = %q, %v", tc.text, got, ok)
		}
	}
}

func TestFormatErrorUsesAPIMessage(t *testing.T) {
	err := fmt.Errorf("approve listing: %w", &jarrib.APIError{Status: 409, Message: "Already approved"})

	got := FormatError("approve the listing", err)
	if !strings.Contains(got, "Already approved") {
		t.Errorf("FormatError = %q", got)
	}

	got = FormatError("load users", errors.New("dial tcp: refused"))
	if strings.Contains(got, "dial tcp") {
		t.Errorf("transport error leaked to the user: %q", got)
	}
}

func TestFormatFieldErrorsFollowsFormOrder(t *testing.T) {
	errs := listingform.FieldErrors{
		listingform.FieldPrice:   "Price is required",
		listingform.FieldTitleAr: "Arabic title is required",
	}

	got := FormatFieldErrors(errs)
	title := strings.Index(got, "Arabic title")
	price := strings.Index(got, "Price is required")
	if title < 0 || price < 0 || title > price {
		t.Errorf("unexpected order:\n%s", got)
	}
}

// every inline button has to fit the callback data limit
func assertCallbacksFit(t *testing.T, name string, menu *tele.ReplyMarkup) {
	t.Helper()
	for _, row := range menu.InlineKeyboard {
		for _, btn := range row {
			if !fits(btn.Unique) {
				t.Errorf("%s: callback %q is %d bytes", name, btn.Unique, len(btn.Unique)+1)
			}
		}
	}
}

func TestAdminKeyboardsFitCallbackLimit(t *testing.T) {
	id := "65f1c0ffee0123456789abcd"

	assertCallbacksFit(t, "listing", AdminListingKeyboard(&jarrib.Listing{ID: id, Status: "pending"}))
	assertCallbacksFit(t, "user", AdminUserKeyboard(&jarrib.User{ID: id, Role: jarrib.RoleUser}))
	assertCallbacksFit(t, "category", AdminCategoryKeyboard(&jarrib.Category{ID: id}))
	assertCallbacksFit(t, "confirm", ConfirmDeleteKeyboard("adc:"+id, "al:"+id))
}

func TestAdminListingKeyboardModeration(t *testing.T) {
	has := func(menu *tele.ReplyMarkup, prefix string) bool {
		for _, row := range menu.InlineKeyboard {
			for _, btn := range row {
				if strings.HasPrefix(btn.Unique, prefix) {
					return true
				}
			}
		}
		return false
	}

	approved := AdminListingKeyboard(&jarrib.Listing{ID: "x", Status: "approved"})
	if has(approved, "aa:") {
		t.Error("approved listing offers approve")
	}
	if !has(approved, "ar:") {
		t.Error("approved listing can't be rejected")
	}

	rejected := AdminListingKeyboard(&jarrib.Listing{ID: "x", Status: "rejected"})
	if has(rejected, "ar:") || !has(rejected, "aa:") {
		t.Error("rejected listing should only offer approve")
	}
}

func TestMainMenuKeyboardAdminRow(t *testing.T) {
	count := func(menu *tele.ReplyMarkup) int {
		n := 0
		for _, row := range menu.ReplyKeyboard {
			for _, btn := range row {
				if btn.Text == BtnAdmin {
					n++
				}
			}
		}
		return n
	}

	if count(MainMenuKeyboard(false)) != 0 {
		t.Error("admin button shown to a regular user")
	}
	if count(MainMenuKeyboard(true)) != 1 {
		t.Error("admin button missing")
	}
}
