package models

import (
	"strings"
	"testing"

	"jarrib-bot/internal/api/jarrib"
)

func TestDurationLabel(t *testing.T) {
	tests := []struct {
		name    string
		listing jarrib.Listing
		want    string
	}{
		{"total duration", jarrib.Listing{TotalDuration: &jarrib.Duration{Value: 12, Unit: "weeks"}, CommitmentType: "drop-in"}, "12 WEEKS"},
		{"drop-in", jarrib.Listing{CommitmentType: "drop-in", DurationMinutes: 90}, "DROP-IN"},
		{"whole hours", jarrib.Listing{DurationMinutes: 150}, "2h"},
		{"exactly one hour", jarrib.Listing{DurationMinutes: 60}, "1h"},
		{"minutes", jarrib.Listing{DurationMinutes: 45}, "45min"},
		{"nothing", jarrib.Listing{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationLabel(&tt.listing); got != tt.want {
				t.Errorf("DurationLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetailedDurationLabel(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{90, "1h 30min"},
		{120, "2 hours"},
		{60, "1 hour"},
		{45, "45 minutes"},
		{0, ""},
	}

	for _, tt := range tests {
		l := jarrib.Listing{DurationMinutes: tt.minutes}
		if got := DetailedDurationLabel(&l); got != tt.want {
			t.Errorf("DetailedDurationLabel(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}

	l := jarrib.Listing{TotalDuration: &jarrib.Duration{Value: 1.5, Unit: "months"}}
	if got := DetailedDurationLabel(&l); got != "1.5 months" {
		t.Errorf("DetailedDurationLabel(total) = %q", got)
	}
}

func TestPriceLabel(t *testing.T) {
	tests := []struct {
		priceType string
		want      string
	}{
		{"per-class", "15 KD / class"},
		{"per-month", "15 KD / month"},
		{"package", "15 KD"},
	}
	for _, tt := range tests {
		l := jarrib.Listing{Price: 15, PriceCurrency: "KD", PriceType: tt.priceType}
		if got := PriceLabel(&l); got != tt.want {
			t.Errorf("PriceLabel(%s) = %q, want %q", tt.priceType, got, tt.want)
		}
	}
}

func TestSummarizeFallbacks(t *testing.T) {
	l := jarrib.Listing{
		ID:            "x1",
		TitleAr:       "رسم",
		Price:         7.5,
		PriceCurrency: "KD",
		PriceType:     "per-class",
		PaymentPlans:  true,
	}

	s := Summarize(&l)
	if s.Title != "رسم" {
		t.Errorf("Title = %q, want arabic fallback", s.Title)
	}
	if s.Area != DefaultArea {
		t.Errorf("Area = %q, want %q", s.Area, DefaultArea)
	}
	if s.Price != "7.5 KD / class" {
		t.Errorf("Price = %q", s.Price)
	}
	if !s.PaymentPlans {
		t.Error("PaymentPlans lost")
	}

	l.TitleEn = "Drawing"
	l.Area = "salmiya"
	s = Summarize(&l)
	if s.Title != "Drawing" || s.Area != "Salmiya" {
		t.Errorf("Summarize = %+v", s)
	}
}

func TestWhatsAppURL(t *testing.T) {
	got := WhatsAppURL("+965 9999-1234", InterestMessage("Pottery 101", "Jarrib"))
	if !strings.HasPrefix(got, "https://wa.me/96599991234?text=") {
		t.Fatalf("WhatsAppURL = %q", got)
	}
	if strings.Contains(got, "+") {
		t.Errorf("spaces must be percent encoded: %q", got)
	}
	if !strings.Contains(got, "Pottery%20101") {
		t.Errorf("title missing from message: %q", got)
	}

	if WhatsAppURL("n/a", "hi") != "" {
		t.Error("expected empty link without digits")
	}
}

func TestDaysLabel(t *testing.T) {
	if got := DaysLabel(nil); got != "Flexible" {
		t.Errorf("DaysLabel(nil) = %q", got)
	}
	if got := DaysLabel([]string{"saturday", "monday"}); got != "Saturday, Monday" {
		t.Errorf("DaysLabel = %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(SkillLevelOptions, "all"); got != "All Levels" {
		t.Errorf("DisplayName(all) = %q", got)
	}
	if got := DisplayName(AreaOptions, "abdullah-al-salem"); got != "Abdullah Al Salem" {
		t.Errorf("DisplayName(unknown) = %q", got)
	}
	if got := JoinDisplayNames(AreaOptions, "salmiya,online"); got != "Salmiya, Online" {
		t.Errorf("JoinDisplayNames = %q", got)
	}
}
