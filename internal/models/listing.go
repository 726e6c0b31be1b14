package models

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"jarrib-bot/internal/api/jarrib"
)

const (
	DefaultArea      = "Online"
	DefaultCurrency  = "KD"
	PlaceholderPhoto = "https://via.placeholder.com/800x600?text=Class+Photo"
)

// ListingSummary is what a result card shows
type ListingSummary struct {
	ID            string
	Title         string
	Category      string
	ProviderName  string
	Area          string
	Price         string
	Duration      string
	Photo         string
	PaymentPlans  bool
	CommitmentTag string
}

func Summarize(l *jarrib.Listing) ListingSummary {
	area := l.Area
	if area == "" {
		area = DefaultArea
	} else {
		area = DisplayName(AreaOptions, area)
	}

	photo := ""
	if len(l.Photos) > 0 {
		photo = l.Photos[0]
	}

	tag := ""
	if l.CommitmentType != "" {
		tag = DisplayName(CommitmentOptions, l.CommitmentType)
	}

	return ListingSummary{
		ID:            l.ID,
		Title:         l.Title(),
		Category:      l.Category,
		ProviderName:  l.Provider.Name,
		Area:          area,
		Price:         PriceLabel(l),
		Duration:      DurationLabel(l),
		Photo:         photo,
		PaymentPlans:  l.PaymentPlans,
		CommitmentTag: tag,
	}
}

func SummarizeAll(listings []jarrib.Listing) []ListingSummary {
	out := make([]ListingSummary, len(listings))
	for i := range listings {
		out[i] = Summarize(&listings[i])
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DurationLabel is the short badge shown on result cards
func DurationLabel(l *jarrib.Listing) string {
	if l.TotalDuration != nil {
		return fmt.Sprintf("%s %s", formatNumber(l.TotalDuration.Value), strings.ToUpper(l.TotalDuration.Unit))
	}
	if l.CommitmentType == "drop-in" {
		return "DROP-IN"
	}
	if l.DurationMinutes >= 60 {
		return fmt.Sprintf("%dh", l.DurationMinutes/60)
	}
	if l.DurationMinutes > 0 {
		return fmt.Sprintf("%dmin", l.DurationMinutes)
	}
	return ""
}

// DetailedDurationLabel is the long form used on the listing page
func DetailedDurationLabel(l *jarrib.Listing) string {
	if l.TotalDuration != nil {
		return fmt.Sprintf("%s %s", formatNumber(l.TotalDuration.Value), l.TotalDuration.Unit)
	}
	if l.DurationMinutes >= 60 {
		hours := l.DurationMinutes / 60
		mins := l.DurationMinutes % 60
		if mins > 0 {
			return fmt.Sprintf("%dh %dmin", hours, mins)
		}
		if hours > 1 {
			return fmt.Sprintf("%d hours", hours)
		}
		return "1 hour"
	}
	if l.DurationMinutes > 0 {
		return fmt.Sprintf("%d minutes", l.DurationMinutes)
	}
	return ""
}

func PriceLabel(l *jarrib.Listing) string {
	label := fmt.Sprintf("%s %s", formatNumber(l.Price), l.PriceCurrency)
	switch l.PriceType {
	case "per-class":
		label += " / class"
	case "per-month":
		label += " / month"
	}
	return label
}

func DaysLabel(days []string) string {
	if len(days) == 0 {
		return "Flexible"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = DisplayName(DayOptions, d)
	}
	return strings.Join(names, ", ")
}

var skillLevelDescriptions = map[string]string{
	"beginner":     "Beginner, no experience needed",
	"intermediate": "Intermediate, some experience helpful",
	"advanced":     "Advanced, experience required",
	"all":          "All levels welcome",
}

func SkillLevelDescription(level string) string {
	if d, ok := skillLevelDescriptions[level]; ok {
		return d
	}
	return DisplayName(SkillLevelOptions, level)
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// WhatsAppURL builds a wa.me deep link with a prefilled message
func WhatsAppURL(phone, message string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return ""
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, strings.ReplaceAll(url.QueryEscape(message), "+", "%20"))
}

func InterestMessage(title, brand string) string {
	return fmt.Sprintf("Hi! I found your class '%s' on %s and I'm interested in learning more.", title, brand)
}
