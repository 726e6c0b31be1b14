package listingform

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/models"
)

const (
	FieldTitleAr           = "title_ar"
	FieldTitleEn           = "title_en"
	FieldCategory          = "category"
	FieldSubcategory       = "subcategory"
	FieldDescriptionEn     = "description_en"
	FieldDescriptionAr     = "description_ar"
	FieldLocationType      = "location_type"
	FieldArea              = "area"
	FieldAddress           = "address"
	FieldScheduleType      = "schedule_type"
	FieldDays              = "days"
	FieldTimeStart         = "time_start"
	FieldTimeEnd           = "time_end"
	FieldDurationMinutes   = "duration_minutes"
	FieldPrice             = "price"
	FieldPriceType         = "price_type"
	FieldSkillLevel        = "skill_level"
	FieldMaxSize           = "max_size"
	FieldWhatsIncluded     = "whats_included"
	FieldRequirements      = "requirements"
	FieldProviderName      = "provider_name"
	FieldProviderBio       = "provider_bio"
	FieldProviderWhatsApp  = "provider_whatsapp"
	FieldProviderPhone     = "provider_phone"
	FieldProviderInstagram = "provider_instagram"
	FieldProviderEmail     = "provider_email"
	FieldPhotos            = "photos"
)

const (
	MaxPhotos            = 5
	MinDescriptionLength = 50
)

// Form is the add listing form. All inputs are kept as typed text until
// Draft converts them.
type Form struct {
	Values map[string]string `json:"values"`
	Days   []string          `json:"days"`
	Photos []string          `json:"photos"`
}

func New() *Form {
	return &Form{
		Values: map[string]string{
			FieldLocationType: "in-person",
			FieldScheduleType: "recurring",
			FieldPriceType:    "per-class",
			FieldSkillLevel:   "all",
		},
	}
}

func (f *Form) Get(field string) string {
	return f.Values[field]
}

// Set stores a text input. Choice fields only accept their options.
func (f *Form) Set(field, value string) error {
	if f.Values == nil {
		f.Values = map[string]string{}
	}
	value = strings.TrimRight(value, " \t")

	if options, ok := choiceFields[field]; ok && !models.IsValidOption(options, value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}

	f.Values[field] = value
	return nil
}

// ToggleDay adds or removes a day, keeping selection order
func (f *Form) ToggleDay(day string) error {
	if !models.IsValidOption(models.DayOptions, day) {
		return fmt.Errorf("invalid day: %q", day)
	}
	for i, d := range f.Days {
		if d == day {
			f.Days = append(f.Days[:i:i], f.Days[i+1:]...)
			return nil
		}
	}
	f.Days = append(f.Days, day)
	return nil
}

// AddPhoto appends a photo URL, beyond MaxPhotos it is ignored
func (f *Form) AddPhoto(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" || len(f.Photos) >= MaxPhotos {
		return false
	}
	f.Photos = append(f.Photos, url)
	return true
}

func (f *Form) RemovePhoto(index int) {
	if index < 0 || index >= len(f.Photos) {
		return
	}
	f.Photos = append(f.Photos[:index:index], f.Photos[index+1:]...)
}

var choiceFields = map[string][]models.Option{
	FieldLocationType: models.LocationTypeOptions,
	FieldScheduleType: models.ScheduleTypeOptions,
	FieldPriceType:    models.PriceTypeOptions,
	FieldSkillLevel:   models.SkillLevelOptions,
}

// FieldErrors maps a field to its message
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "invalid listing: " + strings.Join(parts, "; ")
}

// ParsePrice reads a price in KD. NaN, infinities and negative amounts are
// not prices; 0 means free.
func ParsePrice(text string) (float64, bool) {
	price, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, false
	}
	return price, true
}

// Validate checks the form the same way on every submit. An empty result
// means the form can be submitted.
func (f *Form) Validate() FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.Get(FieldTitleAr)) == "" {
		errs[FieldTitleAr] = "Arabic title is required"
	}
	if f.Get(FieldCategory) == "" {
		errs[FieldCategory] = "Category is required"
	}
	if len([]rune(f.Get(FieldDescriptionEn))) < MinDescriptionLength {
		errs[FieldDescriptionEn] = fmt.Sprintf("Description must be at least %d characters", MinDescriptionLength)
	}
	if strings.TrimSpace(f.Get(FieldDescriptionAr)) == "" {
		errs[FieldDescriptionAr] = "Arabic description is required"
	}
	if price := f.Get(FieldPrice); price == "" {
		errs[FieldPrice] = "Price is required"
	} else if _, ok := ParsePrice(price); !ok {
		errs[FieldPrice] = "Price must be a number"
	}
	if strings.TrimSpace(f.Get(FieldProviderName)) == "" {
		errs[FieldProviderName] = "Your name is required"
	}
	if strings.TrimSpace(f.Get(FieldProviderWhatsApp)) == "" {
		errs[FieldProviderWhatsApp] = "WhatsApp number is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func optionalInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Draft converts a valid form into the POST /listings body
func (f *Form) Draft() (jarrib.ListingDraft, error) {
	if errs := f.Validate(); errs != nil {
		return jarrib.ListingDraft{}, errs
	}

	price, _ := ParsePrice(f.Get(FieldPrice))

	duration, err := optionalInt(f.Get(FieldDurationMinutes))
	if err != nil {
		return jarrib.ListingDraft{}, FieldErrors{FieldDurationMinutes: "Duration must be a whole number of minutes"}
	}
	maxSize, err := optionalInt(f.Get(FieldMaxSize))
	if err != nil {
		return jarrib.ListingDraft{}, FieldErrors{FieldMaxSize: "Class size must be a whole number"}
	}

	photos := append([]string(nil), f.Photos...)
	if len(photos) == 0 {
		photos = []string{models.PlaceholderPhoto}
	}

	var days []string
	if len(f.Days) > 0 {
		days = append(days, f.Days...)
	}

	return jarrib.ListingDraft{
		TitleAr:       f.Get(FieldTitleAr),
		TitleEn:       f.Get(FieldTitleEn),
		Category:      f.Get(FieldCategory),
		Subcategory:   f.Get(FieldSubcategory),
		DescriptionEn: f.Get(FieldDescriptionEn),
		DescriptionAr: f.Get(FieldDescriptionAr),
		Provider: jarrib.Provider{
			Name:      f.Get(FieldProviderName),
			Bio:       f.Get(FieldProviderBio),
			WhatsApp:  f.Get(FieldProviderWhatsApp),
			Phone:     f.Get(FieldProviderPhone),
			Instagram: f.Get(FieldProviderInstagram),
			Email:     f.Get(FieldProviderEmail),
		},
		LocationType:    f.Get(FieldLocationType),
		Area:            f.Get(FieldArea),
		Address:         f.Get(FieldAddress),
		ScheduleType:    f.Get(FieldScheduleType),
		Days:            days,
		TimeStart:       f.Get(FieldTimeStart),
		TimeEnd:         f.Get(FieldTimeEnd),
		DurationMinutes: duration,
		Price:           price,
		PriceType:       f.Get(FieldPriceType),
		PriceCurrency:   models.DefaultCurrency,
		SkillLevel:      f.Get(FieldSkillLevel),
		MaxSize:         maxSize,
		WhatsIncluded:   splitLines(f.Get(FieldWhatsIncluded)),
		Requirements:    f.Get(FieldRequirements),
		Photos:          photos,
	}, nil
}
