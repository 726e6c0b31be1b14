package listingform

import "jarrib-bot/internal/models"

// Step is one question of the add listing conversation
type Step struct {
	Field    string
	Prompt   string
	Optional bool
	// Choices are offered as buttons, nil means free text
	Choices []models.Option
}

// Steps in the order they are asked. Category choices are dynamic and
// filled by the caller from the category list.
var Steps = []Step{
	{Field: FieldTitleAr, Prompt: "Class title in Arabic"},
	{Field: FieldTitleEn, Prompt: "Class title in English", Optional: true},
	{Field: FieldCategory, Prompt: "Choose a category"},
	{Field: FieldSubcategory, Prompt: "Subcategory", Optional: true},
	{Field: FieldDescriptionEn, Prompt: "Description in English (at least 50 characters)"},
	{Field: FieldDescriptionAr, Prompt: "Description in Arabic"},
	{Field: FieldLocationType, Prompt: "Where does the class happen?", Choices: models.LocationTypeOptions},
	{Field: FieldArea, Prompt: "Area", Optional: true, Choices: models.AreaOptions},
	{Field: FieldAddress, Prompt: "Address", Optional: true},
	{Field: FieldScheduleType, Prompt: "Schedule type", Choices: models.ScheduleTypeOptions},
	{Field: FieldDays, Prompt: "Pick the days, then press Done", Optional: true, Choices: models.DayOptions},
	{Field: FieldTimeStart, Prompt: "Start time, e.g. 18:00", Optional: true},
	{Field: FieldTimeEnd, Prompt: "End time, e.g. 20:00", Optional: true},
	{Field: FieldDurationMinutes, Prompt: "Session length in minutes", Optional: true},
	{Field: FieldPrice, Prompt: "Price in KD"},
	{Field: FieldPriceType, Prompt: "Price type", Choices: models.PriceTypeOptions},
	{Field: FieldSkillLevel, Prompt: "Skill level", Choices: models.SkillLevelOptions},
	{Field: FieldMaxSize, Prompt: "Maximum class size", Optional: true},
	{Field: FieldWhatsIncluded, Prompt: "What's included, one item per line", Optional: true},
	{Field: FieldRequirements, Prompt: "Requirements", Optional: true},
	{Field: FieldPhotos, Prompt: "Send up to 5 photo URLs, then press Done", Optional: true},
	{Field: FieldProviderName, Prompt: "Your name"},
	{Field: FieldProviderBio, Prompt: "A short bio", Optional: true},
	{Field: FieldProviderWhatsApp, Prompt: "WhatsApp number"},
	{Field: FieldProviderPhone, Prompt: "Phone", Optional: true},
	{Field: FieldProviderInstagram, Prompt: "Instagram handle", Optional: true},
	{Field: FieldProviderEmail, Prompt: "Email", Optional: true},
}

// StepIndex returns the position of field in Steps or -1
func StepIndex(field string) int {
	for i, s := range Steps {
		if s.Field == field {
			return i
		}
	}
	return -1
}

// FirstInvalidStep is where the conversation resumes after a failed
// validation
func FirstInvalidStep(errs FieldErrors) int {
	for i, s := range Steps {
		if _, ok := errs[s.Field]; ok {
			return i
		}
	}
	return -1
}
