package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Option is a value accepted by the API plus its english label
type Option struct {
	Value string
	Label string
}

var AreaOptions = []Option{
	{"kuwait-city", "Kuwait City"},
	{"salmiya", "Salmiya"},
	{"hawalli", "Hawalli"},
	{"jabriya", "Jabriya"},
	{"mishref", "Mishref"},
	{"farwaniya", "Farwaniya"},
	{"fahaheel", "Fahaheel"},
	{"online", "Online"},
}

var DayOptions = []Option{
	{"saturday", "Saturday"},
	{"sunday", "Sunday"},
	{"monday", "Monday"},
	{"tuesday", "Tuesday"},
	{"wednesday", "Wednesday"},
	{"thursday", "Thursday"},
	{"friday", "Friday"},
}

var SkillLevelOptions = []Option{
	{"beginner", "Beginner"},
	{"intermediate", "Intermediate"},
	{"advanced", "Advanced"},
	{"all", "All Levels"},
}

var CommitmentOptions = []Option{
	{"drop-in", "Drop-in"},
	{"workshop", "Workshop"},
	{"short-course", "Short Course"},
	{"course", "Course"},
	{"bootcamp", "Bootcamp"},
	{"certification", "Certification"},
}

// QuickCommitmentOptions are the pills above the results, empty value means all
var QuickCommitmentOptions = []Option{
	{"", "All"},
	{"drop-in", "Drop-in"},
	{"workshop", "Workshops"},
	{"course", "Courses"},
	{"bootcamp", "Bootcamps"},
}

var SortOptions = []Option{
	{"newest", "Newest"},
	{"price-low", "Price: Low to High"},
	{"price-high", "Price: High to Low"},
}

var PriceTypeOptions = []Option{
	{"per-class", "Per Class"},
	{"per-month", "Per Month"},
	{"package", "Package"},
}

var LocationTypeOptions = []Option{
	{"in-person", "In Person"},
	{"online", "Online"},
	{"both", "Both"},
}

var ScheduleTypeOptions = []Option{
	{"one-time", "One Time"},
	{"recurring", "Recurring"},
	{"flexible", "Flexible"},
}

var ListingStatusOptions = []Option{
	{"all", "All"},
	{"pending", "Pending"},
	{"approved", "Approved"},
	{"rejected", "Rejected"},
}

var RoleOptions = []Option{
	{"all", "All"},
	{"user", "User"},
	{"admin", "Admin"},
}

func IsValidOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// DisplayName returns the label for value, unknown slugs are title cased
func DisplayName(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return cases.Title(language.English).String(strings.ReplaceAll(value, "-", " "))
}

func OptionValues(options []Option) []string {
	values := make([]string, 0, len(options))
	for _, o := range options {
		values = append(values, o.Value)
	}
	return values
}

// JoinDisplayNames maps a comma separated value list to labels
func JoinDisplayNames(options []Option, csv string) string {
	if csv == "" {
		return ""
	}
	parts := strings.Split(csv, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, DisplayName(options, p))
	}
	return strings.Join(names, ", ")
}
