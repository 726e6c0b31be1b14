package browse

import "strings"

// Filter panel helpers. Each returns a fresh FilterState, the input is
// never modified, so the result can be emitted as a full replacement.

// ToggleMulti adds value to a multi select key or removes it when present.
// An emptied list deletes the key.
func ToggleMulti(f FilterState, key FilterKey, value string) FilterState {
	next := f.Clone()

	current := f.Values(key)
	out := make([]string, 0, len(current)+1)
	found := false
	for _, v := range current {
		if v == value {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, value)
	}

	if len(out) == 0 {
		delete(next, key)
	} else {
		next[key] = strings.Join(out, ",")
	}
	return next
}

// ToggleSingle selects value, selecting the current value clears it
func ToggleSingle(f FilterState, key FilterKey, value string) FilterState {
	next := f.Clone()
	if next[key] == value {
		delete(next, key)
	} else {
		next[key] = value
	}
	return next
}

// SetValue writes value verbatim, empty deletes the key
func SetValue(f FilterState, key FilterKey, value string) FilterState {
	next := f.Clone()
	value = strings.TrimSpace(value)
	if value == "" {
		delete(next, key)
	} else {
		next[key] = value
	}
	return next
}

func ClearFilters() FilterState {
	return FilterState{}
}

// Panel sections that can be expanded in the filter keyboard
const (
	SectionCategory   = "category"
	SectionArea       = "area"
	SectionPrice      = "price"
	SectionDays       = "days"
	SectionSkill      = "skill"
	SectionCommitment = "commitment"
)

var Sections = []string{
	SectionCategory,
	SectionArea,
	SectionPrice,
	SectionDays,
	SectionSkill,
	SectionCommitment,
}

func defaultExpanded() map[string]bool {
	return map[string]bool{
		SectionCategory: true,
		SectionArea:     true,
		SectionPrice:    true,
	}
}
