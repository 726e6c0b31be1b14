package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"jarrib-bot/internal/admin"
	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/browse"
	"jarrib-bot/internal/listingform"
	"jarrib-bot/internal/models"

	"github.com/dustin/go-humanize"
)

const maxDescriptionLength = 700

func bold(s string) string {
	return "*" + EscapeMarkdown(s) + "*"
}

func italic(s string) string {
	return "_" + EscapeMarkdown(s) + "_"
}

// CategoryName resolves a slug against the loaded categories
func CategoryName(categories []jarrib.Category, slug string) string {
	if c := jarrib.FindCategory(categories, slug); c != nil && c.NameEn != "" {
		return c.NameEn
	}
	return models.DisplayName(nil, slug)
}

func FormatWelcomeMessage(firstName, brand string, returning bool) string {
	name := firstName
	if name == "" {
		name = "there"
	}

	greeting := "Welcome to " + brand
	if returning {
		greeting = "Welcome back to " + brand
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👋 Hi, %s\\!\n\n", bold(name)))
	sb.WriteString(EscapeMarkdown(greeting+". Discover classes and workshops across Kuwait.") + "\n\n")
	sb.WriteString(bold("What you can do:") + "\n")
	sb.WriteString(EscapeMarkdown("• Browse and filter classes") + "\n")
	sb.WriteString(EscapeMarkdown("• Save the ones you like") + "\n")
	sb.WriteString(EscapeMarkdown("• Contact providers on WhatsApp") + "\n")
	sb.WriteString(EscapeMarkdown("• List your own class") + "\n\n")
	sb.WriteString(EscapeMarkdown("Start with /browse or pick a category below."))
	return sb.String()
}

func FormatHelpMessage(brand string) string {
	lines := []string{
		bold("📖 " + brand + " help"),
		"",
		bold("Discover"),
		EscapeMarkdown("/browse - browse all classes"),
		EscapeMarkdown("/search <text> - search by keyword"),
		EscapeMarkdown("/filters - filter by category, area, price, days and level"),
		EscapeMarkdown("/reset - clear the search and filters"),
		EscapeMarkdown("/categories - explore categories"),
		EscapeMarkdown("/saved - your saved classes"),
		EscapeMarkdown("/listing <id> - open a class"),
		"",
		bold("Account"),
		EscapeMarkdown("/login - sign in"),
		EscapeMarkdown("/register - create an account"),
		EscapeMarkdown("/logout - sign out"),
		EscapeMarkdown("/account - who is signed in"),
		"",
		bold("Teach"),
		EscapeMarkdown("/addlisting - list your class, it goes live after review"),
	}
	return strings.Join(lines, "\n")
}

// FormatActiveFilters lists the filters that constrain the results
func FormatActiveFilters(f browse.FilterState, categories []jarrib.Category) []string {
	var lines []string

	if v := f.Get(browse.FilterCategory); v != "" {
		lines = append(lines, "Category: "+CategoryName(categories, v))
	}
	if v := f.Get(browse.FilterArea); v != "" {
		lines = append(lines, "Area: "+models.JoinDisplayNames(models.AreaOptions, v))
	}
	if price := priceRange(f); price != "" {
		lines = append(lines, "Price: "+price)
	}
	if v := f.Get(browse.FilterDays); v != "" {
		lines = append(lines, "Days: "+models.JoinDisplayNames(models.DayOptions, v))
	}
	if v := f.Get(browse.FilterSkillLevel); v != "" {
		lines = append(lines, "Level: "+models.JoinDisplayNames(models.SkillLevelOptions, v))
	}
	if v := f.Get(browse.FilterCommitmentType); v != "" {
		lines = append(lines, "Type: "+models.JoinDisplayNames(models.CommitmentOptions, v))
	}

	return lines
}

func priceRange(f browse.FilterState) string {
	min, max := f.Get(browse.FilterMinPrice), f.Get(browse.FilterMaxPrice)
	switch {
	case min != "" && max != "":
		return fmt.Sprintf("%s-%s %s", min, max, models.DefaultCurrency)
	case min != "":
		return fmt.Sprintf("from %s %s", min, models.DefaultCurrency)
	case max != "":
		return fmt.Sprintf("up to %s %s", max, models.DefaultCurrency)
	}
	return ""
}

// FormatFilterPanel is the text above the filter keyboard
func FormatFilterPanel(q browse.QueryState, categories []jarrib.Category) string {
	var sb strings.Builder
	sb.WriteString(bold("⚙️ Filters") + "\n\n")

	filters := FormatActiveFilters(q.Filters, categories)
	if len(filters) == 0 {
		sb.WriteString(EscapeMarkdown("No filters yet. Tap a section to expand it."))
		return sb.String()
	}
	for _, f := range filters {
		sb.WriteString(EscapeMarkdown("• "+f) + "\n")
	}
	sb.WriteString("\n" + italic("Results update as you change filters."))
	return sb.String()
}

// FormatListingCard renders one result card
func FormatListingCard(n int, s models.ListingSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*%d\\. %s*\n", n, EscapeMarkdown(s.Title)))

	who := s.Area
	if s.ProviderName != "" {
		who = s.ProviderName + " · " + s.Area
	}
	sb.WriteString("   " + EscapeMarkdown(who) + "\n")

	parts := []string{s.Price}
	if s.Duration != "" {
		parts = append(parts, s.Duration)
	}
	if s.CommitmentTag != "" {
		parts = append(parts, s.CommitmentTag)
	}
	if s.PaymentPlans {
		parts = append(parts, "💳 Payment plans")
	}
	sb.WriteString("   " + EscapeMarkdown(strings.Join(parts, " · ")) + "\n")

	return sb.String()
}

// FormatResults renders the browse results message
func FormatResults(res *browse.Result, categories []jarrib.Category) string {
	var sb strings.Builder
	q := res.Query

	if q.Query != "" {
		sb.WriteString(bold(fmt.Sprintf("🔎 Results for \"%s\"", q.Query)) + "\n")
	} else {
		sb.WriteString(bold("🔎 Browse classes") + "\n")
	}

	total := res.Pagination.Total
	noun := "classes"
	if total == 1 {
		noun = "class"
	}
	summary := fmt.Sprintf("%s %s found", humanize.Comma(int64(total)), noun)
	if res.Pagination.Pages > 1 {
		summary += fmt.Sprintf(" · page %d of %d", res.Pagination.Page, res.Pagination.Pages)
	}
	sb.WriteString(italic(summary) + "\n")

	if filters := FormatActiveFilters(q.Filters, categories); len(filters) > 0 {
		sb.WriteString(EscapeMarkdown(strings.Join(filters, " · ")) + "\n")
	}
	if q.Sort != "" && q.Sort != browse.SortNewest {
		sb.WriteString(EscapeMarkdown("Sort: "+models.DisplayName(models.SortOptions, q.Sort)) + "\n")
	}
	sb.WriteString("\n")

	if len(res.Summaries) == 0 {
		sb.WriteString(EscapeMarkdown("No classes found. Try adjusting your filters or search terms."))
		return sb.String()
	}

	offset := (res.Pagination.Page - 1) * browse.BrowsePageSize
	if offset < 0 {
		offset = 0
	}
	for i, s := range res.Summaries {
		sb.WriteString(FormatListingCard(offset+i+1, s))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatListingList renders listings outside the browse view: saved,
// category and provider pages
func FormatListingList(title string, listings []jarrib.Listing, empty string) string {
	var sb strings.Builder
	sb.WriteString(bold(title) + "\n\n")

	if len(listings) == 0 {
		sb.WriteString(EscapeMarkdown(empty))
		return sb.String()
	}

	for i, s := range models.SummarizeAll(listings) {
		sb.WriteString(FormatListingCard(i+1, s))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatListingDetail(d *jarrib.ListingDetail, categories []jarrib.Category) string {
	l := &d.Listing
	var sb strings.Builder

	sb.WriteString(bold(l.Title()) + "\n")
	if l.TitleEn != "" && l.TitleAr != "" {
		sb.WriteString(EscapeMarkdown(l.TitleAr) + "\n")
	}
	sb.WriteString("\n")

	category := CategoryName(categories, l.Category)
	if l.Subcategory != "" {
		category += " › " + l.Subcategory
	}
	sb.WriteString("🏷 " + EscapeMarkdown(category) + "\n")
	if l.Provider.Name != "" {
		sb.WriteString("👤 " + EscapeMarkdown("by "+l.Provider.Name) + "\n")
	}

	where := models.DisplayName(models.LocationTypeOptions, l.LocationType)
	if l.Area != "" {
		where += " · " + models.DisplayName(models.AreaOptions, l.Area)
	}
	if l.Address != "" {
		where += " · " + l.Address
	}
	sb.WriteString("📍 " + EscapeMarkdown(where) + "\n")

	schedule := models.DaysLabel(l.Days)
	if l.TimeStart != "" {
		schedule += " · " + l.TimeStart
		if l.TimeEnd != "" {
			schedule += "-" + l.TimeEnd
		}
	}
	sb.WriteString("🗓 " + EscapeMarkdown(schedule) + "\n")

	if duration := models.DetailedDurationLabel(l); duration != "" {
		sb.WriteString("⏱ " + EscapeMarkdown(duration) + "\n")
	}
	sb.WriteString("💰 " + bold(models.PriceLabel(l)) + "\n")
	sb.WriteString("🎯 " + EscapeMarkdown(models.SkillLevelDescription(l.SkillLevel)) + "\n")
	if l.MaxSize > 0 {
		sb.WriteString("👥 " + EscapeMarkdown(fmt.Sprintf("Up to %d people", l.MaxSize)) + "\n")
	}

	if program := programDetails(l); len(program) > 0 {
		sb.WriteString("\n" + bold("Program") + "\n")
		for _, line := range program {
			sb.WriteString(EscapeMarkdown("• "+line) + "\n")
		}
	}

	if l.DescriptionEn != "" {
		sb.WriteString("\n" + EscapeMarkdown(TruncateString(l.DescriptionEn, maxDescriptionLength)) + "\n")
	}

	if len(l.WhatsIncluded) > 0 {
		sb.WriteString("\n" + bold("What's included") + "\n")
		for _, item := range l.WhatsIncluded {
			sb.WriteString(EscapeMarkdown("✓ "+item) + "\n")
		}
	}

	if l.Requirements != "" {
		sb.WriteString("\n" + bold("Requirements") + "\n" + EscapeMarkdown(l.Requirements) + "\n")
	}

	if len(d.Related) > 0 {
		sb.WriteString("\n" + italic(fmt.Sprintf("%d similar classes below", len(d.Related))))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func programDetails(l *jarrib.Listing) []string {
	var lines []string
	if l.CommitmentType != "" {
		lines = append(lines, models.DisplayName(models.CommitmentOptions, l.CommitmentType))
	}
	if l.TotalSessions > 0 {
		lines = append(lines, fmt.Sprintf("%d sessions", l.TotalSessions))
	}
	if l.HoursPerWeek > 0 {
		lines = append(lines, fmt.Sprintf("%s hours per week", humanize.Ftoa(l.HoursPerWeek)))
	}
	if l.Format != "" {
		lines = append(lines, "Format: "+models.DisplayName(nil, l.Format))
	}
	if len(l.StartDates) > 0 {
		lines = append(lines, "Starts: "+strings.Join(l.StartDates, ", "))
	}
	if l.Credential != "" {
		lines = append(lines, "Credential: "+l.Credential)
	}
	if l.CareerSupport {
		lines = append(lines, "Career support included")
	}
	if l.PaymentPlans {
		lines = append(lines, "Payment plans available")
	}
	return lines
}

func FormatProvider(p *jarrib.ProviderResponse) string {
	var sb strings.Builder

	sb.WriteString(bold("👤 "+p.Provider.Name) + "\n")
	if p.Provider.Bio != "" {
		sb.WriteString("\n" + EscapeMarkdown(p.Provider.Bio) + "\n")
	}

	var contacts []string
	if p.Provider.Phone != "" {
		contacts = append(contacts, "📞 "+p.Provider.Phone)
	}
	if p.Provider.Instagram != "" {
		contacts = append(contacts, "📸 @"+strings.TrimPrefix(p.Provider.Instagram, "@"))
	}
	if p.Provider.Website != "" {
		contacts = append(contacts, "🌐 "+p.Provider.Website)
	}
	if len(contacts) > 0 {
		sb.WriteString("\n" + EscapeMarkdown(strings.Join(contacts, "\n")) + "\n")
	}

	sb.WriteString("\n" + FormatListingList(
		fmt.Sprintf("Classes by %s (%d)", p.Provider.Name, len(p.Listings)),
		p.Listings,
		"No active classes right now.",
	))

	return sb.String()
}

func FormatCategories(categories []jarrib.Category) string {
	var sb strings.Builder
	sb.WriteString(bold("🗂 Categories") + "\n\n")

	if len(categories) == 0 {
		sb.WriteString(EscapeMarkdown("No categories yet."))
		return sb.String()
	}

	for _, c := range categories {
		line := strings.TrimSpace(c.Icon + " " + c.NameEn)
		if c.ListingCount > 0 {
			line += fmt.Sprintf(" (%d)", c.ListingCount)
		}
		sb.WriteString(EscapeMarkdown(line) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatCategoryPage(resp *jarrib.CategoryResponse, subcategory string) string {
	title := strings.TrimSpace(resp.Category.Icon + " " + resp.Category.NameEn)
	if subcategory != "" {
		title += " › " + subcategory
	}

	var sb strings.Builder
	if resp.Category.DescriptionEn != "" {
		sb.WriteString(EscapeMarkdown(resp.Category.DescriptionEn) + "\n\n")
	}
	if resp.Pagination.Pages > 1 {
		sb.WriteString(italic(fmt.Sprintf("Page %d of %d · %s classes",
			resp.Pagination.Page, resp.Pagination.Pages, humanize.Comma(int64(resp.Pagination.Total)))) + "\n\n")
	}

	return bold(title) + "\n\n" + sb.String() + FormatListingList("Classes", resp.Listings, "No classes in this category yet.")
}

func FormatSaved(listings []jarrib.Listing, missing int) string {
	text := FormatListingList(
		fmt.Sprintf("❤️ Saved classes (%d)", len(listings)),
		listings,
		"You haven't saved any classes yet. Tap ♡ on a class to save it.",
	)
	if missing > 0 {
		text += "\n\n" + italic(fmt.Sprintf("%d saved classes are no longer available.", missing))
	}
	return text
}

// ==================== Listing form ====================

func FormatStepPrompt(step listingform.Step, index, total int, current string) string {
	var sb strings.Builder
	sb.WriteString(italic(fmt.Sprintf("Step %d of %d", index+1, total)) + "\n")
	sb.WriteString(bold(step.Prompt) + "\n")
	if step.Optional {
		sb.WriteString(EscapeMarkdown("Optional, press Skip to leave it empty.") + "\n")
	}
	if current != "" {
		sb.WriteString(EscapeMarkdown("Current: "+TruncateString(current, 200)) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatFieldErrors lists validation messages in form order
func FormatFieldErrors(errs listingform.FieldErrors) string {
	var sb strings.Builder
	sb.WriteString(bold("Please fix the following:") + "\n")

	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		return listingform.StepIndex(fields[i]) < listingform.StepIndex(fields[j])
	})

	for _, f := range fields {
		sb.WriteString(EscapeMarkdown("• "+errs[f]) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatFormReview(f *listingform.Form, categories []jarrib.Category) string {
	var sb strings.Builder
	sb.WriteString(bold("📝 Review your listing") + "\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(bold(label+":") + " " + EscapeMarkdown(TruncateString(value, 200)) + "\n")
	}

	row("Title (AR)", f.Get(listingform.FieldTitleAr))
	row("Title (EN)", f.Get(listingform.FieldTitleEn))
	if c := f.Get(listingform.FieldCategory); c != "" {
		row("Category", CategoryName(categories, c))
	}
	row("Where", models.DisplayName(models.LocationTypeOptions, f.Get(listingform.FieldLocationType)))
	if a := f.Get(listingform.FieldArea); a != "" {
		row("Area", models.DisplayName(models.AreaOptions, a))
	}
	row("Schedule", models.DisplayName(models.ScheduleTypeOptions, f.Get(listingform.FieldScheduleType)))
	if len(f.Days) > 0 {
		row("Days", models.DaysLabel(f.Days))
	}
	if p := f.Get(listingform.FieldPrice); p != "" {
		row("Price", p+" "+models.DefaultCurrency+" · "+models.DisplayName(models.PriceTypeOptions, f.Get(listingform.FieldPriceType)))
	}
	row("Level", models.DisplayName(models.SkillLevelOptions, f.Get(listingform.FieldSkillLevel)))
	row("Provider", f.Get(listingform.FieldProviderName))
	row("WhatsApp", f.Get(listingform.FieldProviderWhatsApp))
	if len(f.Photos) > 0 {
		row("Photos", fmt.Sprintf("%d", len(f.Photos)))
	}

	sb.WriteString("\n" + EscapeMarkdown("Submit to send it for review."))
	return sb.String()
}

// ==================== Admin ====================

func FormatDashboard(d *jarrib.DashboardData, activeChats int) string {
	s := d.Stats
	var sb strings.Builder

	sb.WriteString(bold("🛠 Admin dashboard") + "\n\n")

	stat := func(label string, n int) {
		sb.WriteString(EscapeMarkdown(fmt.Sprintf("%s: %s", label, humanize.Comma(int64(n)))) + "\n")
	}
	stat("Listings", s.TotalListings)
	stat("Active", s.ActiveListings)
	stat("Pending review", s.PendingListings)
	stat("Rejected", s.RejectedListings)
	stat("Users", s.TotalUsers)
	stat("Categories", s.TotalCategories)
	stat("New listings this week", s.NewListingsThisWeek)
	stat("New users this week", s.NewUsersThisWeek)
	stat("Bot chats active this week", activeChats)

	if len(d.ListingsByCategory) > 0 {
		sb.WriteString("\n" + bold("By category") + "\n")
		for _, c := range d.ListingsByCategory {
			sb.WriteString(EscapeMarkdown(fmt.Sprintf("• %s: %d", models.DisplayName(nil, c.Category), c.Count)) + "\n")
		}
	}

	if len(d.RecentListings) > 0 {
		sb.WriteString("\n" + bold("Recent listings") + "\n")
		for _, l := range d.RecentListings {
			line := fmt.Sprintf("• %s · %s", l.Title(), models.DisplayName(models.ListingStatusOptions, l.Status))
			if !l.CreatedAt.IsZero() {
				line += " · " + humanize.Time(l.CreatedAt)
			}
			sb.WriteString(EscapeMarkdown(line) + "\n")
		}
	}

	if len(d.RecentUsers) > 0 {
		sb.WriteString("\n" + bold("Recent users") + "\n")
		for _, u := range d.RecentUsers {
			line := fmt.Sprintf("• %s (%s)", u.Name, u.Email)
			if !u.CreatedAt.IsZero() {
				line += " · joined " + humanize.Time(u.CreatedAt)
			}
			sb.WriteString(EscapeMarkdown(line) + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func statusIcon(status string) string {
	switch status {
	case admin.StatusPending:
		return "🕓"
	case admin.StatusApproved:
		return "✅"
	case admin.StatusRejected:
		return "⛔"
	}
	return "•"
}

func FormatAdminListings(resp *jarrib.ListingsResponse, q admin.ListingsQuery) string {
	var sb strings.Builder

	sb.WriteString(bold("📋 Listings") + "\n")
	header := fmt.Sprintf("Status: %s", models.DisplayName(models.ListingStatusOptions, q.Status))
	if q.Search != "" {
		header += fmt.Sprintf(" · Search: %q", q.Search)
	}
	header += fmt.Sprintf(" · %s total", humanize.Comma(int64(resp.Pagination.Total)))
	sb.WriteString(italic(header) + "\n\n")

	if len(resp.Listings) == 0 {
		sb.WriteString(EscapeMarkdown("No listings match."))
		return sb.String()
	}

	offset := (q.Page - 1) * admin.PageSize
	for i, l := range resp.Listings {
		line := fmt.Sprintf("%d. %s %s · %s · %s", offset+i+1, statusIcon(l.Status), l.Title(), l.Provider.Name, models.PriceLabel(&l))
		sb.WriteString(EscapeMarkdown(line) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatAdminListing(l *jarrib.Listing) string {
	var sb strings.Builder
	sb.WriteString(bold(l.Title()) + "\n")
	sb.WriteString(EscapeMarkdown(fmt.Sprintf("%s %s", statusIcon(l.Status), models.DisplayName(models.ListingStatusOptions, l.Status))) + "\n\n")

	sb.WriteString(EscapeMarkdown("Category: "+models.DisplayName(nil, l.Category)) + "\n")
	sb.WriteString(EscapeMarkdown("Provider: "+l.Provider.Name+" · "+l.Provider.WhatsApp) + "\n")
	sb.WriteString(EscapeMarkdown("Price: "+models.PriceLabel(l)) + "\n")
	if !l.CreatedAt.IsZero() {
		sb.WriteString(EscapeMarkdown("Submitted "+humanize.Time(l.CreatedAt)) + "\n")
	}
	if l.ApprovedAt != nil {
		sb.WriteString(EscapeMarkdown("Approved "+humanize.Time(*l.ApprovedAt)) + "\n")
	}
	if l.RejectionReason != "" {
		sb.WriteString(EscapeMarkdown("Rejection reason: "+l.RejectionReason) + "\n")
	}
	if l.DescriptionEn != "" {
		sb.WriteString("\n" + EscapeMarkdown(TruncateString(l.DescriptionEn, 400)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatAdminUsers(resp *jarrib.AdminUsersResponse, q admin.UsersQuery) string {
	var sb strings.Builder

	sb.WriteString(bold("👥 Users") + "\n")
	header := fmt.Sprintf("Role: %s", models.DisplayName(models.RoleOptions, q.Role))
	if q.Search != "" {
		header += fmt.Sprintf(" · Search: %q", q.Search)
	}
	header += fmt.Sprintf(" · %s total", humanize.Comma(int64(resp.Pagination.Total)))
	sb.WriteString(italic(header) + "\n\n")

	if len(resp.Users) == 0 {
		sb.WriteString(EscapeMarkdown("No users match."))
		return sb.String()
	}

	offset := (q.Page - 1) * admin.PageSize
	for i, u := range resp.Users {
		role := ""
		if u.IsAdmin() {
			role = " 🛡"
		}
		line := fmt.Sprintf("%d. %s%s · %s", offset+i+1, u.Name, role, u.Email)
		if !u.CreatedAt.IsZero() {
			line += " · " + humanize.Time(u.CreatedAt)
		}
		sb.WriteString(EscapeMarkdown(line) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatAdminUser(u *jarrib.User) string {
	lines := []string{
		bold(u.Name),
		EscapeMarkdown(u.Email),
		EscapeMarkdown("Role: " + models.DisplayName(models.RoleOptions, u.Role)),
		EscapeMarkdown(fmt.Sprintf("Saved classes: %d", len(u.SavedListings))),
	}
	if joined := FormatDate(u.CreatedAt); joined != "" {
		lines = append(lines, EscapeMarkdown("Joined "+joined))
	}
	return strings.Join(lines, "\n")
}

func FormatAdminCategories(categories []jarrib.Category) string {
	var sb strings.Builder
	sb.WriteString(bold("🗂 Categories") + "\n\n")

	if len(categories) == 0 {
		sb.WriteString(EscapeMarkdown("No categories yet. Add the first one."))
		return sb.String()
	}

	for i, c := range categories {
		line := fmt.Sprintf("%d. %s %s / %s (%s)", i+1, c.Icon, c.NameEn, c.NameAr, c.Slug)
		sb.WriteString(EscapeMarkdown(line) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatError renders a failed action inline
func FormatError(action string, err error) string {
	return EscapeMarkdown(fmt.Sprintf("⚠️ Could not %s: %s", action, ErrorText(err)))
}

// ErrorText is the user facing part of an API error
func ErrorText(err error) string {
	var apiErr *jarrib.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "please try again later"
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006")
}

// EscapeMarkdown escapes special characters for Telegram MarkdownV2
func EscapeMarkdown(text string) string {
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)

	return replacer.Replace(text)
}

// TruncateString cuts s to maxLen runes
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
