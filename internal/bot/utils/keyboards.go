package utils

import (
	"fmt"
	"strconv"
	"strings"

	"jarrib-bot/internal/admin"
	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/browse"
	"jarrib-bot/internal/listingform"
	"jarrib-bot/internal/models"

	tele "gopkg.in/telebot.v3"
)

// Reply keyboard labels, matched by the text router
const (
	BtnBrowse     = "🔎 Browse"
	BtnCategories = "🗂 Categories"
	BtnSaved      = "❤️ Saved"
	BtnAddListing = "➕ List a class"
	BtnAccount    = "👤 Account"
	BtnHelp       = "❓ Help"
	BtnAdmin      = "🛠 Admin"

	BtnCancel = "❌ Cancel"
	BtnSkip   = "⏭ Skip"
	BtnDone   = "✅ Done"
	BtnSubmit = "✅ Submit"
	BtnEdit   = "✏️ Edit"
	BtnBack   = "◀️ Back"
)

// callback data limit enforced by Telegram
const maxCallbackLength = 64

// cb joins callback parts, the router splits them on ":"
func cb(parts ...string) string {
	return strings.Join(parts, ":")
}

func fits(data string) bool {
	// telebot prepends \f to the unique
	return len(data)+1 <= maxCallbackLength
}

func MainMenuKeyboard(isAdmin bool) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	rows := []tele.Row{
		menu.Row(menu.Text(BtnBrowse), menu.Text(BtnCategories)),
		menu.Row(menu.Text(BtnSaved), menu.Text(BtnAddListing)),
		menu.Row(menu.Text(BtnAccount), menu.Text(BtnHelp)),
	}
	if isAdmin {
		rows = append(rows, menu.Row(menu.Text(BtnAdmin)))
	}

	menu.Reply(rows...)
	return menu
}

func CancelKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(BtnCancel)))
	return menu
}

func checked(on bool, label string) string {
	if on {
		return "✓ " + label
	}
	return label
}

// paginationRow renders prev, position and next, data builds the callback for a page
func paginationRow(menu *tele.ReplyMarkup, page, pages int, data func(page int) string) tele.Row {
	if pages <= 1 {
		return nil
	}

	var buttons []tele.Btn
	if page > 1 {
		buttons = append(buttons, menu.Data("⬅️", data(page-1)))
	}
	buttons = append(buttons, menu.Data(fmt.Sprintf("%d/%d", page, pages), "noop"))
	if page < pages {
		buttons = append(buttons, menu.Data("➡️", data(page+1)))
	}
	return menu.Row(buttons...)
}

func listingRows(menu *tele.ReplyMarkup, listings []jarrib.Listing, offset int) []tele.Row {
	rows := make([]tele.Row, 0, len(listings))
	for i, l := range listings {
		label := fmt.Sprintf("%d. %s", offset+i+1, TruncateString(l.Title(), 40))
		rows = append(rows, menu.Row(menu.Data(label, cb("lst", l.ID))))
	}
	return rows
}

// ==================== Browse ====================

// ResultsKeyboard lists the cards with a save toggle each, then the
// commitment pills, sort, filters and pagination
func ResultsKeyboard(res *browse.Result, isSaved func(id string) bool) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row

	offset := (res.Pagination.Page - 1) * browse.BrowsePageSize
	if offset < 0 {
		offset = 0
	}
	for i, s := range res.Summaries {
		heart := "♡"
		if isSaved(s.ID) {
			heart = "♥"
		}
		rows = append(rows, menu.Row(
			menu.Data(fmt.Sprintf("%d. %s", offset+i+1, TruncateString(s.Title, 36)), cb("lst", s.ID)),
			menu.Data(heart, cb("sv", s.ID)),
		))
	}

	current := res.Query.Filters.Get(browse.FilterCommitmentType)
	var pills []tele.Btn
	for _, o := range models.QuickCommitmentOptions {
		pills = append(pills, menu.Data(checked(current == o.Value, o.Label), cb("cm", o.Value)))
	}
	rows = append(rows, menu.Row(pills[:3]...), menu.Row(pills[3:]...))

	sort := res.Query.Sort
	if sort == "" {
		sort = browse.SortNewest
	}
	var sorts []tele.Btn
	for _, o := range models.SortOptions {
		label := strings.TrimPrefix(o.Label, "Price: ")
		sorts = append(sorts, menu.Data(checked(sort == o.Value, label), cb("so", o.Value)))
	}
	rows = append(rows, menu.Row(sorts...))

	filters := "⚙️ Filters"
	if n := res.Query.Filters.Active(); n > 0 {
		filters += fmt.Sprintf(" (%d)", n)
	}
	rows = append(rows, menu.Row(menu.Data(filters, cb("fp", "open"))))

	if row := paginationRow(menu, res.Pagination.Page, res.Pagination.Pages, func(p int) string {
		return cb("pg", strconv.Itoa(p))
	}); row != nil {
		rows = append(rows, row)
	}

	menu.Inline(rows...)
	return menu
}

// FilterPanelKeyboard renders the collapsible filter sections
func FilterPanelKeyboard(q browse.QueryState, expanded func(section string) bool, categories []jarrib.Category) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row

	header := func(section, title string) {
		arrow := "▸"
		if expanded(section) {
			arrow = "▾"
		}
		rows = append(rows, menu.Row(menu.Data(arrow+" "+title, cb("fx", section))))
	}

	multi := func(key browse.FilterKey, options []models.Option, perRow int) {
		var buttons []tele.Btn
		for _, o := range options {
			buttons = append(buttons, menu.Data(checked(q.Filters.Has(key, o.Value), o.Label), cb("fm", string(key), o.Value)))
		}
		rows = append(rows, chunk(menu, buttons, perRow)...)
	}

	header(browse.SectionCategory, "Category")
	if expanded(browse.SectionCategory) {
		var buttons []tele.Btn
		selected := q.Filters.Get(browse.FilterCategory)
		for _, c := range categories {
			data := cb("fs", string(browse.FilterCategory), c.Slug)
			if !fits(data) {
				continue
			}
			buttons = append(buttons, menu.Data(checked(selected == c.Slug, strings.TrimSpace(c.Icon+" "+c.NameEn)), data))
		}
		rows = append(rows, chunk(menu, buttons, 2)...)
	}

	header(browse.SectionArea, "Area")
	if expanded(browse.SectionArea) {
		multi(browse.FilterArea, models.AreaOptions, 2)
	}

	header(browse.SectionPrice, "Price (KD)")
	if expanded(browse.SectionPrice) {
		min, max := q.Filters.Get(browse.FilterMinPrice), q.Filters.Get(browse.FilterMaxPrice)
		if min == "" {
			min = "any"
		}
		if max == "" {
			max = "any"
		}
		rows = append(rows, menu.Row(
			menu.Data("Min: "+min, cb("fi", string(browse.FilterMinPrice))),
			menu.Data("Max: "+max, cb("fi", string(browse.FilterMaxPrice))),
		))
	}

	header(browse.SectionDays, "Days")
	if expanded(browse.SectionDays) {
		multi(browse.FilterDays, models.DayOptions, 3)
	}

	header(browse.SectionSkill, "Skill level")
	if expanded(browse.SectionSkill) {
		multi(browse.FilterSkillLevel, models.SkillLevelOptions, 2)
	}

	header(browse.SectionCommitment, "Commitment")
	if expanded(browse.SectionCommitment) {
		multi(browse.FilterCommitmentType, models.CommitmentOptions, 2)
	}

	clear := "🗑 Clear all"
	if n := q.Filters.Active(); n > 0 {
		clear += fmt.Sprintf(" (%d)", n)
	}
	rows = append(rows, menu.Row(menu.Data(clear, "fc"), menu.Data("🔎 Show results", "fr")))

	menu.Inline(rows...)
	return menu
}

func chunk(menu *tele.ReplyMarkup, buttons []tele.Btn, size int) []tele.Row {
	var rows []tele.Row
	for i := 0; i < len(buttons); i += size {
		end := i + size
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, menu.Row(buttons[i:end]...))
	}
	return rows
}

// ListingKeyboard is attached to a listing detail message
func ListingKeyboard(d *jarrib.ListingDetail, saved bool, whatsAppURL string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	l := &d.Listing

	save := "♡ Save"
	if saved {
		save = "♥ Saved"
	}

	var rows []tele.Row
	if whatsAppURL != "" {
		rows = append(rows, menu.Row(menu.URL("💬 Contact on WhatsApp", whatsAppURL)))
	}
	rows = append(rows, menu.Row(
		menu.Data(save, cb("svd", l.ID)),
		menu.Data("👤 Provider", cb("pv", l.ID)),
	))
	rows = append(rows, listingRows(menu, d.Related, 0)...)
	rows = append(rows, menu.Row(menu.Data("◀️ Back to results", "fr")))

	menu.Inline(rows...)
	return menu
}

func ListingLinksKeyboard(listings []jarrib.Listing) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(listingRows(menu, listings, 0)...)
	return menu
}

// ProviderKeyboard links the provider's WhatsApp and their classes
func ProviderKeyboard(p *jarrib.ProviderResponse, whatsAppURL string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var rows []tele.Row
	if whatsAppURL != "" {
		rows = append(rows, menu.Row(menu.URL("💬 Message "+TruncateString(p.Provider.Name, 30), whatsAppURL)))
	}
	rows = append(rows, listingRows(menu, p.Listings, 0)...)

	menu.Inline(rows...)
	return menu
}

func CategoriesKeyboard(categories []jarrib.Category) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var buttons []tele.Btn
	for _, c := range categories {
		data := cb("cat", c.Slug, "1")
		if !fits(data) {
			continue
		}
		buttons = append(buttons, menu.Data(strings.TrimSpace(c.Icon+" "+c.NameEn), data))
	}

	menu.Inline(chunk(menu, buttons, 2)...)
	return menu
}

// CategoryKeyboard lists a category page with its subcategory chips
func CategoryKeyboard(resp *jarrib.CategoryResponse, subcategory string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	slug := resp.Category.Slug

	var rows []tele.Row

	if len(resp.Category.Subcategories) > 0 {
		chips := []tele.Btn{menu.Data(checked(subcategory == "", "All"), cb("cat", slug, "1"))}
		for _, sub := range resp.Category.Subcategories {
			data := cb("cat", slug, "1", sub)
			if !fits(data) || strings.Contains(sub, ":") {
				continue
			}
			chips = append(chips, menu.Data(checked(subcategory == sub, sub), data))
		}
		rows = append(rows, chunk(menu, chips, 3)...)
	}

	offset := (resp.Pagination.Page - 1) * resp.Pagination.Limit
	if offset < 0 {
		offset = 0
	}
	rows = append(rows, listingRows(menu, resp.Listings, offset)...)

	if row := paginationRow(menu, resp.Pagination.Page, resp.Pagination.Pages, func(p int) string {
		if subcategory != "" {
			return cb("cat", slug, strconv.Itoa(p), subcategory)
		}
		return cb("cat", slug, strconv.Itoa(p))
	}); row != nil {
		rows = append(rows, row)
	}

	rows = append(rows, menu.Row(menu.Data("🔎 Browse with filters", cb("cb", slug))))

	menu.Inline(rows...)
	return menu
}

func AccountKeyboard(authenticated bool) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	if authenticated {
		menu.Inline(menu.Row(menu.Data("🚪 Log out", cb("acc", "logout"))))
		return menu
	}
	menu.Inline(menu.Row(
		menu.Data("🔑 Log in", cb("acc", "login")),
		menu.Data("📝 Register", cb("acc", "register")),
	))
	return menu
}

// ==================== Listing form ====================

// StepKeyboard offers the choices of a form step plus Skip and Cancel.
// Category choices come from the caller.
func StepKeyboard(step listingform.Step, choices []models.Option, form *listingform.Form) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	var rows []tele.Row

	var buttons []tele.Btn
	for _, o := range choices {
		label := o.Label
		if step.Field == listingform.FieldDays {
			label = checked(containsString(form.Days, o.Value), o.Label)
		}
		buttons = append(buttons, menu.Text(label))
	}
	rows = append(rows, chunk(menu, buttons, 2)...)

	var controls []tele.Btn
	if step.Field == listingform.FieldDays || step.Field == listingform.FieldPhotos {
		controls = append(controls, menu.Text(BtnDone))
	} else if step.Optional {
		controls = append(controls, menu.Text(BtnSkip))
	}
	controls = append(controls, menu.Text(BtnCancel))
	rows = append(rows, menu.Row(controls...))

	menu.Reply(rows...)
	return menu
}

func ReviewKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(BtnSubmit)),
		menu.Row(menu.Text(BtnEdit), menu.Text(BtnCancel)),
	)
	return menu
}

// OptionForLabel maps a pressed reply button back to its option value
func OptionForLabel(options []models.Option, text string) (string, bool) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "✓ ")
	for _, o := range options {
		if o.Label == text || o.Value == text {
			return o.Value, true
		}
	}
	return "", false
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// ==================== Admin ====================

func AdminMenuKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(menu.Data("📋 Listings", cb("adm", "listings")), menu.Data("👥 Users", cb("adm", "users"))),
		menu.Row(menu.Data("🗂 Categories", cb("adm", "cats")), menu.Data("🔄 Refresh", cb("adm", "home"))),
	)
	return menu
}

func AdminListingsKeyboard(resp *jarrib.ListingsResponse, q admin.ListingsQuery) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row

	var tabs []tele.Btn
	for _, o := range models.ListingStatusOptions {
		tabs = append(tabs, menu.Data(checked(q.Status == o.Value, o.Label), cb("as", o.Value)))
	}
	rows = append(rows, menu.Row(tabs...))

	offset := (q.Page - 1) * admin.PageSize
	for i, l := range resp.Listings {
		label := fmt.Sprintf("%d. %s %s", offset+i+1, statusIcon(l.Status), TruncateString(l.Title(), 36))
		rows = append(rows, menu.Row(menu.Data(label, cb("al", l.ID))))
	}

	if row := paginationRow(menu, q.Page, resp.Pagination.Pages, func(p int) string {
		return cb("ap", strconv.Itoa(p))
	}); row != nil {
		rows = append(rows, row)
	}

	search := "🔍 Search"
	if q.Search != "" {
		search = "🔍 " + TruncateString(q.Search, 20)
	}
	rows = append(rows, menu.Row(menu.Data(search, "asq"), menu.Data(BtnBack, cb("adm", "home"))))

	menu.Inline(rows...)
	return menu
}

func AdminListingKeyboard(l *jarrib.Listing) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row

	var moderation []tele.Btn
	if l.Status != admin.StatusApproved {
		moderation = append(moderation, menu.Data("✅ Approve", cb("aa", l.ID)))
	}
	if l.Status != admin.StatusRejected {
		moderation = append(moderation, menu.Data("⛔ Reject", cb("ar", l.ID)))
	}
	if len(moderation) > 0 {
		rows = append(rows, menu.Row(moderation...))
	}

	rows = append(rows,
		menu.Row(menu.Data("👁 View", cb("lst", l.ID)), menu.Data("💰 Price", cb("ae", l.ID))),
		menu.Row(menu.Data("🗑 Delete", cb("ad", l.ID))),
		menu.Row(menu.Data(BtnBack, cb("adm", "listings"))),
	)

	menu.Inline(rows...)
	return menu
}

// ConfirmDeleteKeyboard asks before a destructive admin action
func ConfirmDeleteKeyboard(confirm, cancel string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(
		menu.Data("🗑 Yes, delete", confirm),
		menu.Data("Cancel", cancel),
	))
	return menu
}

func AdminUsersKeyboard(resp *jarrib.AdminUsersResponse, q admin.UsersQuery) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row

	var tabs []tele.Btn
	for _, o := range models.RoleOptions {
		tabs = append(tabs, menu.Data(checked(q.Role == o.Value, o.Label), cb("us", o.Value)))
	}
	rows = append(rows, menu.Row(tabs...))

	offset := (q.Page - 1) * admin.PageSize
	for i, u := range resp.Users {
		label := fmt.Sprintf("%d. %s", offset+i+1, TruncateString(u.Name, 40))
		rows = append(rows, menu.Row(menu.Data(label, cb("uo", u.ID))))
	}

	if row := paginationRow(menu, q.Page, resp.Pagination.Pages, func(p int) string {
		return cb("up", strconv.Itoa(p))
	}); row != nil {
		rows = append(rows, row)
	}

	search := "🔍 Search"
	if q.Search != "" {
		search = "🔍 " + TruncateString(q.Search, 20)
	}
	rows = append(rows, menu.Row(menu.Data(search, "usq"), menu.Data(BtnBack, cb("adm", "home"))))

	menu.Inline(rows...)
	return menu
}

func AdminUserKeyboard(u *jarrib.User) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	toggle := "🛡 Make admin"
	if u.IsAdmin() {
		toggle = "👤 Make user"
	}

	menu.Inline(
		menu.Row(menu.Data(toggle, cb("ut", u.ID)), menu.Data("🗑 Delete", cb("ud", u.ID))),
		menu.Row(menu.Data(BtnBack, cb("adm", "users"))),
	)
	return menu
}

func AdminCategoriesKeyboard(categories []jarrib.Category) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var buttons []tele.Btn
	for _, c := range categories {
		buttons = append(buttons, menu.Data(strings.TrimSpace(c.Icon+" "+c.NameEn), cb("co", c.ID)))
	}
	rows := chunk(menu, buttons, 2)
	rows = append(rows, menu.Row(menu.Data("➕ New category", "cn"), menu.Data(BtnBack, cb("adm", "home"))))

	menu.Inline(rows...)
	return menu
}

func AdminCategoryKeyboard(c *jarrib.Category) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(menu.Data("✏️ Rename", cb("ce", c.ID)), menu.Data("🗑 Delete", cb("cd", c.ID))),
		menu.Row(menu.Data(BtnBack, cb("adm", "cats"))),
	)
	return menu
}
