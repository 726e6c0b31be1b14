package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jarrib-bot/internal/admin"
	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/bot/utils"
	"jarrib-bot/internal/listingform"
	"jarrib-bot/internal/models"
	"jarrib-bot/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	StateAdminListingSearch = "admin_listing_search"
	StateAdminUserSearch    = "admin_user_search"
	StateAdminRejectReason  = "admin_reject_reason"
	StateAdminListingPrice  = "admin_listing_price"
	StateCategoryNameEn     = "category_name_en"
	StateCategoryNameAr     = "category_name_ar"
)

const (
	tempRejectTarget  = "reject_target"
	tempPriceTarget   = "price_target"
	tempCategoryDraft = "category_draft"
)

const activeChatsWindow = 7 * 24 * time.Hour

// IsAdmin reports whether the sender's session belongs to an admin
func IsAdmin(ctx *Context) func(c tele.Context) bool {
	return func(c tele.Context) bool {
		sess, err := ctx.session(c)
		if err != nil {
			return false
		}
		return sess.IsAdmin()
	}
}

// adminSession returns the session whose client carries the admin token
func adminSession(ctx *Context, c tele.Context) (*session.Session, error) {
	sess, err := ctx.session(c)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() {
		return nil, errors.New("not an admin")
	}
	return sess, nil
}

// adminFailed shows an admin API failure inline. A rejected token signs
// the chat out.
func adminFailed(ctx *Context, c tele.Context, sess *session.Session, action string, err error) error {
	ctx.Logger.Error("admin request failed",
		zap.String("action", action),
		zap.Int64("user_id", c.Sender().ID),
		zap.Error(err),
	)

	if isUnauthorized(err) {
		reqCtx, cancel := withTimeout()
		defer cancel()
		if logoutErr := sess.Logout(reqCtx); logoutErr != nil {
			ctx.Logger.Warn("failed to sign out", zap.Error(logoutErr))
		}
		_ = respond(c, "")
		return c.Send("🔑 Your session expired. Sign in again with /login.", utils.MainMenuKeyboard(false))
	}

	_ = respond(c, "")
	return editOrSend(ctx, c, utils.FormatError(action, err), utils.AdminMenuKeyboard())
}

func invalidateCatalog(ctx *Context) {
	reqCtx, cancel := withTimeout()
	defer cancel()
	if err := ctx.Cache.InvalidateCatalog(reqCtx); err != nil {
		ctx.Logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}

// /admin
func HandleAdmin(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		if err := clearUserState(ctx, c.Sender().ID); err != nil {
			ctx.Logger.Warn("failed to clear user state", zap.Error(err))
		}
		return showDashboard(ctx, c)
	}
}

func showDashboard(ctx *Context, c tele.Context) error {
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	dashboard, err := sess.Client().Dashboard(reqCtx)
	if err != nil {
		return adminFailed(ctx, c, sess, "load the dashboard", err)
	}

	active, err := ctx.Store.CountActiveUsers(reqCtx, time.Now().Add(-activeChatsWindow))
	if err != nil {
		ctx.Logger.Warn("failed to count active chats", zap.Error(err))
	}

	_ = respond(c, "")
	return editOrSend(ctx, c, utils.FormatDashboard(dashboard, active), utils.AdminMenuKeyboard())
}

func handleAdminMenu(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}

	switch parts[1] {
	case "home":
		return showDashboard(ctx, c)
	case "listings":
		return showAdminListings(ctx, c)
	case "users":
		return showAdminUsers(ctx, c)
	case "cats":
		return showAdminCategories(ctx, c, "")
	}
	return respond(c, "❌ Invalid request")
}

// ==================== Listings ====================

func loadListingsQuery(ctx *Context, userID int64) admin.ListingsQuery {
	reqCtx, cancel := withTimeout()
	defer cancel()

	raw, err := ctx.Store.GetLocation(reqCtx, userID, models.ViewAdminListings)
	if err != nil {
		ctx.Logger.Warn("failed to restore admin listings location", zap.Error(err))
	}
	return admin.ParseListings(raw)
}

func saveListingsQuery(ctx *Context, userID int64, q admin.ListingsQuery) {
	reqCtx, cancel := withTimeout()
	defer cancel()

	if err := ctx.Store.SaveLocation(reqCtx, userID, models.ViewAdminListings, q.Encode()); err != nil {
		ctx.Logger.Warn("failed to persist admin listings location", zap.Error(err))
	}
}

func showAdminListings(ctx *Context, c tele.Context) error {
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}

	q := loadListingsQuery(ctx, c.Sender().ID)

	reqCtx, cancel := withTimeout()
	defer cancel()

	resp, err := sess.Client().AdminListings(reqCtx, q.Params())
	if err != nil {
		return adminFailed(ctx, c, sess, "load listings", err)
	}

	_ = respond(c, "")
	return editOrSend(ctx, c, utils.FormatAdminListings(resp, q), utils.AdminListingsKeyboard(resp, q))
}

func handleAdminStatus(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	q := loadListingsQuery(ctx, c.Sender().ID).WithStatus(parts[1])
	saveListingsQuery(ctx, c.Sender().ID, q)
	return showAdminListings(ctx, c)
}

func handleAdminListingsPage(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return respond(c, "❌ Invalid request")
	}
	q := loadListingsQuery(ctx, c.Sender().ID).WithPage(page)
	saveListingsQuery(ctx, c.Sender().ID, q)
	return showAdminListings(ctx, c)
}

func startAdminSearch(ctx *Context, c tele.Context, state, prompt string) error {
	if err := setUserState(ctx, c.Sender().ID, state); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
		return respond(c, "😔 Something went wrong")
	}
	_ = respond(c, "")
	return c.Send("🔍 "+prompt+" Send - to clear the search.", utils.CancelKeyboard())
}

func searchText(c tele.Context) string {
	text := strings.TrimSpace(c.Text())
	if text == "-" {
		return ""
	}
	return text
}

func handleAdminListingSearchInput(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID
	_ = clearUserState(ctx, userID)

	q := loadListingsQuery(ctx, userID).WithSearch(searchText(c))
	saveListingsQuery(ctx, userID, q)

	if err := c.Send("✅ Search updated", utils.MainMenuKeyboard(true)); err != nil {
		return err
	}
	return showAdminListings(ctx, c)
}

func showAdminListing(ctx *Context, c tele.Context, l *jarrib.Listing) error {
	_ = respond(c, "")
	return editOrSend(ctx, c, utils.FormatAdminListing(l), utils.AdminListingKeyboard(l))
}

func handleAdminOpenListing(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	l, err := sess.Client().AdminListing(reqCtx, parts[1])
	if err != nil {
		return adminFailed(ctx, c, sess, "load the listing", err)
	}
	return showAdminListing(ctx, c, l)
}

func handleApproveListing(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	l, err := sess.Client().ApproveListing(reqCtx, parts[1])
	if err != nil {
		return adminFailed(ctx, c, sess, "approve the listing", err)
	}
	invalidateCatalog(ctx)

	ctx.Logger.Info("listing approved", zap.String("listing_id", l.ID), zap.Int64("user_id", c.Sender().ID))
	_ = respond(c, "✅ Approved")
	return showAdminListing(ctx, c, l)
}

func handleRejectListing(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	userID := c.Sender().ID

	if err := setTempData(ctx, userID, tempRejectTarget, parts[1]); err != nil {
		ctx.Logger.Error("failed to store reject target", zap.Error(err))
		return respond(c, "😔 Something went wrong")
	}
	if err := setUserState(ctx, userID, StateAdminRejectReason); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "")
	return c.Send("⛔ Why is this listing rejected? The provider sees the reason.", utils.CancelKeyboard())
}

func handleRejectReasonInput(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID
	reason := strings.TrimSpace(c.Text())
	if reason == "" {
		return c.Send("❌ The reason can't be empty.", utils.CancelKeyboard())
	}

	var listingID string
	ok, err := getTempData(ctx, userID, tempRejectTarget, &listingID)
	_ = clearUserState(ctx, userID)
	clearTempData(ctx, userID, tempRejectTarget)
	if err != nil || !ok {
		return c.Send("⌛ That took too long. Open the listing and reject it again.", utils.MainMenuKeyboard(true))
	}

	sess, err := adminSession(ctx, c)
	if err != nil {
		return c.Send("⛔ Admins only")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	l, err := sess.Client().RejectListing(reqCtx, listingID, reason)
	if err != nil {
		return adminFailed(ctx, c, sess, "reject the listing", err)
	}
	invalidateCatalog(ctx)

	ctx.Logger.Info("listing rejected", zap.String("listing_id", l.ID), zap.Int64("user_id", userID))
	if err := c.Send("⛔ Listing rejected", utils.MainMenuKeyboard(true)); err != nil {
		return err
	}
	return showAdminListing(ctx, c, l)
}

func handleEditPrice(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	userID := c.Sender().ID

	if err := setTempData(ctx, userID, tempPriceTarget, parts[1]); err != nil {
		ctx.Logger.Error("failed to store price target", zap.Error(err))
		return respond(c, "😔 Something went wrong")
	}
	if err := setUserState(ctx, userID, StateAdminListingPrice); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "")
	return c.Send("💰 Send the corrected price in KD, 0 for free.", utils.CancelKeyboard())
}

func handleListingPriceInput(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID
	price, ok := listingform.ParsePrice(c.Text())
	if !ok {
		return c.Send("❌ Price must be a number, e.g. 25", utils.CancelKeyboard())
	}

	var listingID string
	ok, err := getTempData(ctx, userID, tempPriceTarget, &listingID)
	_ = clearUserState(ctx, userID)
	clearTempData(ctx, userID, tempPriceTarget)
	if err != nil || !ok {
		return c.Send("⌛ That took too long. Open the listing and try again.", utils.MainMenuKeyboard(true))
	}

	sess, err := adminSession(ctx, c)
	if err != nil {
		return c.Send("⛔ Admins only")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	l, err := sess.Client().AdminUpdateListing(reqCtx, listingID, map[string]interface{}{"price": price})
	if err != nil {
		return adminFailed(ctx, c, sess, "update the price", err)
	}
	invalidateCatalog(ctx)

	ctx.Logger.Info("listing price corrected",
		zap.String("listing_id", l.ID),
		zap.Float64("price", price),
		zap.Int64("user_id", userID),
	)
	if err := c.Send("✅ Price updated", utils.MainMenuKeyboard(true)); err != nil {
		return err
	}
	return showAdminListing(ctx, c, l)
}

func handleDeleteListing(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	_ = respond(c, "")
	return editOrSend(ctx, c,
		utils.EscapeMarkdown("🗑 Delete this listing? This can't be undone."),
		utils.ConfirmDeleteKeyboard("adc:"+parts[1], "al:"+parts[1]),
	)
}

func handleConfirmDeleteListing(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	if err := sess.Client().AdminDeleteListing(reqCtx, parts[1]); err != nil {
		return adminFailed(ctx, c, sess, "delete the listing", err)
	}
	invalidateCatalog(ctx)

	ctx.Logger.Info("listing deleted", zap.String("listing_id", parts[1]), zap.Int64("user_id", c.Sender().ID))
	_ = respond(c, "🗑 Deleted")
	return showAdminListings(ctx, c)
}

// ==================== Users ====================

func loadUsersQuery(ctx *Context, userID int64) admin.UsersQuery {
	reqCtx, cancel := withTimeout()
	defer cancel()

	raw, err := ctx.Store.GetLocation(reqCtx, userID, models.ViewAdminUsers)
	if err != nil {
		ctx.Logger.Warn("failed to restore admin users location", zap.Error(err))
	}
	return admin.ParseUsers(raw)
}

func saveUsersQuery(ctx *Context, userID int64, q admin.UsersQuery) {
	reqCtx, cancel := withTimeout()
	defer cancel()

	if err := ctx.Store.SaveLocation(reqCtx, userID, models.ViewAdminUsers, q.Encode()); err != nil {
		ctx.Logger.Warn("failed to persist admin users location", zap.Error(err))
	}
}

func showAdminUsers(ctx *Context, c tele.Context) error {
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}

	q := loadUsersQuery(ctx, c.Sender().ID)

	reqCtx, cancel := withTimeout()
	defer cancel()

	resp, err := sess.Client().AdminUsers(reqCtx, q.Params())
	if err != nil {
		return adminFailed(ctx, c, sess, "load users", err)
	}

	_ = respond(c, "")
	return editOrSend(ctx, c, utils.FormatAdminUsers(resp, q), utils.AdminUsersKeyboard(resp, q))
}

func handleAdminRole(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	q := loadUsersQuery(ctx, c.Sender().ID).WithRole(parts[1])
	saveUsersQuery(ctx, c.Sender().ID, q)
	return showAdminUsers(ctx, c)
}

func handleAdminUsersPage(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return respond(c, "❌ Invalid request")
	}
	q := loadUsersQuery(ctx, c.Sender().ID).WithPage(page)
	saveUsersQuery(ctx, c.Sender().ID, q)
	return showAdminUsers(ctx, c)
}

func handleAdminUserSearchInput(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID
	_ = clearUserState(ctx, userID)

	q := loadUsersQuery(ctx, userID).WithSearch(searchText(c))
	saveUsersQuery(ctx, userID, q)

	if err := c.Send("✅ Search updated", utils.MainMenuKeyboard(true)); err != nil {
		return err
	}
	return showAdminUsers(ctx, c)
}

func handleAdminOpenUser(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	u, err := sess.Client().AdminUser(reqCtx, parts[1])
	if err != nil {
		return adminFailed(ctx, c, sess, "load the user", err)
	}

	_ = respond(c, "")
	return editOrSend(ctx, c, utils.FormatAdminUser(u), utils.AdminUserKeyboard(u))
}

func handleToggleRole(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}
	if self := sess.User(); self != nil && self.ID == parts[1] {
		return respond(c, "You can't change your own role")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	current, err := sess.Client().AdminUser(reqCtx, parts[1])
	if err != nil {
		return adminFailed(ctx, c, sess, "load the user", err)
	}

	role := admin.ToggleRole(current.Role)
	u, err := sess.Client().AdminUpdateUser(reqCtx, parts[1], map[string]interface{}{"role": role})
	if err != nil {
		return adminFailed(ctx, c, sess, "change the role", err)
	}

	ctx.Logger.Info("user role changed",
		zap.String("target_user_id", u.ID),
		zap.String("role", role),
		zap.Int64("user_id", c.Sender().ID),
	)
	_ = respond(c, "Role: "+models.DisplayName(models.RoleOptions, role))
	return editOrSend(ctx, c, utils.FormatAdminUser(u), utils.AdminUserKeyboard(u))
}

func handleDeleteUser(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	_ = respond(c, "")
	return editOrSend(ctx, c,
		utils.EscapeMarkdown("🗑 Delete this user and their saved classes? This can't be undone."),
		utils.ConfirmDeleteKeyboard("udc:"+parts[1], "uo:"+parts[1]),
	)
}

func handleConfirmDeleteUser(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}
	if self := sess.User(); self != nil && self.ID == parts[1] {
		return respond(c, "You can't delete yourself")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	if err := sess.Client().AdminDeleteUser(reqCtx, parts[1]); err != nil {
		return adminFailed(ctx, c, sess, "delete the user", err)
	}

	ctx.Logger.Info("user deleted", zap.String("target_user_id", parts[1]), zap.Int64("user_id", c.Sender().ID))
	_ = respond(c, "🗑 Deleted")
	return showAdminUsers(ctx, c)
}

// ==================== Categories ====================

// categoryDraft is the create or rename conversation, an empty ID creates
type categoryDraft struct {
	ID     string `json:"id"`
	NameEn string `json:"name_en"`
}

func showAdminCategories(ctx *Context, c tele.Context, notice string) error {
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	categories, err := sess.Client().AdminCategories(reqCtx)
	if err != nil {
		return adminFailed(ctx, c, sess, "load categories", err)
	}
	jarrib.SortCategories(categories)

	text := utils.FormatAdminCategories(categories)
	if notice != "" {
		text = utils.EscapeMarkdown(notice) + "\n\n" + text
	}

	_ = respond(c, "")
	return editOrSend(ctx, c, text, utils.AdminCategoriesKeyboard(categories))
}

func findAdminCategory(sess *session.Session, id string) (*jarrib.Category, error) {
	reqCtx, cancel := withTimeout()
	defer cancel()

	categories, err := sess.Client().AdminCategories(reqCtx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, jarrib.ErrNotFound
}

func handleAdminOpenCategory(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}

	category, err := findAdminCategory(sess, parts[1])
	if err != nil {
		return adminFailed(ctx, c, sess, "load the category", err)
	}

	text := fmt.Sprintf("%s\n%s\n%s",
		utils.EscapeMarkdown(strings.TrimSpace(category.Icon+" "+category.NameEn)),
		utils.EscapeMarkdown(category.NameAr),
		utils.EscapeMarkdown("Slug: "+category.Slug),
	)
	if len(category.Subcategories) > 0 {
		text += "\n" + utils.EscapeMarkdown("Subcategories: "+strings.Join(category.Subcategories, ", "))
	}

	_ = respond(c, "")
	return editOrSend(ctx, c, text, utils.AdminCategoryKeyboard(category))
}

func startCategoryDraft(ctx *Context, c tele.Context, draft categoryDraft) error {
	userID := c.Sender().ID
	if err := setTempData(ctx, userID, tempCategoryDraft, draft); err != nil {
		ctx.Logger.Error("failed to store category draft", zap.Error(err))
		return respond(c, "😔 Something went wrong")
	}
	if err := setUserState(ctx, userID, StateCategoryNameEn); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "")
	return c.Send("🗂 Send the English name of the category", utils.CancelKeyboard())
}

func handleNewCategory(ctx *Context, c tele.Context) error {
	return startCategoryDraft(ctx, c, categoryDraft{})
}

func handleEditCategory(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	return startCategoryDraft(ctx, c, categoryDraft{ID: parts[1]})
}

func handleCategoryNameEn(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return c.Send("❌ The name can't be empty.", utils.CancelKeyboard())
	}

	var draft categoryDraft
	if ok, err := getTempData(ctx, userID, tempCategoryDraft, &draft); err != nil || !ok {
		_ = clearUserState(ctx, userID)
		return c.Send("⌛ That took too long. Start again from the categories list.", utils.MainMenuKeyboard(true))
	}

	draft.NameEn = name
	if err := setTempData(ctx, userID, tempCategoryDraft, draft); err != nil {
		ctx.Logger.Error("failed to store category draft", zap.Error(err))
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	if err := setUserState(ctx, userID, StateCategoryNameAr); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}
	return c.Send("🗂 Now the Arabic name", utils.CancelKeyboard())
}

func handleCategoryNameAr(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID
	nameAr := strings.TrimSpace(c.Text())
	if nameAr == "" {
		return c.Send("❌ The name can't be empty.", utils.CancelKeyboard())
	}

	var draft categoryDraft
	ok, err := getTempData(ctx, userID, tempCategoryDraft, &draft)
	_ = clearUserState(ctx, userID)
	clearTempData(ctx, userID, tempCategoryDraft)
	if err != nil || !ok {
		return c.Send("⌛ That took too long. Start again from the categories list.", utils.MainMenuKeyboard(true))
	}

	sess, err := adminSession(ctx, c)
	if err != nil {
		return c.Send("⛔ Admins only")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	notice := ""
	if draft.ID == "" {
		created, err := sess.Client().CreateCategory(reqCtx, jarrib.Category{
			Slug:   jarrib.Slugify(draft.NameEn),
			NameEn: draft.NameEn,
			NameAr: nameAr,
		})
		if err != nil {
			return adminFailed(ctx, c, sess, "create the category", err)
		}
		notice = "✅ Created " + created.NameEn
	} else {
		existing, err := findAdminCategory(sess, draft.ID)
		if err != nil {
			return adminFailed(ctx, c, sess, "load the category", err)
		}
		existing.NameEn = draft.NameEn
		existing.NameAr = nameAr
		existing.Slug = jarrib.Slugify(draft.NameEn)

		updated, err := sess.Client().UpdateCategory(reqCtx, draft.ID, *existing)
		if err != nil {
			return adminFailed(ctx, c, sess, "rename the category", err)
		}
		notice = "✅ Renamed to " + updated.NameEn
	}
	invalidateCatalog(ctx)

	if err := c.Send(notice, utils.MainMenuKeyboard(true)); err != nil {
		return err
	}
	return showAdminCategories(ctx, c, "")
}

func handleDeleteCategory(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	_ = respond(c, "")
	return editOrSend(ctx, c,
		utils.EscapeMarkdown("🗑 Delete this category? Listings keep their category slug."),
		utils.ConfirmDeleteKeyboard("cdc:"+parts[1], "co:"+parts[1]),
	)
}

func handleConfirmDeleteCategory(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	sess, err := adminSession(ctx, c)
	if err != nil {
		return respond(c, "⛔ Admins only")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	if err := sess.Client().DeleteCategory(reqCtx, parts[1]); err != nil {
		return adminFailed(ctx, c, sess, "delete the category", err)
	}
	invalidateCatalog(ctx)

	ctx.Logger.Info("category deleted", zap.String("category_id", parts[1]), zap.Int64("user_id", c.Sender().ID))
	return showAdminCategories(ctx, c, "🗑 Category deleted")
}
