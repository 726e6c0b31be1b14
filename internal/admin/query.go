// Package admin holds the back office list state. Like the browse view,
// each admin list is driven by a raw query string stored per chat.
package admin

import (
	"net/url"
	"strconv"
	"strings"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/models"
)

const PageSize = 10

const (
	StatusAll      = "all"
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	RoleAll = "all"
)

const (
	paramStatus = "status"
	paramRole   = "role"
	paramSearch = "search"
	paramPage   = "page"
)

type ListingsQuery struct {
	Status string
	Search string
	Page   int
}

type UsersQuery struct {
	Role   string
	Search string
	Page   int
}

func parsePage(values url.Values) int {
	page, err := strconv.Atoi(values.Get(paramPage))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// encode keeps the pair order and appends page when it is past the first
func encode(pairs [][2]string, page int) string {
	var parts []string
	for _, p := range pairs {
		if p[1] != "" {
			parts = append(parts, p[0]+"="+url.QueryEscape(p[1]))
		}
	}
	if page > 1 {
		parts = append(parts, paramPage+"="+strconv.Itoa(page))
	}
	return strings.Join(parts, "&")
}

// ParseListings never fails. Unknown statuses fall back to all.
func ParseListings(raw string) ListingsQuery {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))

	q := ListingsQuery{
		Status: values.Get(paramStatus),
		Search: strings.TrimSpace(values.Get(paramSearch)),
		Page:   parsePage(values),
	}
	if q.Status == "" || !models.IsValidOption(models.ListingStatusOptions, q.Status) {
		q.Status = StatusAll
	}
	return q
}

// Encode omits status=all, an empty search and page=1
func (q ListingsQuery) Encode() string {
	status := q.Status
	if status == StatusAll {
		status = ""
	}
	return encode([][2]string{{paramStatus, status}, {paramSearch, q.Search}}, q.Page)
}

// WithStatus switches the status tab and goes back to the first page
func (q ListingsQuery) WithStatus(status string) ListingsQuery {
	if !models.IsValidOption(models.ListingStatusOptions, status) {
		status = StatusAll
	}
	if status != q.Status {
		q.Page = 1
	}
	q.Status = status
	return q
}

func (q ListingsQuery) WithSearch(search string) ListingsQuery {
	search = strings.TrimSpace(search)
	if search != q.Search {
		q.Page = 1
	}
	q.Search = search
	return q
}

func (q ListingsQuery) WithPage(page int) ListingsQuery {
	if page < 1 {
		page = 1
	}
	q.Page = page
	return q
}

// Params converts the query into the admin listings request
func (q ListingsQuery) Params() jarrib.AdminListingsParams {
	p := jarrib.AdminListingsParams{Search: q.Search, Page: q.Page, Limit: PageSize}
	if q.Status != StatusAll {
		p.Status = q.Status
	}
	return p
}

func ParseUsers(raw string) UsersQuery {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))

	q := UsersQuery{
		Role:   values.Get(paramRole),
		Search: strings.TrimSpace(values.Get(paramSearch)),
		Page:   parsePage(values),
	}
	if q.Role == "" || !models.IsValidOption(models.RoleOptions, q.Role) {
		q.Role = RoleAll
	}
	return q
}

func (q UsersQuery) Encode() string {
	role := q.Role
	if role == RoleAll {
		role = ""
	}
	return encode([][2]string{{paramRole, role}, {paramSearch, q.Search}}, q.Page)
}

func (q UsersQuery) WithRole(role string) UsersQuery {
	if !models.IsValidOption(models.RoleOptions, role) {
		role = RoleAll
	}
	if role != q.Role {
		q.Page = 1
	}
	q.Role = role
	return q
}

func (q UsersQuery) WithSearch(search string) UsersQuery {
	search = strings.TrimSpace(search)
	if search != q.Search {
		q.Page = 1
	}
	q.Search = search
	return q
}

func (q UsersQuery) WithPage(page int) UsersQuery {
	if page < 1 {
		page = 1
	}
	q.Page = page
	return q
}

func (q UsersQuery) Params() jarrib.AdminUsersParams {
	p := jarrib.AdminUsersParams{Search: q.Search, Page: q.Page, Limit: PageSize}
	if q.Role != RoleAll {
		p.Role = q.Role
	}
	return p
}

// ToggleRole is the role an admin switch moves a user to
func ToggleRole(current string) string {
	if current == jarrib.RoleAdmin {
		return jarrib.RoleUser
	}
	return jarrib.RoleAdmin
}
