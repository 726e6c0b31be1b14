package jarrib

import "time"

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e ErrorResponse) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

type Provider struct {
	Name      string `json:"name"`
	NameAr    string `json:"name_ar,omitempty"`
	Bio       string `json:"bio"`
	WhatsApp  string `json:"whatsapp"`
	Phone     string `json:"phone,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Website   string `json:"website,omitempty"`
	Email     string `json:"email,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

// Duration is the total length of a program, unit is hours, days, weeks or months
type Duration struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type Listing struct {
	ID              string     `json:"_id"`
	TitleAr         string     `json:"title_ar"`
	TitleEn         string     `json:"title_en,omitempty"`
	Category        string     `json:"category"`
	Subcategory     string     `json:"subcategory,omitempty"`
	DescriptionEn   string     `json:"description_en"`
	DescriptionAr   string     `json:"description_ar"`
	Provider        Provider   `json:"provider"`
	LocationType    string     `json:"location_type"`
	Area            string     `json:"area,omitempty"`
	Address         string     `json:"address,omitempty"`
	ScheduleType    string     `json:"schedule_type"`
	Days            []string   `json:"days,omitempty"`
	TimeStart       string     `json:"time_start,omitempty"`
	TimeEnd         string     `json:"time_end,omitempty"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`
	CommitmentType  string     `json:"commitment_type,omitempty"`
	TotalDuration   *Duration  `json:"total_duration,omitempty"`
	TotalSessions   int        `json:"total_sessions,omitempty"`
	HoursPerWeek    float64    `json:"hours_per_week,omitempty"`
	Format          string     `json:"format,omitempty"`
	StartDates      []string   `json:"start_dates,omitempty"`
	Credential      string     `json:"credential,omitempty"`
	CareerSupport   bool       `json:"career_support,omitempty"`
	PaymentPlans    bool       `json:"payment_plans,omitempty"`
	Price           float64    `json:"price"`
	PriceType       string     `json:"price_type"`
	PriceCurrency   string     `json:"price_currency"`
	SkillLevel      string     `json:"skill_level"`
	MaxSize         int        `json:"max_size,omitempty"`
	WhatsIncluded   []string   `json:"whats_included,omitempty"`
	Requirements    string     `json:"requirements,omitempty"`
	Photos          []string   `json:"photos"`
	CreatedAt       time.Time  `json:"createdAt"`
	IsActive        bool       `json:"isActive"`
	Status          string     `json:"status,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

// Title prefers the English title
func (l *Listing) Title() string {
	if l.TitleEn != "" {
		return l.TitleEn
	}
	return l.TitleAr
}

// ListingDraft is the body of POST /listings
type ListingDraft struct {
	TitleAr         string   `json:"title_ar"`
	TitleEn         string   `json:"title_en,omitempty"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory,omitempty"`
	DescriptionEn   string   `json:"description_en"`
	DescriptionAr   string   `json:"description_ar"`
	Provider        Provider `json:"provider"`
	LocationType    string   `json:"location_type"`
	Area            string   `json:"area,omitempty"`
	Address         string   `json:"address,omitempty"`
	ScheduleType    string   `json:"schedule_type"`
	Days            []string `json:"days,omitempty"`
	TimeStart       string   `json:"time_start,omitempty"`
	TimeEnd         string   `json:"time_end,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Price           float64  `json:"price"`
	PriceType       string   `json:"price_type"`
	PriceCurrency   string   `json:"price_currency"`
	SkillLevel      string   `json:"skill_level"`
	MaxSize         int      `json:"max_size,omitempty"`
	WhatsIncluded   []string `json:"whats_included,omitempty"`
	Requirements    string   `json:"requirements,omitempty"`
	Photos          []string `json:"photos"`
}

type Category struct {
	ID            string   `json:"_id"`
	Slug          string   `json:"slug"`
	NameEn        string   `json:"name_en"`
	NameAr        string   `json:"name_ar"`
	Icon          string   `json:"icon"`
	DescriptionEn string   `json:"description_en"`
	DescriptionAr string   `json:"description_ar"`
	Subcategories []string `json:"subcategories"`
	ListingCount  int      `json:"listingCount,omitempty"`
}

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	SavedListings []string  `json:"savedListings,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Pagination is passed through to the UI unmodified
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type ListingsResponse struct {
	Listings   []Listing  `json:"listings"`
	Pagination Pagination `json:"pagination"`
}

type ListingDetail struct {
	Listing Listing   `json:"listing"`
	Related []Listing `json:"related"`
}

type CategoryResponse struct {
	Category   Category   `json:"category"`
	Listings   []Listing  `json:"listings"`
	Pagination Pagination `json:"pagination"`
}

type ProviderResponse struct {
	Provider Provider  `json:"provider"`
	Listings []Listing `json:"listings"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type SavedResponse struct {
	SavedListings []string `json:"savedListings"`
}

type DashboardStats struct {
	TotalListings       int `json:"totalListings"`
	ActiveListings      int `json:"activeListings"`
	PendingListings     int `json:"pendingListings"`
	RejectedListings    int `json:"rejectedListings"`
	TotalUsers          int `json:"totalUsers"`
	TotalCategories     int `json:"totalCategories"`
	NewListingsThisWeek int `json:"newListingsThisWeek"`
	NewUsersThisWeek    int `json:"newUsersThisWeek"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type DashboardData struct {
	Stats              DashboardStats  `json:"stats"`
	ListingsByCategory []CategoryCount `json:"listingsByCategory"`
	ListingsByStatus   []StatusCount   `json:"listingsByStatus"`
	RecentListings     []Listing       `json:"recentListings"`
	RecentUsers        []User          `json:"recentUsers"`
}

type AdminUsersResponse struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}
