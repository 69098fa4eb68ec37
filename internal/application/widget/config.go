// Package widget builds the UI-configuration document attached to every tool
// result, the action affordances inside it, and the response envelope.
package widget

import "github.com/zatekoja/homeflow/internal/domain/entities"

// View identifies the screen the client should render
type View string

const (
	ViewHome       View = "home"
	ViewAccount    View = "account"
	ViewSearch     View = "search"
	ViewSlots      View = "slots"
	ViewQuote      View = "quote"
	ViewBooking    View = "booking"
	ViewUpdate     View = "update"
	ViewCancelled  View = "cancelled"
	ViewJobStatus  View = "job_status"
	ViewRateForm   View = "rate_form"
	ViewRateJob    View = "rate_job"
	ViewProReviews View = "pro_reviews"
)

// ViewMode is a layout the client may switch between
type ViewMode string

const (
	ViewModeCarousel ViewMode = "carousel"
	ViewModeList     ViewMode = "list"
	ViewModeMap      ViewMode = "map"
)

// Config is the UI-configuration document. It is transient and rebuilt on
// every call.
type Config struct {
	View           View           `json:"view"`
	Title          string         `json:"title"`
	Subtitle       string         `json:"subtitle,omitempty"`
	Description    string         `json:"description,omitempty"`
	Timestamp      string         `json:"timestamp"`
	Pros           []ProSummary   `json:"pros,omitempty"`
	Jobs           []JobCard      `json:"jobs,omitempty"`
	Job            *JobCard       `json:"job,omitempty"`
	Quote          *QuoteCard     `json:"quote,omitempty"`
	Slots          []SlotOption   `json:"slots,omitempty"`
	Notifications  []string       `json:"notifications,omitempty"`
	QuickActions   []Action       `json:"quickActions,omitempty"`
	PricingActions []Action       `json:"pricingActions,omitempty"`
	ManageActions  []Action       `json:"manageActions,omitempty"`
	Map            *Map           `json:"map,omitempty"`
	Pro            *ProDetail     `json:"pro,omitempty"`
	Reviews        []ReviewItem   `json:"reviews,omitempty"`
	Context        map[string]any `json:"context,omitempty"`
	ViewModes      []ViewMode     `json:"viewModes,omitempty"`
	DefaultView    ViewMode       `json:"defaultView,omitempty"`
	EmptyState     string         `json:"emptyState,omitempty"`
	Query          map[string]any `json:"query,omitempty"`
	ReviewForm     *ReviewForm    `json:"reviewForm,omitempty"`
}

// AllViewModes is offered by listing screens
var AllViewModes = []ViewMode{ViewModeCarousel, ViewModeList, ViewModeMap}

// Quote is a price range
type Quote struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// ProSummary is a pro as rendered in lists and cards
type ProSummary struct {
	ID              string                `json:"id"`
	Service         entities.ServiceSlug  `json:"service"`
	Name            string                `json:"name"`
	Image           string                `json:"image,omitempty"`
	ImageAlt        string                `json:"imageAlt,omitempty"`
	Rating          *float64              `json:"rating,omitempty"`
	Reviews         int                   `json:"reviews"`
	PriceFrom       *float64              `json:"priceFrom,omitempty"`
	Currency        string                `json:"currency"`
	Location        entities.GeoPoint     `json:"location"`
	Badges          []string              `json:"badges"`
	WorkingDays     []int                 `json:"workingDays"`
	TimeWindows     []entities.TimeWindow `json:"timeWindows"`
	BaseQuote       Quote                 `json:"baseQuote"`
	ExtrasPricing   map[string]float64    `json:"extrasPricing"`
	ServiceRadiusKm float64               `json:"serviceRadiusKm"`
	DistanceKm      *float64              `json:"distanceKm,omitempty"`
	NextAvailable   string                `json:"nextAvailable,omitempty"`
	Actions         []Action              `json:"actions,omitempty"`
}

// ProDetail is a pro with its latest reviews
type ProDetail struct {
	ProSummary
	RecentReviews []ReviewItem `json:"recentReviews,omitempty"`
}

// Slot is a formatted interval
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SlotOption is a bookable slot with its actions
type SlotOption struct {
	Start           string  `json:"start"`
	End             string  `json:"end"`
	Label           string  `json:"label"`
	PrimaryAction   *Action `json:"primaryAction,omitempty"`
	SecondaryAction *Action `json:"secondaryAction,omitempty"`
}

// QuoteCard renders a stored quote
type QuoteCard struct {
	QuoteID      string               `json:"quoteId"`
	Service      entities.ServiceSlug `json:"service"`
	Currency     string               `json:"currency"`
	EstimateLow  float64              `json:"estimateLow"`
	EstimateHigh float64              `json:"estimateHigh"`
	ExpiresAt    string               `json:"expiresAt"`
	ProID        string               `json:"proId,omitempty"`
	Actions      []Action             `json:"actions,omitempty"`
}

// JobPro is the pro reference on a job card
type JobPro struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// JobCard renders a booking
type JobCard struct {
	JobID         string               `json:"jobId"`
	Service       entities.ServiceSlug `json:"service"`
	Status        string               `json:"status"`
	Pro           JobPro               `json:"pro"`
	Slot          Slot                 `json:"slot"`
	Currency      string               `json:"currency"`
	PriceEstimate float64              `json:"priceEstimate"`
	Instructions  string               `json:"instructions,omitempty"`
	Badges        []string             `json:"badges,omitempty"`
	Actions       []Action             `json:"actions,omitempty"`
	QuoteID       string               `json:"quoteId,omitempty"`
	Review        string               `json:"review,omitempty"`
	Rating        *float64             `json:"rating,omitempty"`
}

// MapMarker places a pro on the map. Coords are [lng, lat].
type MapMarker struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Coords    [2]float64 `json:"coords"`
	Rating    *float64   `json:"rating,omitempty"`
	PriceFrom *float64   `json:"priceFrom,omitempty"`
	Currency  string     `json:"currency,omitempty"`
	Subtitle  string     `json:"subtitle,omitempty"`
	Badges    []string   `json:"badges,omitempty"`
	Actions   []Action   `json:"actions,omitempty"`
}

// Map is the map panel of a listing
type Map struct {
	Center     [2]float64  `json:"center"`
	Markers    []MapMarker `json:"markers"`
	SelectedID string      `json:"selectedId,omitempty"`
}

// ReviewItem is a review as rendered in lists
type ReviewItem struct {
	JobID     string  `json:"jobId"`
	Rating    float64 `json:"rating"`
	Review    string  `json:"review,omitempty"`
	UpdatedAt string  `json:"updatedAt"`
}

// ReviewForm pre-fills the rating form
type ReviewForm struct {
	JobID   string  `json:"jobId"`
	ProName string  `json:"proName"`
	Service string  `json:"service"`
	Rating  float64 `json:"rating"`
	Review  *string `json:"review"`
}
