package entities

import "time"

// GeoPoint is a WGS84 coordinate pair
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TimeWindow is a recurring local clock interval, e.g. "09:00"-"11:00"
type TimeWindow struct {
	Start string `json:"start" db:"start"`
	End   string `json:"end" db:"end"`
}

// Extra is a priced add-on a pro offers on top of the base job
type Extra struct {
	Name  string  `json:"name" db:"name"`
	Price float64 `json:"price" db:"price"`
}

// Pro represents a bookable service provider
type Pro struct {
	ID              int64        `json:"id" db:"id"`
	Slug            string       `json:"slug" db:"slug"`
	ServiceID       int64        `json:"service_id" db:"service_id"`
	Name            string       `json:"name" db:"name"`
	Image           string       `json:"image,omitempty" db:"image"`
	ImageAlt        string       `json:"image_alt,omitempty" db:"image_alt"`
	Rating          *float64     `json:"rating,omitempty" db:"rating"`
	ReviewsCount    int          `json:"reviews_count" db:"reviews_count"`
	PriceFrom       *float64     `json:"price_from,omitempty" db:"price_from"`
	Currency        string       `json:"currency" db:"currency"`
	Latitude        float64      `json:"latitude" db:"latitude"`
	Longitude       float64      `json:"longitude" db:"longitude"`
	ServiceRadiusKm float64      `json:"service_radius_km" db:"service_radius_km"`
	WorkingDays     []int        `json:"working_days" db:"working_days"`
	BaseQuoteLow    float64      `json:"base_quote_low" db:"base_quote_low"`
	BaseQuoteHigh   float64      `json:"base_quote_high" db:"base_quote_high"`
	TimeWindows     []TimeWindow `json:"time_windows"`
	Badges          []string     `json:"badges"`
	Extras          []Extra      `json:"extras"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
}

// Location returns the pro's base coordinates
func (p *Pro) Location() GeoPoint {
	return GeoPoint{Lat: p.Latitude, Lng: p.Longitude}
}

// RatingOrZero is the rating used for ordering; absent ratings sort as 0.
func (p *Pro) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// ExtrasPricing returns the add-ons keyed by name
func (p *Pro) ExtrasPricing() map[string]float64 {
	pricing := make(map[string]float64, len(p.Extras))
	for _, extra := range p.Extras {
		pricing[extra.Name] = extra.Price
	}
	return pricing
}
