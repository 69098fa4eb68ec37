package entities

import (
	"strings"
	"time"
)

// ServiceSlug identifies a category of home work
type ServiceSlug string

const (
	ServiceCleaning    ServiceSlug = "cleaning"
	ServicePlumbing    ServiceSlug = "plumbing"
	ServiceElectrical  ServiceSlug = "electrical"
	ServiceHandyman    ServiceSlug = "handyman"
	ServicePestControl ServiceSlug = "pest_control"
	ServiceACService   ServiceSlug = "ac_service"
	ServiceMoving      ServiceSlug = "moving"
)

// ServiceSlugs lists every bookable service in declaration order
var ServiceSlugs = []ServiceSlug{
	ServiceCleaning,
	ServicePlumbing,
	ServiceElectrical,
	ServiceHandyman,
	ServicePestControl,
	ServiceACService,
	ServiceMoving,
}

// ParseServiceSlug reports whether value names a supported service
func ParseServiceSlug(value string) (ServiceSlug, bool) {
	for _, slug := range ServiceSlugs {
		if string(slug) == value {
			return slug, true
		}
	}
	return "", false
}

// Label renders the slug for headings, e.g. "pest control".
func (s ServiceSlug) Label() string {
	return strings.Replace(string(s), "_", " ", 1)
}

// Service represents a category of home work offered by pros
type Service struct {
	ID                 int64       `json:"id" db:"id"`
	Slug               ServiceSlug `json:"slug" db:"slug"`
	Title              string      `json:"title" db:"title"`
	Description        string      `json:"description" db:"description"`
	DefaultPriceLow    float64     `json:"default_price_low" db:"default_price_low"`
	DefaultPriceHigh   float64     `json:"default_price_high" db:"default_price_high"`
	DefaultWorkingDays []int       `json:"default_working_days" db:"default_working_days"`
	DefaultRadiusKm    float64     `json:"default_radius_km" db:"default_radius_km"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`
}
