// Package seed holds the demo catalogue and loads it through the repository
// interfaces, so the same data backs the memory store and a fresh database.
package seed

import "github.com/zatekoja/homeflow/internal/domain/entities"

// ProSeed is a pro together with the slug of the service it offers
type ProSeed struct {
	Service entities.ServiceSlug
	Pro     entities.Pro
}

// ReviewSeed is a historical review not attached to any booking
type ReviewSeed struct {
	ProSlug string
	Rating  float64
	Review  string
	DaysAgo int
}

func f(v float64) *float64 { return &v }

// Services is the service catalogue
var Services = []entities.Service{
	{Slug: entities.ServiceCleaning, Title: "Cleaning", Description: "Keep homes tidy with vetted cleaners.", DefaultPriceLow: 110, DefaultPriceHigh: 180, DefaultRadiusKm: 20, DefaultWorkingDays: []int{1, 2, 3, 4, 5, 6}},
	{Slug: entities.ServicePlumbing, Title: "Plumbing", Description: "Fix leaks and pipes with pros.", DefaultPriceLow: 170, DefaultPriceHigh: 290, DefaultRadiusKm: 22, DefaultWorkingDays: []int{0, 1, 2, 3, 4, 5, 6}},
	{Slug: entities.ServiceElectrical, Title: "Electrical", Description: "Licensed electricians on demand.", DefaultPriceLow: 160, DefaultPriceHigh: 260, DefaultRadiusKm: 25, DefaultWorkingDays: []int{1, 2, 3, 4, 5, 6}},
	{Slug: entities.ServiceHandyman, Title: "Handyman", Description: "Repairs and installations made easy.", DefaultPriceLow: 150, DefaultPriceHigh: 240, DefaultRadiusKm: 24, DefaultWorkingDays: []int{1, 2, 3, 4, 5, 6}},
	{Slug: entities.ServicePestControl, Title: "Pest Control", Description: "Certified pest mitigation specialists.", DefaultPriceLow: 200, DefaultPriceHigh: 340, DefaultRadiusKm: 26, DefaultWorkingDays: []int{1, 2, 3, 4, 5, 6}},
	{Slug: entities.ServiceACService, Title: "AC Service", Description: "Air conditioner tune-ups and chemical washes.", DefaultPriceLow: 180, DefaultPriceHigh: 320, DefaultRadiusKm: 24, DefaultWorkingDays: []int{1, 2, 3, 4, 5, 6}},
	{Slug: entities.ServiceMoving, Title: "Moving", Description: "Reliable movers for every relocation.", DefaultPriceLow: 260, DefaultPriceHigh: 520, DefaultRadiusKm: 40, DefaultWorkingDays: []int{0, 1, 2, 3, 4, 5}},
}

// Pros is the provider catalogue
var Pros = []ProSeed{
	{Service: entities.ServiceCleaning, Pro: entities.Pro{
		Slug: "sparkle-cleaners", Name: "Sparkle Cleaners",
		Image: "https://cdn.homeflow.app/pros/sparkle-cleaners.png", ImageAlt: "Sparkle Cleaners team in uniform",
		Rating: f(4.8), ReviewsCount: 212, PriceFrom: f(120), Currency: "MYR",
		Latitude: 3.139, Longitude: 101.686, ServiceRadiusKm: 20,
		WorkingDays: []int{1, 2, 3, 4, 5, 6}, BaseQuoteLow: 120, BaseQuoteHigh: 180,
		TimeWindows: []entities.TimeWindow{{Start: "09:00", End: "11:00"}, {Start: "11:30", End: "13:30"}, {Start: "14:00", End: "16:00"}},
		Badges:      []string{"Vetted", "Eco products"},
		Extras:      []entities.Extra{{Name: "deep_clean", Price: 80}, {Name: "windows", Price: 40}, {Name: "laundry", Price: 50}},
	}},
	{Service: entities.ServiceCleaning, Pro: entities.Pro{
		Slug: "klang-valley-clean", Name: "Klang Valley Clean",
		Image: "https://cdn.homeflow.app/pros/klang-valley-clean.png", ImageAlt: "Cleaner wiping kitchen counter",
		Rating: f(4.6), ReviewsCount: 88, PriceFrom: f(100), Currency: "MYR",
		Latitude: 3.112, Longitude: 101.653, ServiceRadiusKm: 18,
		WorkingDays: []int{1, 2, 3, 4, 5}, BaseQuoteLow: 110, BaseQuoteHigh: 160,
		TimeWindows: []entities.TimeWindow{{Start: "08:30", End: "10:30"}, {Start: "12:30", End: "14:30"}, {Start: "15:00", End: "17:00"}},
		Badges:      []string{"Vetted", "Budget friendly"},
		Extras:      []entities.Extra{{Name: "deep_clean", Price: 70}, {Name: "windows", Price: 35}, {Name: "fridge", Price: 45}},
	}},
	{Service: entities.ServicePlumbing, Pro: entities.Pro{
		Slug: "rapidfix-plumbing", Name: "RapidFix Plumbing",
		Image: "https://cdn.homeflow.app/pros/rapidfix-plumbing.png", ImageAlt: "RapidFix plumber repairing sink",
		Rating: f(4.9), ReviewsCount: 134, PriceFrom: f(180), Currency: "MYR",
		Latitude: 3.157, Longitude: 101.704, ServiceRadiusKm: 22,
		WorkingDays: []int{0, 1, 2, 3, 4, 5}, BaseQuoteLow: 180, BaseQuoteHigh: 260,
		TimeWindows: []entities.TimeWindow{{Start: "08:00", End: "10:00"}, {Start: "10:30", End: "12:30"}, {Start: "17:00", End: "19:00"}},
		Badges:      []string{"Vetted", "Same-day"},
		Extras:      []entities.Extra{{Name: "emergency", Price: 130}, {Name: "fixture_install", Price: 95}},
	}},
	{Service: entities.ServicePlumbing, Pro: entities.Pro{
		Slug: "pipeguard-pros", Name: "PipeGuard Pros",
		Image: "https://cdn.homeflow.app/pros/pipeguard-pros.png", ImageAlt: "PipeGuard plumber with toolbox",
		Rating: f(4.5), ReviewsCount: 76, PriceFrom: f(150), Currency: "MYR",
		Latitude: 3.091, Longitude: 101.639, ServiceRadiusKm: 18,
		WorkingDays: []int{1, 2, 3, 4, 5, 6}, BaseQuoteLow: 150, BaseQuoteHigh: 230,
		TimeWindows: []entities.TimeWindow{{Start: "09:00", End: "11:00"}, {Start: "13:00", End: "15:00"}, {Start: "15:30", End: "17:30"}},
		Badges:      []string{"Vetted", "Budget friendly"},
		Extras:      []entities.Extra{{Name: "emergency", Price: 110}, {Name: "fixture_install", Price: 85}},
	}},
	{Service: entities.ServiceElectrical, Pro: entities.Pro{
		Slug: "voltsure-electric", Name: "VoltSure Electric",
		Image: "https://cdn.homeflow.app/pros/voltsure-electric.png", ImageAlt: "Electrician installing lighting",
		Rating: f(4.7), ReviewsCount: 98, PriceFrom: f(160), Currency: "MYR",
		Latitude: 3.087, Longitude: 101.608, ServiceRadiusKm: 25,
		WorkingDays: []int{1, 2, 3, 4, 5, 6}, BaseQuoteLow: 160, BaseQuoteHigh: 240,
		TimeWindows: []entities.TimeWindow{{Start: "09:00", End: "11:00"}, {Start: "13:00", End: "15:00"}, {Start: "16:00", End: "18:00"}},
		Badges:      []string{"Vetted", "Licensed"},
		Extras:      []entities.Extra{{Name: "ceiling_fan", Price: 70}, {Name: "rewiring", Price: 160}, {Name: "emergency", Price: 140}},
	}},
	{Service: entities.ServiceHandyman, Pro: entities.Pro{
		Slug: "fixit-handyman", Name: "Fix-It Handyman Crew",
		Image: "https://cdn.homeflow.app/pros/fixit-handyman.png", ImageAlt: "Handyman fixing cabinet door",
		Rating: f(4.6), ReviewsCount: 65, PriceFrom: f(140), Currency: "MYR",
		Latitude: 3.055, Longitude: 101.45, ServiceRadiusKm: 24,
		WorkingDays: []int{1, 2, 3, 4, 5, 6}, BaseQuoteLow: 140, BaseQuoteHigh: 220,
		TimeWindows: []entities.TimeWindow{{Start: "08:30", End: "10:30"}, {Start: "11:30", End: "13:30"}, {Start: "14:30", End: "16:30"}},
		Badges:      []string{"Vetted", "Same-day"},
		Extras:      []entities.Extra{{Name: "furniture_assembly", Price: 60}, {Name: "tv_mount", Price: 90}, {Name: "drywall_patch", Price: 75}},
	}},
	{Service: entities.ServicePestControl, Pro: entities.Pro{
		Slug: "shield-pest-control", Name: "Shield Pest Control",
		Image: "https://cdn.homeflow.app/pros/shield-pest-control.png", ImageAlt: "Exterminator spraying pesticide",
		Rating: f(4.7), ReviewsCount: 58, PriceFrom: f(220), Currency: "MYR",
		Latitude: 3.2, Longitude: 101.65, ServiceRadiusKm: 30,
		WorkingDays: []int{1, 2, 3, 4, 5, 6}, BaseQuoteLow: 210, BaseQuoteHigh: 320,
		TimeWindows: []entities.TimeWindow{{Start: "09:00", End: "11:00"}, {Start: "13:00", End: "15:00"}},
		Badges:      []string{"Vetted", "Child-safe"},
		Extras:      []entities.Extra{{Name: "termites", Price: 210}, {Name: "fogging", Price: 160}},
	}},
	{Service: entities.ServiceACService, Pro: entities.Pro{
		Slug: "coolcomfort-ac", Name: "CoolComfort AC",
		Image: "https://cdn.homeflow.app/pros/coolcomfort-ac.png", ImageAlt: "Technician servicing air conditioner",
		Rating: f(4.8), ReviewsCount: 140, PriceFrom: f(180), Currency: "MYR",
		Latitude: 3.045, Longitude: 101.617, ServiceRadiusKm: 28,
		WorkingDays: []int{1, 2, 3, 4, 5, 6}, BaseQuoteLow: 180, BaseQuoteHigh: 260,
		TimeWindows: []entities.TimeWindow{{Start: "08:00", End: "10:00"}, {Start: "11:00", End: "13:00"}, {Start: "14:00", End: "16:00"}},
		Badges:      []string{"Vetted", "Energy efficient"},
		Extras:      []entities.Extra{{Name: "tune_up", Price: 110}, {Name: "chemical_wash", Price: 140}},
	}},
	{Service: entities.ServiceMoving, Pro: entities.Pro{
		Slug: "moveswift-logistics", Name: "MoveSwift Logistics",
		Image: "https://cdn.homeflow.app/pros/moveswift-logistics.png", ImageAlt: "Moving crew loading truck",
		Rating: f(4.6), ReviewsCount: 74, PriceFrom: f(260), Currency: "MYR",
		Latitude: 3.105, Longitude: 101.642, ServiceRadiusKm: 35,
		WorkingDays: []int{1, 2, 3, 4, 5, 6}, BaseQuoteLow: 260, BaseQuoteHigh: 520,
		TimeWindows: []entities.TimeWindow{{Start: "08:00", End: "12:00"}, {Start: "13:00", End: "17:00"}},
		Badges:      []string{"Vetted", "Full-service"},
		Extras:      []entities.Extra{{Name: "packing", Price: 140}, {Name: "unpacking", Price: 120}, {Name: "long_distance", Price: 260}},
	}},
}

// Reviews are historical reviews; entries for pros not in Pros are skipped
var Reviews = []ReviewSeed{
	{ProSlug: "sparkle-cleaners", Rating: 4.9, Review: "Team arrived early and polished every surface.", DaysAgo: 5},
	{ProSlug: "brightnest-cleaning", Rating: 4.7, Review: "Great attention to detail on the windows.", DaysAgo: 11},
	{ProSlug: "rapidfix-plumbing", Rating: 5, Review: "Fixed a nasty leak in under 20 minutes.", DaysAgo: 2},
	{ProSlug: "flowmaster-plumbers", Rating: 4.6, Review: "Explained every step and tidied the workspace.", DaysAgo: 8},
	{ProSlug: "voltsure-electric", Rating: 4.8, Review: "Rewired my living room safely with zero fuss.", DaysAgo: 9},
	{ProSlug: "ampguard-electrical", Rating: 4.9, Review: "Installed smart switches perfectly.", DaysAgo: 3},
	{ProSlug: "fixit-handyman", Rating: 4.7, Review: "Mounted shelves and TV flawlessly.", DaysAgo: 6},
	{ProSlug: "kuala-fixers", Rating: 4.5, Review: "Fixed our sliding door on the first visit.", DaysAgo: 12},
	{ProSlug: "shield-pest-control", Rating: 4.9, Review: "No more ants and the pets stayed safe.", DaysAgo: 7},
	{ProSlug: "coolcomfort-ac", Rating: 4.8, Review: "Air feels fresher after the chemical wash.", DaysAgo: 4},
}

// upcomingBookingPros get a confirmed booking tomorrow in their first window
var upcomingBookingPros = []string{"sparkle-cleaners", "klang-valley-clean"}

// historyBookingPro gets a completed, rated booking two days ago
const historyBookingPro = "klang-valley-clean"
