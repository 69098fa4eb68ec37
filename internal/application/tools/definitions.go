package tools

import (
	"github.com/zatekoja/homeflow/internal/application/widget"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/tool"
)

// Definition is the published declaration of a tool
type Definition struct {
	Name        tool.Name      `json:"name"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	Meta        map[string]any `json:"_meta"`
}

type schema = map[string]any

func object(properties schema, required ...string) schema {
	s := schema{"type": "object", "properties": properties}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func closedObject(properties schema) schema {
	s := object(properties)
	s["additionalProperties"] = false
	return s
}

func serviceEnum() schema {
	values := make([]string, 0, len(entities.ServiceSlugs))
	for _, slug := range entities.ServiceSlugs {
		values = append(values, string(slug))
	}
	return schema{"type": "string", "enum": values}
}

func str() schema { return schema{"type": "string"} }

func dateTimeSlot(required ...string) schema {
	return object(schema{
		"start": schema{"type": "string", "format": "date-time"},
		"end":   schema{"type": "string", "format": "date-time"},
	}, required...)
}

func jobID() schema { return object(schema{"job_id": str()}, "job_id") }

// Definitions returns every tool declaration in listing order
func Definitions() []Definition {
	defs := map[tool.Name]Definition{
		tool.MyReviews: {
			Description: "View your past job reviews and ratings.",
			InputSchema: closedObject(schema{"since": schema{"type": "string", "format": "date"}}),
		},
		tool.Home: {
			Title:       "HandyHub by HomeFlow",
			Description: "Open the HomeFlow launcher with quick actions and featured pros.",
			InputSchema: closedObject(schema{}),
		},
		tool.Account: {
			Description: "Fetch the connected Google account profile information.",
			InputSchema: closedObject(schema{}),
		},
		tool.SearchPros: {
			Description: "Find nearby providers for a given home service, date window, and budget.",
			InputSchema: object(schema{
				"service": serviceEnum(),
				"when": object(schema{
					"date": schema{"type": "string", "format": "date"},
					"flex": str(),
				}, "date"),
				"location": object(schema{
					"lat":       schema{"type": "number"},
					"lng":       schema{"type": "number"},
					"radius_km": schema{"type": "number", "default": 10},
				}, "lat", "lng"),
				"filters": object(schema{
					"price_max":   schema{"type": "number"},
					"rating_min":  schema{"type": "number"},
					"only_vetted": schema{"type": "boolean", "default": true},
				}),
			}, "service", "when", "location"),
		},
		tool.GetSlots: {
			Description: "Fetch real-time availability slots for a provider across a date range.",
			InputSchema: object(schema{
				"pro_id": str(),
				"date_range": object(schema{
					"start": schema{"type": "string", "format": "date"},
					"end":   schema{"type": "string", "format": "date"},
				}, "start", "end"),
			}, "pro_id", "date_range"),
		},
		tool.GetQuote: {
			Description: "Calculate an estimated quote for a service with optional provider match.",
			InputSchema: object(schema{
				"service": serviceEnum(),
				"pro_id":  str(),
				"details": schema{"type": "object"},
			}, "service"),
		},
		tool.BookJob: {
			Description: "Confirm a booking with the selected provider and slot.",
			InputSchema: object(schema{
				"pro_id":         str(),
				"service":        serviceEnum(),
				"slot":           dateTimeSlot("start", "end"),
				"quote_id":       str(),
				"price_estimate": schema{"type": "number"},
				"address":        schema{"type": "object"},
				"instructions":   str(),
			}, "pro_id", "service", "slot"),
		},
		tool.UpdateJob: {
			Description: "Reschedule or edit instructions for an existing booking.",
			InputSchema: object(schema{
				"job_id":       str(),
				"slot":         dateTimeSlot(),
				"instructions": str(),
			}, "job_id"),
		},
		tool.CompleteJob: {
			Description: "Mark a booking as completed.",
			InputSchema: jobID(),
		},
		tool.CancelJob: {
			Description: "Cancel a scheduled booking.",
			InputSchema: object(schema{"job_id": str(), "reason": str()}, "job_id"),
		},
		tool.JobStatus: {
			Description: "Retrieve the status of a booking or list upcoming jobs.",
			InputSchema: object(schema{"job_id": str()}),
		},
		tool.RateJobForm: {
			Description: "Open a rating form for a completed job.",
			InputSchema: jobID(),
		},
		tool.RateJob: {
			Description: "Submit a rating and optional review for a completed job.",
			InputSchema: object(schema{
				"job_id": str(),
				"rating": schema{"type": "number", "minimum": 1, "maximum": 5},
				"review": schema{"type": "string", "maxLength": 280},
			}, "job_id", "rating"),
		},
		tool.ProReviews: {
			Description: "Surface recent reviews for a provider.",
			InputSchema: object(schema{"pro_id": str()}, "pro_id"),
		},
	}

	list := make([]Definition, 0, len(defs))
	for _, name := range tool.All() {
		def, ok := defs[name]
		if !ok {
			continue
		}
		def.Name = name
		def.Meta = widget.Meta()
		list = append(list, def)
	}
	return list
}
