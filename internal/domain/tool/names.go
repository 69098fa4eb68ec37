// Package tool names the closed set of operations a chat client can invoke.
package tool

// Name is a wire-stable tool identifier
type Name string

const (
	Home        Name = "homeflow_home"
	SearchPros  Name = "search_pros"
	GetSlots    Name = "get_slots"
	GetQuote    Name = "get_quote"
	BookJob     Name = "book_job"
	UpdateJob   Name = "update_job"
	CompleteJob Name = "complete_job"
	CancelJob   Name = "cancel_job"
	JobStatus   Name = "job_status"
	RateJobForm Name = "rate_job_form"
	RateJob     Name = "rate_job"
	ProReviews  Name = "pro_reviews"
	MyReviews   Name = "my_reviews"
	Account     Name = "google-account"
)

// All returns every tool in listing order
func All() []Name {
	return []Name{
		MyReviews,
		Home,
		Account,
		SearchPros,
		GetSlots,
		GetQuote,
		BookJob,
		UpdateJob,
		CompleteJob,
		CancelJob,
		JobStatus,
		RateJobForm,
		RateJob,
		ProReviews,
	}
}

// Parse reports whether value is a known tool
func Parse(value string) (Name, bool) {
	for _, name := range All() {
		if string(name) == value {
			return name, true
		}
	}
	return "", false
}
