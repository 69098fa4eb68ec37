package middleware

import (
	"net/http"
	"strings"

	"github.com/zatekoja/homeflow/internal/application/widget"
	"github.com/zatekoja/homeflow/internal/domain/entities"
)

// Account headers are set by the authenticating proxy in front of the API
const (
	HeaderAccountSubject = "X-Account-Subject"
	HeaderAccountName    = "X-Account-Name"
	HeaderAccountEmail   = "X-Account-Email"
	HeaderAccountPicture = "X-Account-Picture"
)

// AccountMiddleware carries the verified caller account in the request context
func AccountMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := entities.Account{
			Subject: strings.TrimSpace(r.Header.Get(HeaderAccountSubject)),
			Name:    strings.TrimSpace(r.Header.Get(HeaderAccountName)),
			Email:   strings.TrimSpace(r.Header.Get(HeaderAccountEmail)),
			Picture: strings.TrimSpace(r.Header.Get(HeaderAccountPicture)),
		}
		if account.IsZero() {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(widget.WithAccount(r.Context(), account)))
	})
}
