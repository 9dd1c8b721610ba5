package handlers

import "net/http"

// Minimal placeholder pages. The real front end lives elsewhere; these
// exist so the route guard's redirects have somewhere to land and the
// page route classes stay exercisable.

func servePage(title string) http.HandlerFunc {
	body := "<!doctype html><html><head><title>" + title + "</title></head><body><h1>" + title + "</h1></body></html>"
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}
}

var (
	HomePage       = servePage("Visa Assistance")
	LeadFormPage   = servePage("Submit an Inquiry")
	LoginPage      = servePage("Admin Login")
	AdminLeadsPage = servePage("Leads Dashboard")
)
