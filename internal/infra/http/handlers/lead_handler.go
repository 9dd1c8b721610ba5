package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/visahub/lead-intake/internal/entity"
	"github.com/visahub/lead-intake/internal/infra/http/middleware"
	"github.com/visahub/lead-intake/internal/usecase"
)

const maxMultipartMemory = 10 << 20 // 10 MiB

type LeadHandler struct {
	Store       entity.LeadStoreInterface
	SubmitUC    *usecase.SubmitLeadUseCase
	UpdateUC    *usecase.UpdateLeadStatusUseCase
	CookieName  string
	Logger      *zap.Logger
	rateLimiter *RateLimiter
}

func NewLeadHandler(store entity.LeadStoreInterface, submitUC *usecase.SubmitLeadUseCase, updateUC *usecase.UpdateLeadStatusUseCase, cookieName string, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		Store:       store,
		SubmitUC:    submitUC,
		UpdateUC:    updateUC,
		CookieName:  cookieName,
		Logger:      logger,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

// List returns every lead. Public unless the admin query flag is set,
// in which case the session cookie must be present.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("admin") {
		if _, err := r.Cookie(h.CookieName); err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
	}

	leads, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leads")
		return
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

// Create accepts the public multipart submission form.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	var visas []entity.VisaType
	if raw := r.FormValue("interestedVisas"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &visas); err != nil {
			h.Logger.Error("failed to parse interestedVisas field", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to create lead")
			return
		}
	}

	input := usecase.SubmitLeadInput{
		FirstName:       r.FormValue("firstName"),
		LastName:        r.FormValue("lastName"),
		Email:           r.FormValue("email"),
		LinkedIn:        r.FormValue("linkedin"),
		InterestedVisas: visas,
		AdditionalInfo:  r.FormValue("additionalInfo"),
		Country:         r.FormValue("country"),
	}

	if file, header, err := r.FormFile("resumeFile"); err == nil {
		file.Close()
		input.ResumeFilename = header.Filename
	}

	lead, err := h.SubmitUC.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return
		}
		h.Logger.Error("failed to create lead", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	middleware.RecordLeadSubmitted("server")
	writeJSON(w, http.StatusCreated, lead)
}

// Get returns a single lead by id. The route guard already verified the
// session; the cookie presence check mirrors the endpoint's own contract.
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(h.CookieName); err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	lead, err := h.Store.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type updateStatusRequest struct {
	Status entity.LeadStatus `json:"status"`
}

// UpdateStatus patches the status field of one lead.
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(h.CookieName); err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	id := chi.URLParam(r, "id")
	lead, err := h.UpdateUC.Execute(r.Context(), id, req.Status)
	if err != nil {
		if de, ok := err.(*usecase.DomainError); ok {
			if de.Code == usecase.CodeLeadNotFound {
				writeError(w, http.StatusNotFound, "Lead not found")
				return
			}
			writeError(w, http.StatusBadRequest, "Invalid status value")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	middleware.RecordStatusTransition(string(lead.Status))
	writeJSON(w, http.StatusOK, lead)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
