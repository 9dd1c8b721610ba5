package client

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/visahub/lead-intake/internal/entity"
	"github.com/visahub/lead-intake/internal/usecase"
)

// LocalIDPrefix marks records synthesized client-side when the server
// create call failed. Local-origin records are never promoted: the
// server never learns about them.
const LocalIDPrefix = "local-"

// RefreshInterval is how often an open dashboard re-runs the fetch flow.
const RefreshInterval = 30 * time.Second

// LeadClient talks to the lead API and reconciles its responses with
// the local cache. Server failures are swallowed: every operation falls
// back to the cache, and an error surfaces only when both sides come up
// empty.
type LeadClient struct {
	HTTP    *http.Client
	BaseURL string
	Cache   LeadCache
	Logger  *zap.Logger
}

func NewLeadClient(baseURL string, cache LeadCache, logger *zap.Logger) *LeadClient {
	// The jar carries the auth_token cookie across calls.
	jar, _ := cookiejar.New(nil)
	return &LeadClient{
		HTTP:    &http.Client{Timeout: 10 * time.Second, Jar: jar},
		BaseURL: baseURL,
		Cache:   cache,
		Logger:  logger,
	}
}

// Login authenticates against the server so subsequent calls carry the
// session cookie. Unlike the lead operations it has no cache fallback.
func (c *LeadClient) Login(ctx context.Context, email, password string) (entity.User, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return entity.User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return entity.User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.User{}, fmt.Errorf("login failed: %s", resp.Status)
	}

	var user entity.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return entity.User{}, err
	}
	return user, nil
}

// FetchLeads reads the cache, attempts a server fetch, and merges the
// two views by id: server records first in server order, cache-only
// records appended after. The merged set is persisted back to the cache.
// When the server call fails the cache contents are returned unchanged
// and no error is reported.
func (c *LeadClient) FetchLeads(ctx context.Context) ([]entity.Lead, error) {
	cached, err := c.Cache.Load()
	if err != nil {
		c.Logger.Warn("failed to read lead cache", zap.Error(err))
		cached = []entity.Lead{}
	}

	serverLeads, err := c.fetchFromServer(ctx)
	if err != nil {
		c.Logger.Info("server fetch failed, serving cache", zap.Error(err))
		return cached, nil
	}

	merged := MergeLeads(serverLeads, cached)
	if err := c.Cache.Save(merged); err != nil {
		c.Logger.Warn("failed to persist merged leads", zap.Error(err))
	}
	return merged, nil
}

// MergeLeads deduplicates by id. The server copy wins both position and
// content; cache-only records keep their relative order at the tail.
func MergeLeads(server, cached []entity.Lead) []entity.Lead {
	seen := make(map[string]bool, len(server))
	merged := make([]entity.Lead, 0, len(server)+len(cached))
	for _, lead := range server {
		seen[lead.ID] = true
		merged = append(merged, lead)
	}
	for _, lead := range cached {
		if !seen[lead.ID] {
			merged = append(merged, lead)
		}
	}
	return merged
}

func (c *LeadClient) fetchFromServer(ctx context.Context) ([]entity.Lead, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/leads?admin=true", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var leads []entity.Lead
	if err := json.NewDecoder(resp.Body).Decode(&leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// NewLeadForm carries a public submission. ResumePath, AdditionalInfo
// and Country are optional.
type NewLeadForm struct {
	FirstName       string
	LastName        string
	Email           string
	LinkedIn        string
	InterestedVisas []entity.VisaType
	ResumePath      string
	AdditionalInfo  string
	Country         string
}

// CreateLead submits the form to the server and writes the result
// through to the cache. If the server call fails, a local-origin record
// is synthesized and cached instead; it stays cache-only forever.
func (c *LeadClient) CreateLead(ctx context.Context, form NewLeadForm) (*entity.Lead, error) {
	lead, err := c.createOnServer(ctx, form)
	if err != nil {
		c.Logger.Info("server create failed, caching locally", zap.Error(err))
		return c.createLocally(form)
	}

	cached, loadErr := c.Cache.Load()
	if loadErr != nil {
		cached = []entity.Lead{}
	}
	if saveErr := c.Cache.Save(append(cached, *lead)); saveErr != nil {
		c.Logger.Warn("failed to write lead through to cache", zap.Error(saveErr))
	}
	return lead, nil
}

func (c *LeadClient) createOnServer(ctx context.Context, form NewLeadForm) (*entity.Lead, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	mw.WriteField("firstName", form.FirstName)
	mw.WriteField("lastName", form.LastName)
	mw.WriteField("email", form.Email)
	mw.WriteField("linkedin", form.LinkedIn)
	visas, _ := json.Marshal(form.InterestedVisas)
	mw.WriteField("interestedVisas", string(visas))
	if form.AdditionalInfo != "" {
		mw.WriteField("additionalInfo", form.AdditionalInfo)
	}
	if form.Country != "" {
		mw.WriteField("country", form.Country)
	}
	if form.ResumePath != "" {
		f, err := os.Open(form.ResumePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		part, err := mw.CreateFormFile("resumeFile", filepath.Base(form.ResumePath))
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, err
		}
	}
	mw.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/leads", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var lead entity.Lead
	if err := json.NewDecoder(resp.Body).Decode(&lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *LeadClient) createLocally(form NewLeadForm) (*entity.Lead, error) {
	info := form.AdditionalInfo
	if form.Country != "" {
		info = info + "\ncountry: " + form.Country
	}

	lead := entity.Lead{
		ID:              localID(),
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		Email:           form.Email,
		LinkedIn:        form.LinkedIn,
		InterestedVisas: form.InterestedVisas,
		AdditionalInfo:  info,
		Status:          entity.StatusPending,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	cached, err := c.Cache.Load()
	if err != nil {
		cached = []entity.Lead{}
	}
	if err := c.Cache.Save(append(cached, lead)); err != nil {
		return nil, err
	}
	return &lead, nil
}

// UpdateStatus patches the lead on the server and mirrors the change
// into the cache. On server failure the cache entry is mutated directly;
// only when the id is absent from both sides does the caller see an
// error.
func (c *LeadClient) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) (*entity.Lead, error) {
	lead, err := c.updateOnServer(ctx, id, status)
	if err == nil {
		c.mirrorStatus(id, status)
		return lead, nil
	}
	c.Logger.Info("server update failed, updating cache", zap.Error(err))

	cached, loadErr := c.Cache.Load()
	if loadErr != nil {
		return nil, usecase.ErrLeadNotFound
	}
	for i := range cached {
		if cached[i].ID == id {
			cached[i].Status = status
			if saveErr := c.Cache.Save(cached); saveErr != nil {
				return nil, saveErr
			}
			updated := cached[i]
			return &updated, nil
		}
	}
	return nil, usecase.ErrLeadNotFound
}

func (c *LeadClient) updateOnServer(ctx context.Context, id string, status entity.LeadStatus) (*entity.Lead, error) {
	body, _ := json.Marshal(map[string]entity.LeadStatus{"status": status})
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.BaseURL+"/api/leads/"+id, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var lead entity.Lead
	if err := json.NewDecoder(resp.Body).Decode(&lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *LeadClient) mirrorStatus(id string, status entity.LeadStatus) {
	cached, err := c.Cache.Load()
	if err != nil {
		return
	}
	for i := range cached {
		if cached[i].ID == id {
			cached[i].Status = status
		}
	}
	if err := c.Cache.Save(cached); err != nil {
		c.Logger.Warn("failed to mirror status into cache", zap.Error(err))
	}
}

// StartAutoRefresh re-runs the fetch flow every RefreshInterval until
// ctx is cancelled, delivering each result to onUpdate. Overlapping runs
// are not deduplicated; the later result wins, matching the dashboard's
// last-write-wins view state.
func (c *LeadClient) StartAutoRefresh(ctx context.Context, onUpdate func([]entity.Lead)) {
	go func() {
		ticker := time.NewTicker(RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				leads, err := c.FetchLeads(ctx)
				if err != nil {
					c.Logger.Warn("auto refresh failed", zap.Error(err))
					continue
				}
				onUpdate(leads)
			}
		}
	}()
}

func localID() string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%s%d-%s", LocalIDPrefix, time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
