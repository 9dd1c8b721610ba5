package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visahub/lead-intake/internal/entity"
	"github.com/visahub/lead-intake/internal/usecase"
)

// memCache keeps the slot in memory so reconciliation tests need no disk.
type memCache struct {
	leads []entity.Lead
}

func (m *memCache) Load() ([]entity.Lead, error) {
	out := make([]entity.Lead, len(m.leads))
	copy(out, m.leads)
	return out, nil
}

func (m *memCache) Save(leads []entity.Lead) error {
	m.leads = make([]entity.Lead, len(leads))
	copy(m.leads, leads)
	return nil
}

func lead(id string, status entity.LeadStatus) entity.Lead {
	return entity.Lead{
		ID:              id,
		FirstName:       "First" + id,
		LastName:        "Last" + id,
		Email:           id + "@example.com",
		LinkedIn:        "https://linkedin.com/in/" + id,
		InterestedVisas: []entity.VisaType{entity.VisaH1B},
		AdditionalInfo:  "info-" + id,
		Status:          status,
		CreatedAt:       "2026-08-28T10:00:00Z",
	}
}

func newClient(baseURL string, cache LeadCache) *LeadClient {
	c := NewLeadClient(baseURL, cache, zap.NewNop())
	c.HTTP.Timeout = time.Second
	return c
}

func TestFetchLeadsServerDownReturnsCacheUnchanged(t *testing.T) {
	cache := &memCache{leads: []entity.Lead{lead("A", entity.StatusPending), lead("B", entity.StatusReachedOut)}}
	c := newClient("http://127.0.0.1:1", cache)

	got, err := c.FetchLeads(context.Background())
	require.NoError(t, err, "server failure must not surface")
	assert.Equal(t, cache.leads, got)
}

func TestFetchLeadsNonSuccessStatusFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cache := &memCache{leads: []entity.Lead{lead("A", entity.StatusPending)}}
	c := newClient(srv.URL, cache)

	got, err := c.FetchLeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cache.leads, got)
}

func TestFetchLeadsMergesAndPersists(t *testing.T) {
	serverCopy := lead("A", entity.StatusReachedOut)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/leads", r.URL.Path)
		assert.True(t, r.URL.Query().Has("admin"))
		json.NewEncoder(w).Encode([]entity.Lead{serverCopy})
	}))
	defer srv.Close()

	staleCopy := lead("A", entity.StatusPending)
	cacheOnly := lead("B", entity.StatusPending)
	cache := &memCache{leads: []entity.Lead{staleCopy, cacheOnly}}
	c := newClient(srv.URL, cache)

	got, err := c.FetchLeads(context.Background())
	require.NoError(t, err)

	// Server copy of A wins position and content; B is appended once.
	require.Len(t, got, 2)
	assert.Equal(t, serverCopy, got[0])
	assert.Equal(t, cacheOnly, got[1])

	// Merged set written back to the cache.
	assert.Equal(t, got, cache.leads)
}

func TestMergeLeads(t *testing.T) {
	a := lead("A", entity.StatusReachedOut)
	b := lead("B", entity.StatusPending)

	merged := MergeLeads([]entity.Lead{a}, []entity.Lead{lead("A", entity.StatusPending), b})
	require.Len(t, merged, 2)
	assert.Equal(t, a, merged[0])
	assert.Equal(t, b, merged[1])

	assert.Empty(t, MergeLeads(nil, nil))
	assert.Equal(t, []entity.Lead{b}, MergeLeads(nil, []entity.Lead{b}))
	assert.Equal(t, []entity.Lead{a}, MergeLeads([]entity.Lead{a}, nil))
}

func TestCreateLeadWritesThroughOnSuccess(t *testing.T) {
	created := lead("server-1", entity.StatusPending)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "FirstX", r.FormValue("firstName"))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}))
	defer srv.Close()

	cache := &memCache{}
	c := newClient(srv.URL, cache)

	got, err := c.CreateLead(context.Background(), NewLeadForm{
		FirstName:       "FirstX",
		LastName:        "LastX",
		Email:           "x@example.com",
		LinkedIn:        "https://linkedin.com/in/x",
		InterestedVisas: []entity.VisaType{entity.VisaL1},
	})
	require.NoError(t, err)
	assert.Equal(t, created, *got)

	require.Len(t, cache.leads, 1)
	assert.Equal(t, created, cache.leads[0])
}

func TestCreateLeadFallsBackToLocalRecord(t *testing.T) {
	cache := &memCache{}
	c := newClient("http://127.0.0.1:1", cache)

	before := time.Now().UTC().Add(-time.Second)
	got, err := c.CreateLead(context.Background(), NewLeadForm{
		FirstName:       "FirstX",
		LastName:        "LastX",
		Email:           "x@example.com",
		LinkedIn:        "https://linkedin.com/in/x",
		InterestedVisas: []entity.VisaType{entity.VisaL1},
		AdditionalInfo:  "note",
		Country:         "Canada",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.ID, LocalIDPrefix), "local records carry the prefix")
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.Equal(t, "note\ncountry: Canada", got.AdditionalInfo)

	created, err := got.CreatedTime()
	require.NoError(t, err)
	assert.False(t, created.Before(before))

	require.Len(t, cache.leads, 1)
	assert.Equal(t, *got, cache.leads[0])
}

func TestUpdateStatusMirrorsServerResult(t *testing.T) {
	updated := lead("A", entity.StatusReachedOut)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/leads/A", r.URL.Path)
		json.NewEncoder(w).Encode(updated)
	}))
	defer srv.Close()

	cache := &memCache{leads: []entity.Lead{lead("A", entity.StatusPending)}}
	c := newClient(srv.URL, cache)

	got, err := c.UpdateStatus(context.Background(), "A", entity.StatusReachedOut)
	require.NoError(t, err)
	assert.Equal(t, updated, *got)
	assert.Equal(t, entity.StatusReachedOut, cache.leads[0].Status)
}

func TestUpdateStatusCacheFallbackMutatesOnlyStatus(t *testing.T) {
	original := lead("local-123-abc", entity.StatusPending)
	other := lead("B", entity.StatusPending)
	cache := &memCache{leads: []entity.Lead{original, other}}
	c := newClient("http://127.0.0.1:1", cache)

	got, err := c.UpdateStatus(context.Background(), "local-123-abc", entity.StatusReachedOut)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReachedOut, got.Status)

	// Every other field of the target stays byte-identical.
	want := original
	want.Status = entity.StatusReachedOut
	assert.Equal(t, want, cache.leads[0])

	// Unrelated entries untouched.
	assert.Equal(t, other, cache.leads[1])
}

func TestUpdateStatusAbsentEverywhereFails(t *testing.T) {
	cache := &memCache{leads: []entity.Lead{lead("A", entity.StatusPending)}}
	c := newClient("http://127.0.0.1:1", cache)

	_, err := c.UpdateStatus(context.Background(), "missing", entity.StatusReachedOut)
	assert.ErrorIs(t, err, usecase.ErrLeadNotFound)
}
