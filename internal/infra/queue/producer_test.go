package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() LeadCreatedPayload {
	return LeadCreatedPayload{
		LeadID:    "lead-123",
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		LinkedIn:  "https://linkedin.com/in/grace",
		Visas:     []string{"O1", "EB2"},
		CreatedAt: "2026-08-28T10:00:00Z",
	}
}

func TestLeadCreatedPayloadMarshalling(t *testing.T) {
	body, err := json.Marshal(testPayload())
	require.NoError(t, err)

	// Wire format is snake_case; consumers depend on these keys.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "lead-123", raw["lead_id"])
	assert.Equal(t, "Grace", raw["first_name"])
	assert.Equal(t, "grace@example.com", raw["email"])
	assert.Contains(t, raw, "visas")
	assert.Contains(t, raw, "created_at")

	var decoded LeadCreatedPayload
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, testPayload(), decoded)
}
