package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/model"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestExtractor(url string) PlanExtractor {
	return NewOpenAIExtractor(Config{URL: url, APIKey: "test-key"})
}

func TestExtractFencedJSON(t *testing.T) {
	srv := completionServer(t, "```json\n{\"checklist\": [\"book follow-up\"], \"plan\": [{\"action\": \"take medication\", \"schedule\": \"5 days\"}]}\n```")
	defer srv.Close()

	plan, err := newTestExtractor(srv.URL).Extract(context.Background(), "some note")
	require.NoError(t, err)
	assert.Equal(t, []string{"book follow-up"}, plan.Checklist)
	require.Len(t, plan.Plan, 1)
	assert.Equal(t, model.PlanDirective{Action: "take medication", Schedule: "5 days"}, plan.Plan[0])
}

func TestExtractBareJSON(t *testing.T) {
	srv := completionServer(t, `{"checklist": [], "plan": [{"action": "rest", "schedule": "2 days"}]}`)
	defer srv.Close()

	plan, err := newTestExtractor(srv.URL).Extract(context.Background(), "some note")
	require.NoError(t, err)
	require.Len(t, plan.Plan, 1)
	assert.Equal(t, "rest", plan.Plan[0].Action)
}

func TestExtractMissingFieldsDefaultToEmpty(t *testing.T) {
	srv := completionServer(t, "```json\n{\"checklist\": [\"one thing\"]}\n```")
	defer srv.Close()

	plan, err := newTestExtractor(srv.URL).Extract(context.Background(), "some note")
	require.NoError(t, err)
	assert.Equal(t, []string{"one thing"}, plan.Checklist)
	assert.NotNil(t, plan.Plan)
	assert.Empty(t, plan.Plan)
}

func TestExtractGarbageCompletion(t *testing.T) {
	srv := completionServer(t, "I'm sorry, I can't help with that.")
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), "some note")
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtractUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), "some note")
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestParseCarePlanEmpty(t *testing.T) {
	_, err := parseCarePlan("")
	assert.ErrorIs(t, err, ErrExtraction)
}
