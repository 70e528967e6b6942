package appclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grantdesk/internal/model"
)

func TestGetApplication(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		_ = json.NewEncoder(w).Encode(model.Application{
			ID:                42,
			StudentName:       "Dana Fowler",
			CategoryID:        3,
			Status:            "under_review",
			InterviewEligible: true,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	app, err := client.GetApplication(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/applications/42", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, int64(42), app.ID)
	assert.Equal(t, int64(3), app.Category())
	assert.True(t, app.CanProceedToInterview())
}

func TestGetApplicationErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "application not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.GetApplication(context.Background(), 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "application not found")
}

func TestGetApplicationBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.GetApplication(context.Background(), 1)
	assert.ErrorContains(t, err, "decode application response")
}
