package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larder-dev/larder/internal/common"
	"github.com/larder-dev/larder/internal/model"
)

type fakeCreds struct {
	token    string
	tokenErr error
	cleared  int
}

func (f *fakeCreds) Token() (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return f.token, nil
}

func (f *fakeCreds) Clear() error {
	f.cleared++
	return nil
}

func TestRequestCarriesAuthHeaders(t *testing.T) {
	var gotAuth, gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode([]model.Item{})
	}))
	defer server.Close()

	client := New(server.URL, &fakeCreds{token: "secret-token"})

	_, err := client.ListItems(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.NotEmpty(t, gotRequestID, "every request must carry a request ID")
}

func TestUnauthorizedClearsCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	creds := &fakeCreds{token: "stale"}
	client := New(server.URL, creds)

	_, err := client.ListItems(context.Background())

	assert.ErrorIs(t, err, common.ErrAuthExpired)
	assert.Equal(t, 1, creds.cleared, "a rejected credential must be cleared exactly once")
}

func TestMissingCredentialShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request should reach the server without a credential")
	}))
	defer server.Close()

	client := New(server.URL, &fakeCreds{tokenErr: common.ErrNotLoggedIn})

	_, err := client.ListItems(context.Background())
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)
}

func TestErrorDetailExtraction(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{
			name:       "fastapi detail envelope",
			body:       `{"detail": "category already exists"}`,
			wantDetail: "category already exists",
		},
		{
			name:       "non-json body",
			body:       "<html>gateway timeout</html>",
			wantDetail: "",
		},
		{
			name:       "empty body",
			body:       "",
			wantDetail: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(server.URL, &fakeCreds{token: "token"})

			_, err := client.CreateCategory(context.Background(), model.CategoryDraft{
				Name: "Grãos", Icon: "🌾", Color: "#aabbcc",
			})
			require.Error(t, err)

			var reqErr *common.RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, http.StatusConflict, reqErr.Status)
			assert.Equal(t, tt.wantDetail, reqErr.Detail)
		})
	}
}

func TestLoginPostsForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "maria", r.PostFormValue("username"))
		assert.Equal(t, "hunter2", r.PostFormValue("password"))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "fresh-token",
			"token_type":   "bearer",
		})
	}))
	defer server.Close()

	client := New(server.URL, &fakeCreds{})

	token, err := client.Login(context.Background(), "maria", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(server.URL, &fakeCreds{})

	_, err := client.Login(context.Background(), "maria", "wrong")
	require.Error(t, err)

	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr, "a bad login should surface a user-facing message")
}

func TestSetQuantitySendsPartialPatch(t *testing.T) {
	var gotBody map[string]any
	var gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(model.Item{ID: 7, CurrentQuantity: 2.5})
	}))
	defer server.Close()

	client := New(server.URL, &fakeCreds{token: "token"})

	item, err := client.SetQuantity(context.Background(), 7, 2.5)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/items/7", gotPath)
	assert.Equal(t, map[string]any{"current_quantity": 2.5}, gotBody,
		"only the quantity travels in a step")
	assert.Equal(t, 2.5, item.CurrentQuantity)
}

func TestPredictionPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/12/purchase-prediction", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.Prediction{ItemID: 12, DaysRemaining: 4})
	}))
	defer server.Close()

	client := New(server.URL, &fakeCreds{token: "token"})

	pred, err := client.Prediction(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, 12, pred.ItemID)
	assert.InDelta(t, 4, pred.DaysRemaining, 0.001)
}
