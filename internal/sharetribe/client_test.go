package sharetribe

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blues/ams/internal/config"
)

// newTestServer 模拟 Integration API：签发令牌并返回固定用户目录
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/v1/auth/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","expires_in":600,"token_type":"bearer"}`))
	})

	mux.HandleFunc("/v1/integration_api/users/query", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{
					"id": {"uuid": "u-100"},
					"attributes": {
						"email": "Jane@Example.com",
						"emailVerified": true,
						"banned": false,
						"createdAt": "2025-05-01T10:00:00Z",
						"profile": {"displayName": "Jane S"}
					}
				},
				{
					"id": {"uuid": "u-101"},
					"attributes": {
						"email": "bob@example.com",
						"emailVerified": false,
						"banned": false,
						"createdAt": "2025-05-02T11:30:00Z",
						"profile": {"displayName": "Bob T"}
					}
				}
			],
			"meta": {"totalItems": 2, "totalPages": 1, "page": 1, "perPage": 100}
		}`))
	})

	mux.HandleFunc("/v1/integration_api/users/show", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") == "jane@example.com" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"data": {
					"id": {"uuid": "u-100"},
					"attributes": {
						"email": "jane@example.com",
						"emailVerified": true,
						"createdAt": "2025-05-01T10:00:00Z",
						"profile": {"displayName": "Jane S"}
					}
				}
			}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"status":404,"code":"not-found"}]}`))
	})

	mux.HandleFunc("/v1/integration_api/marketplace/show", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":{"uuid":"m-1"},"attributes":{"name":"Test Marketplace"}}}`))
	})

	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := Init(config.ShareTribeConfig{
		BaseURL:      baseURL,
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		QueryLimit:   1000,
	})
	if err != nil {
		t.Fatalf("Init() unexpected error: %v", err)
	}
	return client
}

func TestInitRequiresCredentials(t *testing.T) {
	if _, err := Init(config.ShareTribeConfig{BaseURL: "https://example.com"}); err == nil {
		t.Fatal("Init() expected error when credentials are missing")
	}
}

func TestQueryUsers(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := newTestClient(t, server.URL)

	users, err := client.QueryUsers()
	if err != nil {
		t.Fatalf("QueryUsers() unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("QueryUsers() returned %d users, want 2", len(users))
	}

	jane := users[0]
	if jane.ID != "u-100" {
		t.Errorf("user id = %q, want u-100", jane.ID)
	}
	if jane.Email != "jane@example.com" {
		t.Errorf("email = %q, want lowercased jane@example.com", jane.Email)
	}
	if !jane.EmailVerified {
		t.Error("expected emailVerified true")
	}
	if jane.DisplayName != "Jane S" {
		t.Errorf("display name = %q, want Jane S", jane.DisplayName)
	}

	if users[1].EmailVerified {
		t.Error("expected second user emailVerified false")
	}
}

func TestShowUserByEmail(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := newTestClient(t, server.URL)

	user, err := client.ShowUserByEmail("Jane@Example.COM")
	if err != nil {
		t.Fatalf("ShowUserByEmail() unexpected error: %v", err)
	}
	if user.ID != "u-100" {
		t.Errorf("user id = %q, want u-100", user.ID)
	}

	if _, err := client.ShowUserByEmail("nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ShowUserByEmail() error = %v, want ErrUserNotFound", err)
	}
}

func TestShowMarketplace(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := newTestClient(t, server.URL)

	name, err := client.ShowMarketplace()
	if err != nil {
		t.Fatalf("ShowMarketplace() unexpected error: %v", err)
	}
	if name != "Test Marketplace" {
		t.Errorf("marketplace name = %q, want Test Marketplace", name)
	}
}
