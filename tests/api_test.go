package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

const apiBase = "http://localhost:5001"

type authResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Avatar string `json:"avatar"`
}

type geocacheResponse struct {
	ID             string `json:"_id"`
	GPSCoordinates struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"gpsCoordinates"`
	Difficulty int      `json:"difficulty"`
	FoundBy    []string `json:"foundBy"`
	Comments   []struct {
		ID   string `json:"_id"`
		Text string `json:"text"`
	} `json:"comments"`
}

type countResponse struct {
	LikesCount int `json:"likesCount"`
}

// doJSON sends a JSON request with an optional bearer token and decodes
// the response body into out when out is non-nil.
func doJSON(t *testing.T, method, path, token string, payload interface{}, out interface{}) int {
	t.Helper()

	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(jsonPayload)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response of %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// TestAPIEndpoints runs the end-to-end scenario against a running
// server; it is skipped when none is listening.
func TestAPIEndpoints(t *testing.T) {
	conn, err := net.DialTimeout("tcp", "localhost:5001", time.Second)
	if err != nil {
		t.Skipf("API server is not running at %s: %v", apiBase, err)
	}
	conn.Close()

	suffix := time.Now().UnixNano()
	emailA := fmt.Sprintf("usera-%d@example.com", suffix)
	emailB := fmt.Sprintf("userb-%d@example.com", suffix)
	password := "password123"

	var userA, userB authResponse
	t.Run("Register User A", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, "/api/auth/register", "",
			map[string]string{"email": emailA, "password": password}, &userA)
		if status != http.StatusCreated {
			t.Fatalf("Failed to register user A. Status: %d", status)
		}
		if userA.Token == "" || userA.UserID == "" {
			t.Fatal("No token or user id received")
		}
	})

	t.Run("Duplicate Registration Conflicts", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, "/api/auth/register", "",
			map[string]string{"email": emailA, "password": password}, nil)
		if status != http.StatusConflict {
			t.Fatalf("Expected 409 for duplicate email, got %d", status)
		}
	})

	t.Run("Login", func(t *testing.T) {
		var login authResponse
		status := doJSON(t, http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": emailA, "password": password}, &login)
		if status != http.StatusCreated {
			t.Fatalf("Failed to login. Status: %d", status)
		}
		if login.UserID != userA.UserID {
			t.Fatalf("Login user id %s does not match registration %s", login.UserID, userA.UserID)
		}
	})

	t.Run("Bad Credentials", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": emailA, "password": "wrong"}, nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("Expected 401 for bad credentials, got %d", status)
		}
	})

	var cache geocacheResponse
	t.Run("Create Geocache", func(t *testing.T) {
		payload := map[string]interface{}{
			"gpsCoordinates": map[string]float64{"lat": 48.8566, "lng": 2.3522},
			"difficulty":     3,
			"description":    "Cache in central Paris",
		}
		status := doJSON(t, http.MethodPost, "/api/geocache", userA.Token, payload, &cache)
		if status != http.StatusOK {
			t.Fatalf("Failed to create geocache. Status: %d", status)
		}
		if cache.ID == "" {
			t.Fatal("No geocache id received")
		}
	})

	t.Run("Register User B", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, "/api/auth/register", "",
			map[string]string{"email": emailB, "password": password}, &userB)
		if status != http.StatusCreated {
			t.Fatalf("Failed to register user B. Status: %d", status)
		}
	})

	t.Run("Proximity Query Finds Cache", func(t *testing.T) {
		var caches []geocacheResponse
		status := doJSON(t, http.MethodGet, "/api/geocache?lat=48.85&lng=2.35&radius=5", userB.Token, nil, &caches)
		if status != http.StatusOK {
			t.Fatalf("Failed to list geocaches. Status: %d", status)
		}
		found := false
		for _, c := range caches {
			if c.ID == cache.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("Cache %s not in proximity results", cache.ID)
		}
	})

	t.Run("Proximity Query Excludes Distant Cache", func(t *testing.T) {
		var caches []geocacheResponse
		status := doJSON(t, http.MethodGet, "/api/geocache?lat=43.6047&lng=1.4442&radius=5", userB.Token, nil, &caches)
		if status != http.StatusOK {
			t.Fatalf("Failed to list geocaches. Status: %d", status)
		}
		for _, c := range caches {
			if c.ID == cache.ID {
				t.Fatalf("Paris cache %s should not appear near Toulouse", cache.ID)
			}
		}
	})

	t.Run("Foreign Update Unauthorized", func(t *testing.T) {
		status := doJSON(t, http.MethodPut, "/api/geocache/"+cache.ID, userB.Token,
			map[string]int{"difficulty": 5}, nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("Expected 401 for foreign update, got %d", status)
		}
	})

	t.Run("Update Missing Cache Is 404", func(t *testing.T) {
		status := doJSON(t, http.MethodPut, "/api/geocache/000000000000000000000000", userB.Token,
			map[string]int{"difficulty": 5}, nil)
		if status != http.StatusNotFound {
			t.Fatalf("Expected 404 before any ownership check, got %d", status)
		}
	})

	t.Run("Like Toggle", func(t *testing.T) {
		var count countResponse
		status := doJSON(t, http.MethodPost, "/api/geocache/"+cache.ID+"/like", userB.Token, nil, &count)
		if status != http.StatusOK || count.LikesCount != 1 {
			t.Fatalf("Expected likesCount 1, got status %d count %d", status, count.LikesCount)
		}
		status = doJSON(t, http.MethodPost, "/api/geocache/"+cache.ID+"/like", userB.Token, nil, &count)
		if status != http.StatusOK || count.LikesCount != 0 {
			t.Fatalf("Expected likesCount back to 0, got status %d count %d", status, count.LikesCount)
		}
	})

	t.Run("Found Is Idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			status := doJSON(t, http.MethodPost, "/api/geocache/"+cache.ID+"/found", userB.Token, nil, nil)
			if status != http.StatusOK {
				t.Fatalf("Failed to mark found. Status: %d", status)
			}
		}
		var caches []geocacheResponse
		doJSON(t, http.MethodGet, "/api/geocache", userB.Token, nil, &caches)
		for _, c := range caches {
			if c.ID == cache.ID && len(c.FoundBy) != 1 {
				t.Fatalf("Expected foundBy length 1 after double found, got %d", len(c.FoundBy))
			}
		}
	})

	var commentID string
	t.Run("Comment Lifecycle", func(t *testing.T) {
		var updated geocacheResponse
		status := doJSON(t, http.MethodPost, "/api/geocache/"+cache.ID+"/comment", userB.Token,
			map[string]string{"text": "Nice spot"}, &updated)
		if status != http.StatusOK || len(updated.Comments) != 1 {
			t.Fatalf("Failed to add comment. Status: %d, comments: %d", status, len(updated.Comments))
		}
		commentID = updated.Comments[0].ID

		// Author may edit, a different non-admin user may not.
		status = doJSON(t, http.MethodPut, "/api/geocache/"+cache.ID+"/comment/"+commentID, userB.Token,
			map[string]string{"text": "Really nice spot"}, nil)
		if status != http.StatusOK {
			t.Fatalf("Author failed to edit own comment. Status: %d", status)
		}
		status = doJSON(t, http.MethodPut, "/api/geocache/"+cache.ID+"/comment/"+commentID, userA.Token,
			map[string]string{"text": "hijacked"}, nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("Expected 401 editing someone else's comment, got %d", status)
		}
	})

	t.Run("Comment Like Toggle", func(t *testing.T) {
		var count countResponse
		status := doJSON(t, http.MethodPost, "/api/geocache/"+cache.ID+"/comment/"+commentID+"/like", userA.Token, nil, &count)
		if status != http.StatusOK || count.LikesCount != 1 {
			t.Fatalf("Expected comment likesCount 1, got status %d count %d", status, count.LikesCount)
		}
	})

	t.Run("Password-Protected Found", func(t *testing.T) {
		var protected geocacheResponse
		payload := map[string]interface{}{
			"gpsCoordinates": map[string]float64{"lat": 48.86, "lng": 2.35},
			"difficulty":     4,
			"password":       "sesame",
		}
		status := doJSON(t, http.MethodPost, "/api/geocache", userA.Token, payload, &protected)
		if status != http.StatusOK {
			t.Fatalf("Failed to create protected geocache. Status: %d", status)
		}

		status = doJSON(t, http.MethodPost, "/api/geocache/"+protected.ID+"/found", userB.Token,
			map[string]string{"password": "wrong"}, nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("Expected 401 for wrong cache password, got %d", status)
		}

		status = doJSON(t, http.MethodPost, "/api/geocache/"+protected.ID+"/found", userB.Token,
			map[string]string{"password": "sesame"}, nil)
		if status != http.StatusOK {
			t.Fatalf("Expected 200 with correct cache password, got %d", status)
		}

		doJSON(t, http.MethodDelete, "/api/geocache/"+protected.ID, userA.Token, nil, nil)
	})

	t.Run("Rankings", func(t *testing.T) {
		for _, path := range []string{
			"/api/rankings/best-customers",
			"/api/rankings/popular-caches",
			"/api/rankings/rarely-found-caches",
		} {
			var entries []json.RawMessage
			status := doJSON(t, http.MethodGet, path, userB.Token, nil, &entries)
			if status != http.StatusOK {
				t.Fatalf("Ranking %s failed. Status: %d", path, status)
			}
			if len(entries) > 10 {
				t.Fatalf("Ranking %s returned %d entries, want at most 10", path, len(entries))
			}
		}
	})

	t.Run("Admin Routes Forbidden For Non-Admin", func(t *testing.T) {
		status := doJSON(t, http.MethodGet, "/api/admin/users", userB.Token, nil, nil)
		if status != http.StatusForbidden {
			t.Fatalf("Expected 403 for non-admin, got %d", status)
		}
	})

	t.Run("Protected Route Without Token", func(t *testing.T) {
		status := doJSON(t, http.MethodGet, "/api/geocache", "", nil, nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("Expected 401 without token, got %d", status)
		}
	})

	t.Run("Delete Geocache", func(t *testing.T) {
		status := doJSON(t, http.MethodDelete, "/api/geocache/"+cache.ID, userB.Token, nil, nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("Expected 401 deleting someone else's cache, got %d", status)
		}
		status = doJSON(t, http.MethodDelete, "/api/geocache/"+cache.ID, userA.Token, nil, nil)
		if status != http.StatusOK {
			t.Fatalf("Creator failed to delete own cache. Status: %d", status)
		}
	})
}
