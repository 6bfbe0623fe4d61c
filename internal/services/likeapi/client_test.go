package likeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, 2*time.Second, nil)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func TestRequestLikeSuccessKeepsCallerRegion(t *testing.T) {
	var gotRegion, gotUID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRegion = r.URL.Query().Get("region")
		gotUID = r.URL.Query().Get("uid")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": 1,
			"PlayerNickname": "EMPlayer",
			"UID": "123456",
			"LikesGivenByAPI": 3,
			"LikesbeforeCommand": 10,
			"LikesafterCommand": 13
		}`))
	})

	outcome, err := client.RequestLike(context.Background(), "123456", "IND")
	if err != nil {
		t.Fatalf("request like: %v", err)
	}

	// IND goes over the wire as IN, but the outcome reports the caller's code.
	if gotRegion != "IN" {
		t.Fatalf("wire region: got %q want IN", gotRegion)
	}
	if gotUID != "123456" {
		t.Fatalf("wire uid: got %q", gotUID)
	}
	if outcome.Status != StatusSuccess {
		t.Fatalf("unexpected status: %s", outcome.Status)
	}
	if outcome.Region != "IND" {
		t.Fatalf("outcome region: got %q want IND", outcome.Region)
	}
	if outcome.Nickname != "EMPlayer" || outcome.LikesGiven != 3 ||
		outcome.Before != 10 || outcome.After != 13 {
		t.Fatalf("unexpected outcome fields: %+v", outcome)
	}
}

func TestRequestLikeZeroGrantedMeansMaxed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The API still says "status", but nothing was granted.
		_, _ = w.Write([]byte(`{
			"status": "success",
			"PlayerNickname": "EMPlayer",
			"UID": "123456",
			"LikesGivenByAPI": 0
		}`))
	})

	outcome, err := client.RequestLike(context.Background(), "123456", "BD")
	if err != nil {
		t.Fatalf("request like: %v", err)
	}
	if outcome.Status != StatusMaxed {
		t.Fatalf("unexpected status: %s", outcome.Status)
	}
	if outcome.Nickname != "EMPlayer" || outcome.UID != "123456" {
		t.Fatalf("unexpected outcome fields: %+v", outcome)
	}
}

func TestRequestLikeUnavailableCases(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusBadGateway)
			},
		},
		{
			name: "missing status field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"PlayerNickname": "x", "LikesGivenByAPI": 5}`))
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>down</html>"))
			},
		},
	}

	for _, tc := range cases {
		client := newTestClient(t, tc.handler)
		outcome, err := client.RequestLike(context.Background(), "123456", "IND")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if outcome.Status != StatusUnavailable {
			t.Fatalf("%s: got status %s, want unavailable", tc.name, outcome.Status)
		}
	}
}

func TestRequestLikeNetworkFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := NewClient(server.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	server.Close() // connection refused from here on

	outcome, err := client.RequestLike(context.Background(), "123456", "US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusUnavailable {
		t.Fatalf("got status %s, want unavailable", outcome.Status)
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "success", "LikesGivenByAPI": 0}`))
	})
	if !client.Ping(context.Background()) {
		t.Fatalf("maxed outcome should still count as reachable")
	}

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})
	if down.Ping(context.Background()) {
		t.Fatalf("unavailable outcome should fail the probe")
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := NewClient("", time.Second, nil); err == nil {
		t.Fatalf("empty url should be rejected")
	}
	if _, err := NewClient("not-a-url", time.Second, nil); err == nil {
		t.Fatalf("url without scheme should be rejected")
	}
}
