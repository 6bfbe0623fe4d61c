package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mahiofficial1332/Em-like-bot/internal/repo/jsonstore"
	"github.com/mahiofficial1332/Em-like-bot/internal/services/likeapi"
)

func TestSuccessShowsRemainingAndCallerRegion(t *testing.T) {
	renderer := NewRenderer("UTC")
	now := time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)

	text := renderer.Success(likeapi.Outcome{
		Status:     likeapi.StatusSuccess,
		Nickname:   "EMPlayer",
		UID:        "123456",
		Region:     "IND",
		LikesGiven: 3,
		Before:     10,
		After:      13,
	}, 1, now)

	for _, want := range []string{
		"EMPlayer (123456)",
		"IND",
		"+3",
		"BEFORE: 10 → AFTER: 13",
		"REMAINING LIMIT: 1",
		"2026-08-30 14:30:00",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("success message missing %q:\n%s", want, text)
		}
	}
}

func TestAutoReportSummary(t *testing.T) {
	renderer := NewRenderer("UTC")
	now := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)

	entries := []jsonstore.ReportEntry{
		{UID: "111111", Nickname: "a", Region: "IND", Status: jsonstore.ReportStatusSuccess, Likes: 4, Timestamp: "17:00:01"},
		{UID: "222222", Nickname: "b", Region: "BD", Status: jsonstore.ReportStatusFailed, Likes: 0, Timestamp: "17:00:07"},
		{UID: "333333", Nickname: "c", Region: "AUTO", Status: jsonstore.ReportStatusSuccess, Likes: 2, Timestamp: "17:00:13"},
	}

	text := renderer.AutoReport("2026-08-30", entries, now)

	if !strings.Contains(text, "Success: 2/3") {
		t.Fatalf("report summary wrong:\n%s", text)
	}
	if !strings.Contains(text, "Total Likes Given: 6") {
		t.Fatalf("total likes wrong:\n%s", text)
	}
	for _, entry := range entries {
		if !strings.Contains(text, entry.UID) {
			t.Fatalf("report missing entry %s:\n%s", entry.UID, text)
		}
	}
}

func TestRendererFallsBackToUTCOnBadTimezone(t *testing.T) {
	renderer := NewRenderer("Not/AZone")
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	if got := renderer.Timestamp(now); got != "09:00:00" {
		t.Fatalf("expected UTC fallback, got %s", got)
	}
}

func TestAutoTargetListEmpty(t *testing.T) {
	renderer := NewRenderer("UTC")
	if !strings.Contains(renderer.AutoTargetList(nil), "No UIDs") {
		t.Fatalf("empty list message missing")
	}
}
