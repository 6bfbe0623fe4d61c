package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mahiofficial1332/Em-like-bot/internal/domain/rules"
	"github.com/mahiofficial1332/Em-like-bot/internal/repo/jsonstore"
	"github.com/mahiofficial1332/Em-like-bot/internal/services/likeapi"
)

// Renderer builds every outgoing message. Timestamps are formatted in the
// display timezone only; quota day boundaries use the process clock and are
// not this package's business.
type Renderer struct {
	loc *time.Location
}

func NewRenderer(timezone string) *Renderer {
	loc, err := time.LoadLocation(strings.TrimSpace(timezone))
	if err != nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

func (r *Renderer) stamp(now time.Time) (string, string) {
	local := now.In(r.loc)
	return local.Format("2006-01-02"), local.Format("15:04:05")
}

func (r *Renderer) Success(outcome likeapi.Outcome, remaining int, now time.Time) string {
	date, clock := r.stamp(now)
	flag := rules.RegionFlag(outcome.Region)

	var b strings.Builder
	b.WriteString("✅ LIKES SENT SUCCESSFULLY!\n")
	fmt.Fprintf(&b, "┌─ PLAYER: %s (%s)\n", outcome.Nickname, outcome.UID)
	fmt.Fprintf(&b, "├─ REGION: %s %s\n", flag, outcome.Region)
	fmt.Fprintf(&b, "├─ LIKES ADDED: +%d\n", outcome.LikesGiven)
	fmt.Fprintf(&b, "├─ BEFORE: %d → AFTER: %d\n", outcome.Before, outcome.After)
	fmt.Fprintf(&b, "└─ YOUR REMAINING LIMIT: %d\n", remaining)
	fmt.Fprintf(&b, "%s %s", date, clock)
	return b.String()
}

func (r *Renderer) QuotaExceeded(used, limit int, now time.Time) string {
	date, clock := r.stamp(now)

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Daily limit reached (%d/%d)\n", used, limit)
	b.WriteString("Your allowance resets at midnight. Ask an operator for a higher limit if you need more requests per day.\n")
	fmt.Fprintf(&b, "%s %s", date, clock)
	return b.String()
}

func (r *Renderer) UpstreamMaxed(now time.Time) string {
	date, clock := r.stamp(now)

	var b strings.Builder
	b.WriteString("🚫 API LIMIT REACHED!\n")
	b.WriteString("┌─ STATUS: FAILED\n")
	b.WriteString("├─ REASON: UID has reached the daily API limit\n")
	b.WriteString("├─ SOLUTION: Try a different UID\n")
	b.WriteString("└─ OR: Wait 24 hours for the reset\n")
	fmt.Fprintf(&b, "%s %s", date, clock)
	return b.String()
}

func (r *Renderer) Unavailable() string {
	return "❌ API connection failed. Please try again later."
}

func (r *Renderer) Redirect() string {
	return "❌ Use this command in the designated like channel only."
}

func (r *Renderer) Usage() string {
	return "❌ Please provide a UID. Usage: /like [region] <uid>"
}

func (r *Renderer) InvalidUID() string {
	return "❌ Invalid UID. Must be only numbers & at least 6 digits."
}

func (r *Renderer) InvalidRegion() string {
	return "❌ Invalid region. Valid regions: " + strings.Join(rules.ValidRegions(), ", ")
}

func (r *Renderer) Cooldown(wait time.Duration) string {
	return fmt.Sprintf("⏱️ Command on cooldown. Try again in %.1f seconds.", wait.Seconds())
}

func (r *Renderer) Processing() string {
	return "⏳ Processing your request..."
}

// AutoReport renders a full day's auto-like report: one line block per
// processed target, then the success/likes summary.
func (r *Renderer) AutoReport(date string, entries []jsonstore.ReportEntry, now time.Time) string {
	_, clock := r.stamp(now)

	var b strings.Builder
	fmt.Fprintf(&b, "🤖 Auto-Like Report - %s %s\n\n", date, clock)

	successCount := 0
	totalLikes := 0
	for _, entry := range entries {
		statusGlyph := "❌"
		if entry.Status == jsonstore.ReportStatusSuccess {
			statusGlyph = "✅"
			successCount++
			totalLikes += entry.Likes
		}
		flag := rules.RegionFlag(entry.Region)
		fmt.Fprintf(&b, "%s %s %s - %s\n", statusGlyph, flag, entry.Nickname, entry.UID)
		fmt.Fprintf(&b, "   └─ Likes: +%d | Time: %s\n\n", entry.Likes, entry.Timestamp)
	}

	b.WriteString("📊 Summary:\n")
	fmt.Fprintf(&b, "✅ Success: %d/%d\n", successCount, len(entries))
	fmt.Fprintf(&b, "💖 Total Likes Given: %d", totalLikes)
	return b.String()
}

func (r *Renderer) AutoTargetList(targets []jsonstore.AutoTarget) string {
	if len(targets) == 0 {
		return "📋 No UIDs in the auto-like system."
	}

	var b strings.Builder
	b.WriteString("Auto-Like UIDs:\n")
	for _, target := range targets {
		flag := rules.RegionFlag(target.Region)
		fmt.Fprintf(&b, "%s %s - %s (%s)\n", flag, target.Nickname, target.UID, target.Region)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Timestamp formats a report-entry time of day in the display timezone.
func (r *Renderer) Timestamp(now time.Time) string {
	return now.In(r.loc).Format("15:04:05")
}
