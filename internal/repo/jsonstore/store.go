package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// UsageRecord tracks a single user's like submissions for one calendar day.
type UsageRecord struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AutoTarget is one entry of the auto-like worklist.
type AutoTarget struct {
	UID      string `json:"uid"`
	Region   string `json:"region"`
	Nickname string `json:"nickname"`
}

// ReportEntry is one processed target inside a day's auto-like report.
type ReportEntry struct {
	UID       string `json:"uid"`
	Nickname  string `json:"nickname"`
	Region    string `json:"region"`
	Status    string `json:"status"`
	Likes     int    `json:"likes"`
	Timestamp string `json:"timestamp"`
}

const (
	ReportStatusSuccess = "success"
	ReportStatusFailed  = "failed"
)

// snapshot is the full persisted document. Saving always rewrites the whole
// file; a crash mid-save can corrupt it, which is accepted for this state.
// Auto targets are an array, not an object, so worklist order survives
// round-trips.
type snapshot struct {
	UserLimits     map[string]int           `json:"user_limits"`
	RoleLimits     map[string]int           `json:"role_limits"`
	UserUsage      map[string]UsageRecord   `json:"user_usage"`
	LikeChannels   map[string]bool          `json:"like_channels"`
	ReportChannels map[string]bool          `json:"report_channels"`
	AutoTargets    []AutoTarget             `json:"auto_like_uids"`
	AutoReports    map[string][]ReportEntry `json:"auto_like_reports"`
}

func emptySnapshot() snapshot {
	return snapshot{
		UserLimits:     make(map[string]int),
		RoleLimits:     make(map[string]int),
		UserUsage:      make(map[string]UsageRecord),
		LikeChannels:   make(map[string]bool),
		ReportChannels: make(map[string]bool),
		AutoTargets:    nil,
		AutoReports:    make(map[string][]ReportEntry),
	}
}

// Store owns the in-memory state and its file on disk. All methods are safe
// for concurrent use; command handlers and the auto-like job share one Store.
type Store struct {
	mu   sync.Mutex
	path string
	data snapshot
}

func New(path string) *Store {
	return &Store{
		path: strings.TrimSpace(path),
		data: emptySnapshot(),
	}
}

// Load reads the snapshot from disk. A missing file is not an error; the
// store simply starts empty. A corrupt file also leaves the store empty but
// reports the problem so the caller can log it.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}

	loaded := emptySnapshot()
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("unmarshal state file: %w", err)
	}

	if loaded.UserLimits == nil {
		loaded.UserLimits = make(map[string]int)
	}
	if loaded.RoleLimits == nil {
		loaded.RoleLimits = make(map[string]int)
	}
	if loaded.UserUsage == nil {
		loaded.UserUsage = make(map[string]UsageRecord)
	}
	if loaded.LikeChannels == nil {
		loaded.LikeChannels = make(map[string]bool)
	}
	if loaded.ReportChannels == nil {
		loaded.ReportChannels = make(map[string]bool)
	}
	if loaded.AutoReports == nil {
		loaded.AutoReports = make(map[string][]ReportEntry)
	}

	s.data = loaded
	return nil
}

// Save rewrites the whole state file in place.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// --- quota limits ---

func (s *Store) UserLimit(userID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	limit, ok := s.data.UserLimits[userID]
	return limit, ok
}

func (s *Store) SetUserLimit(userID string, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.UserLimits[userID] = limit
}

func (s *Store) SetRoleLimit(roleID string, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.RoleLimits[roleID] = limit
}

// MaxRoleLimit resolves the highest configured limit among the given roles.
func (s *Store) MaxRoleLimit(roleIDs []string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := 0
	found := false
	for _, roleID := range roleIDs {
		if limit, ok := s.data.RoleLimits[roleID]; ok {
			found = true
			if limit > best {
				best = limit
			}
		}
	}
	return best, found
}

// --- usage ---

func (s *Store) Usage(userID string) (UsageRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data.UserUsage[userID]
	return rec, ok
}

func (s *Store) SetUsage(userID string, rec UsageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.UserUsage[userID] = rec
}

// --- channel bindings ---

// SetLikeChannel marks a chat as a designated like-command channel. Once any
// chat is designated, the command is restricted to the designated set.
func (s *Store) SetLikeChannel(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.LikeChannels[chatID] = true
}

func (s *Store) IsLikeChannel(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.LikeChannels[chatID]
}

func (s *Store) HasLikeChannels() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.LikeChannels) > 0
}

func (s *Store) SetReportChannel(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.ReportChannels[chatID] = true
}

// ReportChannels returns every report destination chat id, sorted so report
// fan-out order is stable.
func (s *Store) ReportChannels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.data.ReportChannels))
	for chatID, enabled := range s.data.ReportChannels {
		if enabled {
			out = append(out, chatID)
		}
	}
	sort.Strings(out)
	return out
}

// --- auto-like worklist ---

// UpsertAutoTarget adds a target to the end of the worklist, or updates it in
// place when the UID is already present. Reports whether the UID was new.
func (s *Store) UpsertAutoTarget(target AutoTarget) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.AutoTargets {
		if s.data.AutoTargets[i].UID == target.UID {
			s.data.AutoTargets[i] = target
			return false
		}
	}
	s.data.AutoTargets = append(s.data.AutoTargets, target)
	return true
}

func (s *Store) RemoveAutoTarget(uid string) (AutoTarget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, target := range s.data.AutoTargets {
		if target.UID == uid {
			s.data.AutoTargets = append(s.data.AutoTargets[:i], s.data.AutoTargets[i+1:]...)
			return target, true
		}
	}
	return AutoTarget{}, false
}

// AutoTargets returns the worklist in insertion order.
func (s *Store) AutoTargets() []AutoTarget {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]AutoTarget, len(s.data.AutoTargets))
	copy(out, s.data.AutoTargets)
	return out
}

// --- daily reports ---

// EnsureReport makes sure the day has a report slot, so an empty run still
// shows up as a day with zero entries.
func (s *Store) EnsureReport(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.AutoReports[date]; !ok {
		s.data.AutoReports[date] = []ReportEntry{}
	}
}

func (s *Store) AppendReport(date string, entry ReportEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.AutoReports[date] = append(s.data.AutoReports[date], entry)
}

// Report returns a copy of one day's entries in append order.
func (s *Store) Report(date string) []ReportEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.data.AutoReports[date]
	out := make([]ReportEntry, len(entries))
	copy(out, entries)
	return out
}
