package quota

import (
	"errors"
	"fmt"
	"time"

	"github.com/mahiofficial1332/Em-like-bot/internal/domain/rules"
	"github.com/mahiofficial1332/Em-like-bot/internal/repo/jsonstore"
)

var ErrStoreNil = errors.New("quota store is not configured")

// Store is the slice of the persistent state the tracker needs.
type Store interface {
	UserLimit(userID string) (int, bool)
	MaxRoleLimit(roleIDs []string) (int, bool)
	Usage(userID string) (jsonstore.UsageRecord, bool)
	SetUsage(userID string, rec jsonstore.UsageRecord)
	Save() error
}

// Service computes daily allowances and tracks consumption. It only does
// bookkeeping; admission ("used < limit") is the caller's decision.
type Service struct {
	store        Store
	defaultLimit int
	now          func() time.Time
}

func NewService(store Store, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = rules.DefaultDailyLimit
	}
	return &Service{
		store:        store,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// DailyLimit resolves a user's allowance: explicit override first, then the
// highest matching role limit, then the default.
func (s *Service) DailyLimit(userID string, roleIDs []string) (int, error) {
	if s.store == nil {
		return 0, ErrStoreNil
	}

	if limit, ok := s.store.UserLimit(userID); ok {
		return limit, nil
	}
	if limit, ok := s.store.MaxRoleLimit(roleIDs); ok {
		return limit, nil
	}
	return s.defaultLimit, nil
}

// UsedToday returns the user's consumption for the current calendar day.
// A record from an earlier day is normalized to today/0 in place, so the
// stored state never carries a stale date past its first read.
func (s *Service) UsedToday(userID string) (int, error) {
	if s.store == nil {
		return 0, ErrStoreNil
	}

	today := rules.DayKey(s.now())
	rec, ok := s.store.Usage(userID)
	if !ok || rec.Date != today {
		s.store.SetUsage(userID, jsonstore.UsageRecord{Date: today, Count: 0})
		return 0, nil
	}
	return rec.Count, nil
}

// RecordUsage counts one successful submission and persists the store.
func (s *Service) RecordUsage(userID string) error {
	if s.store == nil {
		return ErrStoreNil
	}

	today := rules.DayKey(s.now())
	rec, ok := s.store.Usage(userID)
	if !ok || rec.Date != today {
		rec = jsonstore.UsageRecord{Date: today, Count: 1}
	} else {
		rec.Count++
	}
	s.store.SetUsage(userID, rec)

	if err := s.store.Save(); err != nil {
		return fmt.Errorf("persist usage: %w", err)
	}
	return nil
}
