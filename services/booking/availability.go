package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"shortlet/models"
	"shortlet/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const availabilityCacheTTL = 5 * time.Minute

// IsRangeFree reports whether the inclusive [checkIn, checkOut] range is free
// of blocking bookings and administrative holds. The overlap test is the
// symmetric three-clause interval check: either range containing the other's
// endpoint, or fully containing the other, counts as a conflict.
func (s *DefaultBookingService) IsRangeFree(ctx context.Context, propertyID, checkIn, checkOut string) (bool, error) {
	overlap, err := s.Repo.HasOverlap(ctx, propertyID, checkIn, checkOut, "")
	if err != nil {
		return false, err
	}
	if overlap {
		return false, nil
	}

	holds, err := s.BlockedRepo.ListOverlapping(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(holds) == 0, nil
}

// UnavailableDates expands every blocking booking and hold into one entry per
// calendar day, checkIn through checkOut inclusive, deduplicated keeping the
// first occurrence. This is display data; conflict detection never uses it.
func (s *DefaultBookingService) UnavailableDates(ctx context.Context, propertyID, from, to string) ([]string, error) {
	cacheKey, cached := s.availabilityCacheGet(ctx, "dates", propertyID, from, to)
	if cached != nil {
		var days []string
		if err := json.Unmarshal(cached, &days); err == nil {
			return days, nil
		}
	}

	bookings, err := s.Repo.ListBlocking(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}
	holds, err := s.BlockedRepo.ListOverlapping(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var days []string
	add := func(start, end string) {
		for _, day := range expandDays(start, end) {
			// Bookings straddling the window boundary still only
			// contribute days inside it.
			if from != "" && day < from {
				continue
			}
			if to != "" && day > to {
				continue
			}
			if _, ok := seen[day]; ok {
				continue
			}
			seen[day] = struct{}{}
			days = append(days, day)
		}
	}
	for _, b := range bookings {
		add(b.CheckIn, b.CheckOut)
	}
	for _, h := range holds {
		add(h.Start, h.End)
	}

	s.availabilityCacheSet(ctx, cacheKey, days)
	return days, nil
}

// UnavailableRanges returns the blocked windows as ordered {start, end,
// status} entries.
func (s *DefaultBookingService) UnavailableRanges(ctx context.Context, propertyID, from, to string) ([]models.DateRange, error) {
	cacheKey, cached := s.availabilityCacheGet(ctx, "ranges", propertyID, from, to)
	if cached != nil {
		var ranges []models.DateRange
		if err := json.Unmarshal(cached, &ranges); err == nil {
			return ranges, nil
		}
	}

	bookings, err := s.Repo.ListBlocking(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}
	holds, err := s.BlockedRepo.ListOverlapping(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}

	ranges := make([]models.DateRange, 0, len(bookings)+len(holds))
	for _, b := range bookings {
		ranges = append(ranges, models.DateRange{Start: b.CheckIn, End: b.CheckOut, Status: string(b.Status)})
	}
	for _, h := range holds {
		ranges = append(ranges, models.DateRange{Start: h.Start, End: h.End, Status: "Blocked"})
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start == ranges[j].Start {
			return ranges[i].End < ranges[j].End
		}
		return ranges[i].Start < ranges[j].Start
	})

	s.availabilityCacheSet(ctx, cacheKey, ranges)
	return ranges, nil
}

// AddBlockedDates places an administrative hold. Start == End is a one-day
// hold; Start after End is rejected.
func (s *DefaultBookingService) AddBlockedDates(ctx context.Context, req BlockRequest, actor *Actor) (*models.Blocked, error) {
	if !actor.Admin() {
		return nil, utils.NewForbiddenError("only admins may block dates")
	}
	start, err := parseDate(req.Start)
	if err != nil {
		return nil, utils.NewValidationError("invalid start date")
	}
	end, err := parseDate(req.End)
	if err != nil {
		return nil, utils.NewValidationError("invalid end date")
	}
	if end.Before(start) {
		return nil, utils.NewValidationError("end date before start date")
	}
	if p, err := s.PropertyRepo.GetPropertyByID(ctx, req.PropertyID); err != nil {
		return nil, err
	} else if p == nil {
		return nil, utils.NewNotFoundError("property not found")
	}

	hold := &models.Blocked{
		ID:         uuid.New().String(),
		PropertyID: req.PropertyID,
		Start:      req.Start,
		End:        req.End,
		Reason:     req.Reason,
		CreatedBy:  actor.ID,
	}
	if err := s.BlockedRepo.Create(ctx, hold); err != nil {
		return nil, err
	}
	s.invalidateAvailability(ctx, req.PropertyID)
	return hold, nil
}

// RemoveBlockedDates lifts an administrative hold.
func (s *DefaultBookingService) RemoveBlockedDates(ctx context.Context, blockID string, actor *Actor) error {
	if !actor.Admin() {
		return utils.NewForbiddenError("only admins may unblock dates")
	}
	hold, err := s.BlockedRepo.Delete(ctx, blockID)
	if err != nil {
		return err
	}
	if hold == nil {
		return utils.NewNotFoundError("blocked entry not found")
	}
	s.invalidateAvailability(ctx, hold.PropertyID)
	return nil
}

// Availability cache: entries are keyed by a per-property generation counter,
// so a write only has to bump the counter to orphan every cached window.

func (s *DefaultBookingService) availabilityCacheGet(ctx context.Context, kind, propertyID, from, to string) (string, []byte) {
	if s.CacheClient == nil {
		return "", nil
	}
	ver, err := s.CacheClient.Get(ctx, "avail:ver:"+propertyID).Result()
	if err != nil {
		ver = "0"
	}
	key := fmt.Sprintf("avail:%s:%s:%s:%s:%s", kind, propertyID, ver, from, to)
	data, err := s.CacheClient.Get(ctx, key).Bytes()
	if err != nil {
		return key, nil
	}
	return key, data
}

func (s *DefaultBookingService) availabilityCacheSet(ctx context.Context, key string, v interface{}) {
	if s.CacheClient == nil || key == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.CacheClient.Set(ctx, key, data, availabilityCacheTTL).Err(); err != nil {
		utils.GetLogger().Debug("availability cache set failed", zap.Error(err))
	}
}

func (s *DefaultBookingService) invalidateAvailability(ctx context.Context, propertyID string) {
	if s.CacheClient == nil {
		return
	}
	if err := s.CacheClient.Incr(ctx, "avail:ver:"+propertyID).Err(); err != nil {
		utils.GetLogger().Debug("availability cache invalidation failed", zap.Error(err))
	}
}
