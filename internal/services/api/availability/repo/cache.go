package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"scheduling/internal/core/availability"
	"scheduling/internal/modkit/repokit"
	"scheduling/internal/platform/logger"
	"scheduling/internal/platform/store"
	"scheduling/internal/services/api/availability/domain"
)

// HoursKey is the redis key of the cached business hours table
const HoursKey = "availability:hours"

func meetingIDKey(id uuid.UUID) string { return "availability:meeting_type:id:" + id.String() }
func meetingSlugKey(s string) string   { return "availability:meeting_type:slug:" + s }

// NewCached wraps inner so meeting types and business hours read through redis
// busy intervals always go to inner; redis errors are logged and fall through
func NewCached(inner repokit.Binder[Repo], rds store.Redis, ttl time.Duration, log logger.Logger) repokit.Binder[Repo] {
	return cachedBinder{inner: inner, rds: rds, ttl: ttl, log: log}
}

type cachedBinder struct {
	inner repokit.Binder[Repo]
	rds   store.Redis
	ttl   time.Duration
	log   logger.Logger
}

func (b cachedBinder) Bind(q repokit.Queryer) Repo {
	return &cached{inner: b.inner.Bind(q), rds: b.rds, ttl: b.ttl, log: b.log}
}

type cached struct {
	inner Repo
	rds   store.Redis
	ttl   time.Duration
	log   logger.Logger
}

func (c *cached) MeetingTypeByID(ctx context.Context, id uuid.UUID) (domain.MeetingType, error) {
	return readThrough(ctx, c, meetingIDKey(id), func() (domain.MeetingType, error) {
		return c.inner.MeetingTypeByID(ctx, id)
	})
}

func (c *cached) MeetingTypeBySlug(ctx context.Context, slug string) (domain.MeetingType, error) {
	return readThrough(ctx, c, meetingSlugKey(slug), func() (domain.MeetingType, error) {
		return c.inner.MeetingTypeBySlug(ctx, slug)
	})
}

func (c *cached) BusinessHours(ctx context.Context) ([]domain.HoursRow, error) {
	return readThrough(ctx, c, HoursKey, func() ([]domain.HoursRow, error) {
		return c.inner.BusinessHours(ctx)
	})
}

func (c *cached) Busy(ctx context.Context, from, to time.Time) ([]availability.Interval, error) {
	return c.inner.Busy(ctx, from, to)
}

// readThrough serves key from redis or loads and stores it; load errors are never cached
func readThrough[T any](ctx context.Context, c *cached, key string, load func() (T, error)) (T, error) {
	raw, ok, err := c.rds.Get(ctx, key)
	switch {
	case err != nil:
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	case ok:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		c.log.Warn().Str("key", key).Msg("cache entry undecodable, reloading")
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if b, err := json.Marshal(v); err == nil {
		if err := c.rds.Set(ctx, key, b, c.ttl); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return v, nil
}

// Invalidate drops the cached hours table and the given meeting types
func Invalidate(ctx context.Context, rds store.Redis, types ...domain.MeetingType) error {
	keys := []string{HoursKey}
	for _, m := range types {
		keys = append(keys, meetingIDKey(m.ID), meetingSlugKey(m.Slug))
	}
	return rds.Del(ctx, keys...)
}
