package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlotLock serializes the availability-check-then-write sequence for one
// (facility, space) pair across instances. Without it two concurrent
// bookings for the same slot can both pass the overlap check.
type SlotLock struct {
	client *redis.Client
}

func NewSlotLock(client *redis.Client) *SlotLock {
	return &SlotLock{client: client}
}

func slotKey(facilityID int64, spaceID string) string {
	if spaceID == "" {
		return fmt.Sprintf("lock:facility:%d", facilityID)
	}
	return fmt.Sprintf("lock:facility:%d:space:%s", facilityID, spaceID)
}

// Acquire takes the slot lock. Returns false when another request holds it.
func (l *SlotLock) Acquire(ctx context.Context, facilityID int64, spaceID string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, slotKey(facilityID, spaceID), "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Release drops the slot lock.
func (l *SlotLock) Release(ctx context.Context, facilityID int64, spaceID string) error {
	return l.client.Del(ctx, slotKey(facilityID, spaceID)).Err()
}
