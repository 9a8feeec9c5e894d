package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauth_state:"

// DefaultStateTTL bounds how long a pending consent flow stays valid.
const DefaultStateTTL = 10 * time.Minute

// SaveOAuthState stores an anti-forgery state value for a pending OAuth
// redirect. The value expires after ttl.
func (c *Cache) SaveOAuthState(ctx context.Context, state string, ttl time.Duration) error {
	if state == "" {
		return errors.New("oauth state must not be empty")
	}

	key := stateKeyPrefix + state
	if err := c.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}

	return nil
}

// ConsumeOAuthState atomically checks and deletes a state value.
// Returns true only the first time a previously saved state is presented,
// so a replayed callback fails validation.
func (c *Cache) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}

	key := stateKeyPrefix + state
	err := c.client.GetDel(ctx, key).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume oauth state: %w", err)
	}

	return true, nil
}
