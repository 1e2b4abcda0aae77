package lease

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

var releaseScript = rueidis.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisManager holds the lease as a key with an expiry so a crashed holder
// cannot block the other instances for longer than ttl.
type RedisManager struct {
	client rueidis.Client
	key    string
	owner  string
	ttl    time.Duration
}

func NewRedisManager(client rueidis.Client, key string, ttl time.Duration) *RedisManager {
	return &RedisManager{
		client: client,
		key:    key,
		owner:  uuid.NewString(),
		ttl:    ttl,
	}
}

func (r *RedisManager) Acquire(ctx context.Context) (bool, error) {
	cmd := r.client.B().Set().Key(r.key).Value(r.owner).Nx().PxMilliseconds(r.ttl.Milliseconds()).Build()
	result := r.client.Do(ctx, cmd)

	if err := result.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r *RedisManager) Release(ctx context.Context) error {
	return releaseScript.Exec(ctx, r.client, []string{r.key}, []string{r.owner}).Error()
}
