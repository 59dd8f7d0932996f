package lock

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Redis implementa o lock por chave entre instâncias: SETNX com token e
// compare-and-delete na liberação, TTL curto como rede de segurança
// contra processo morto segurando a chave.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		ttl:    10 * time.Second,
		retry:  50 * time.Millisecond,
	}
}

// compare-and-delete: só apaga se o token ainda é nosso
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.retry):
		}
	}

	release := func() {
		if err := releaseScript.Run(context.Background(), r.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			log.Println("lock release error:", err)
		}
	}

	return release, nil
}

var _ Keyed = (*Redis)(nil)
