// Package redis keeps background jobs single-flight across service instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "escrow:lease:"

// releaseScript deletes the lease only while it still belongs to the caller,
// so an expired lease taken over by another instance is left alone.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// JobLease implements ports.JobLease with SET NX PX.
type JobLease struct {
	client *goredis.Client
	owner  string
}

func NewJobLease(client *goredis.Client, owner string) *JobLease {
	return &JobLease{client: client, owner: owner}
}

func (l *JobLease) TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, fmt.Errorf("lease %s: ttl must be positive", name)
	}
	return l.client.SetNX(ctx, keyPrefix+name, l.owner, ttl).Result()
}

func (l *JobLease) Release(ctx context.Context, name string) error {
	err := releaseScript.Run(ctx, l.client, []string{keyPrefix + name}, l.owner).Err()
	if errors.Is(err, goredis.Nil) {
		return nil
	}
	return err
}

// Connect accepts either a redis:// URL or a host:port address and checks
// the server answers.
func Connect(ctx context.Context, address string) (*goredis.Client, error) {
	var client *goredis.Client
	if strings.HasPrefix(address, "redis://") || strings.HasPrefix(address, "rediss://") {
		opt, err := goredis.ParseURL(address)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = goredis.NewClient(opt)
	} else {
		client = goredis.NewClient(&goredis.Options{Addr: address})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
