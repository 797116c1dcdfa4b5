// Package suite runs repository tests against a disposable redis container.
package suite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	redisImage = "redis"
	redisTag   = "alpine"
	redisPort  = "6379/tcp"

	containerTTL = 2 * time.Minute
	startTimeout = 2 * time.Minute
)

type Suite struct {
	*testing.T

	Storage *redis.Client
}

// New hands out an empty redis database. The test is skipped when docker
// cannot be reached.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	pool.MaxWait = startTimeout

	container, err := pool.RunWithOptions(&dockertest.RunOptions{Repository: redisImage, Tag: redisTag}, func(host *docker.HostConfig) {
		host.AutoRemove = true
		host.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(container); err != nil {
			t.Errorf("could not remove redis container: %v", err)
		}
	})

	// the container outlives a crashed test binary by containerTTL at most
	_ = container.Expire(uint(containerTTL.Seconds()))

	client, err := connect(ctx, pool, container.GetHostPort(redisPort))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return ctx, &Suite{T: t, Storage: client}
}

func connect(ctx context.Context, pool *dockertest.Pool, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := pool.Retry(func() error { return client.Ping(ctx).Err() }); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not flush redis: %w", err)
	}

	return client, nil
}
