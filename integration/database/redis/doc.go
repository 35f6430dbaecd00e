// Package redis provides Redis client initialization and health checking.
//
// Connect validates the connection URL, retries the initial ping with a
// growing interval and returns a ready client:
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL: "redis://localhost:6379/0",
//		RetryAttempts: 3,
//		RetryInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck returns a function suitable for readiness probes.
//
// Both redis:// and rediss:// (TLS) URLs are accepted.
package redis
