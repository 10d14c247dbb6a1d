package errx

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound signals a session key that expired or never existed.
var ErrSessionNotFound = errors.New("session not found")

// WrapRedis maps Redis errors to the unified Error type.
func WrapRedis(err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return New(ErrSessionNotFound, KindUnexpected, RedisNotFoundMessage)
	}

	return New(err, KindUnexpected, RedisErrorMessage)
}
