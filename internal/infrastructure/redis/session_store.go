package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/ecolend-api/internal/application/ports"
)

// Client subconjunto de *redis.Client que usa el almacén.
type Client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
}

// SessionStore marca usuarios cuyos tokens deben rechazarse.
// La marca expira con la vida del JWT: pasado ese tiempo ningún token previo sigue vigente.
type SessionStore struct {
	rdb Client
	ttl time.Duration
}

func NewSessionStore(rdb Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// NewClient abre el cliente y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func revokedKey(userID string) string { return fmt.Sprintf("ecolend:revoked:%s", userID) }

func (s *SessionStore) Revoke(ctx context.Context, userID string) error {
	return s.rdb.Set(ctx, revokedKey(userID), time.Now().UTC().Unix(), s.ttl).Err()
}

func (s *SessionStore) Restore(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, revokedKey(userID)).Err()
}

func (s *SessionStore) IsRevoked(ctx context.Context, userID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ ports.SessionRevoker = (*SessionStore)(nil)
