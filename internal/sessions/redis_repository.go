package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "blog:session:"

// RedisRepository keeps each refresh session in a hash at <prefix><refresh>.
// The key expires together with the session.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository returns a Redis session store. An empty prefix means "blog:session:".
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	key := r.prefix + s.RefreshToken
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key,
			"user", s.UserID,
			"userAgent", s.UserAgent,
			"createdAt", s.CreatedAt.Format(time.RFC3339Nano),
			"expiresAt", s.ExpiresAt.Format(time.RFC3339Nano),
		)
		p.ExpireAt(ctx, key, s.ExpiresAt)
		return nil
	})
	return err
}

func (r *RedisRepository) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+refresh).Result()
	if err != nil {
		return nil, err
	}
	s, ok := decodeSession(refresh, fields)
	if !ok {
		// unreadable record, drop it
		_ = r.client.Del(ctx, r.prefix+refresh).Err()
	}
	return s, nil
}

// Consume reads and deletes the hash in one MULTI/EXEC. Only the caller
// whose DEL removed the key owns the session.
func (r *RedisRepository) Consume(ctx context.Context, refresh string) (*Session, error) {
	key := r.prefix + refresh
	var get *redis.MapStringStringCmd
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		get = p.HGetAll(ctx, key)
		del = p.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if del.Val() != 1 {
		return nil, nil
	}
	s, _ := decodeSession(refresh, get.Val())
	return s, nil
}

func (r *RedisRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	return r.client.Del(ctx, r.prefix+refresh).Err()
}

// decodeSession builds a session from its hash fields. ok is false when the
// hash exists but cannot be read back.
func decodeSession(refresh string, fields map[string]string) (s *Session, ok bool) {
	if len(fields) == 0 {
		return nil, true
	}
	expires, err := time.Parse(time.RFC3339Nano, fields["expiresAt"])
	if err != nil {
		return nil, false
	}
	s = &Session{RefreshToken: refresh, UserID: fields["user"], UserAgent: fields["userAgent"], ExpiresAt: expires}
	s.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["createdAt"])
	return s, true
}
