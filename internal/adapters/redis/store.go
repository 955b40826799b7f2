// Package redis implements ports.StateStore on Redis with compare-and-set
// saves, so concurrent writers racing on the same record get a stale-state
// report instead of a silent overwrite.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/fsmkit/fsmkit/pkg/domain"
)

// casScript writes ARGV[2] iff the key still holds ARGV[1]. A missing key
// is treated as holding the empty string so first writes pass from="".
var casScript = backend.NewScript(`
local state = redis.call("GET", KEYS[1])
if state == false then
	state = ""
end
if state == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2])
	if tonumber(ARGV[3]) > 0 then
		redis.call("PEXPIRE", KEYS[1], ARGV[3])
	end
	return 1
end
return 0
`)

// Store implements ports.StateStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration for stored states.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix sets the key prefix for stored states.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "fsmkit:state:",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// Load reads the stored state for id. A missing key loads as the empty
// state, mirroring the empty-from convention of Save.
func (s *Store) Load(ctx context.Context, id string) (domain.State, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, backend.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis load %q: %w", id, err)
	}
	return domain.State(val), nil
}

// Save writes to for id iff the stored state still equals from. A diverged
// stored state reports domain.ErrStaleState.
func (s *Store) Save(ctx context.Context, id string, from, to domain.State) error {
	ok, err := casScript.Run(ctx, s.client,
		[]string{s.key(id)},
		string(from), string(to), s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("redis save %q: %w", id, err)
	}
	if ok != 1 {
		return fmt.Errorf("save %q: %w", id, domain.ErrStaleState)
	}
	return nil
}
