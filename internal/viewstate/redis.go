package viewstate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"eventdesk/internal/filters"
	"eventdesk/internal/remote"
	"eventdesk/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

const (
	fieldDraft       = "draft"
	fieldActive      = "active"
	fieldEvents      = "events"
	fieldTicket      = "ticket"
	fieldRefreshedAt = "refreshed_at"
)

// commitScript writes the listing only while the caller's ticket is still
// the latest one issued for the session.
var commitScript = redis.NewScript(`
	local latest = redis.call('GET', KEYS[1])
	if latest ~= ARGV[1] then
		return 0
	end

	redis.call('HSET', KEYS[2], 'events', ARGV[2], 'ticket', ARGV[1], 'refreshed_at', ARGV[3])
	redis.call('EXPIRE', KEYS[2], ARGV[4])
	redis.call('EXPIRE', KEYS[1], ARGV[4])
	return 1
`)

// RedisStore keeps view state in a Redis hash per session, with the ticket
// counter in a sibling key.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = constants.TTL_VIEW_STATE
	}
	return &RedisStore{client: client, ttl: ttl}
}

// PreloadScripts loads the commit script so the first commit avoids a
// NOSCRIPT round trip.
func (r *RedisStore) PreloadScripts(ctx context.Context) error {
	return commitScript.Load(ctx, r.client).Err()
}

func (r *RedisStore) Load(ctx context.Context, key string) (State, error) {
	if key == "" {
		return State{}, ErrEmptyKey
	}
	fields, err := r.client.HGetAll(ctx, constants.BuildViewStateKey(key)).Result()
	if err != nil {
		return State{}, fmt.Errorf("load view state: %w", err)
	}

	var st State
	if err := decodeField(fields, fieldDraft, &st.Draft); err != nil {
		return State{}, err
	}
	if err := decodeField(fields, fieldActive, &st.Active); err != nil {
		return State{}, err
	}
	if err := decodeField(fields, fieldEvents, &st.Events); err != nil {
		return State{}, err
	}
	if raw := fields[fieldTicket]; raw != "" {
		ticket, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return State{}, fmt.Errorf("decode view state %s: %w", fieldTicket, err)
		}
		st.Ticket = ticket
	}
	if raw := fields[fieldRefreshedAt]; raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return State{}, fmt.Errorf("decode view state %s: %w", fieldRefreshedAt, err)
		}
		st.RefreshedAt = at
	}
	return st, nil
}

func (r *RedisStore) SaveDraft(ctx context.Context, key string, draft filters.Input) error {
	if key == "" {
		return ErrEmptyKey
	}
	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return r.write(ctx, key, false, fieldDraft, string(draftJSON))
}

func (r *RedisStore) SaveFilters(ctx context.Context, key string, draft filters.Input, active filters.Active) error {
	if key == "" {
		return ErrEmptyKey
	}
	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	activeJSON, err := json.Marshal(active)
	if err != nil {
		return fmt.Errorf("encode active filter: %w", err)
	}
	return r.write(ctx, key, true, fieldDraft, string(draftJSON), fieldActive, string(activeJSON))
}

// write stores hash fields, bumping the ticket in the same transaction when
// supersede is set.
func (r *RedisStore) write(ctx context.Context, key string, supersede bool, values ...interface{}) error {
	stateKey := constants.BuildViewStateKey(key)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, stateKey, values...)
	pipe.Expire(ctx, stateKey, r.ttl)
	if supersede {
		ticketKey := constants.BuildViewTicketKey(key)
		pipe.Incr(ctx, ticketKey)
		pipe.Expire(ctx, ticketKey, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save view state: %w", err)
	}
	return nil
}

func (r *RedisStore) Begin(ctx context.Context, key string) (uint64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}
	ticketKey := constants.BuildViewTicketKey(key)
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, ticketKey)
	pipe.Expire(ctx, ticketKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("issue listing ticket: %w", err)
	}
	return uint64(incr.Val()), nil
}

func (r *RedisStore) Commit(ctx context.Context, key string, ticket uint64, events []remote.Event) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return false, fmt.Errorf("encode events: %w", err)
	}

	res, err := commitScript.Run(ctx, r.client,
		[]string{constants.BuildViewTicketKey(key), constants.BuildViewStateKey(key)},
		strconv.FormatUint(ticket, 10),
		string(eventsJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
		int(r.ttl.Seconds()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("commit listing: %w", err)
	}
	return res == 1, nil
}

func (r *RedisStore) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, constants.BuildViewStateKey(key), constants.BuildViewTicketKey(key)).Err(); err != nil {
		return fmt.Errorf("clear view state: %w", err)
	}
	return nil
}

func decodeField(fields map[string]string, name string, dest interface{}) error {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode view state %s: %w", name, err)
	}
	return nil
}
