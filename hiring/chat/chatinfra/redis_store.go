package chatinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clarify-hr/clarify/hiring/chat"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL matches the idle lifetime of a clarification session.
const DefaultSessionTTL = 6 * time.Hour

// RedisSessionStore implements chat.SessionStore on Redis. Each session
// owns three keys:
//
//	session:{id}:state    - JSON session state
//	session:{id}:messages - list of JSON history entries
//	session:{id}:channel  - pub/sub channel for outbound frames
//
// Every write refreshes the TTL on the session's keys.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) chat.SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func stateKey(id kernel.SessionID) string {
	return fmt.Sprintf("session:%s:state", id)
}

func messagesKey(id kernel.SessionID) string {
	return fmt.Sprintf("session:%s:messages", id)
}

func channelKey(id kernel.SessionID) string {
	return fmt.Sprintf("session:%s:channel", id)
}

// SaveState writes the session state and refreshes its TTL
func (s *RedisSessionStore) SaveState(ctx context.Context, state *chat.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state %s: %w", state.SessionID, err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, stateKey(state.SessionID), data, s.ttl)
	pipe.Expire(ctx, messagesKey(state.SessionID), s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session state %s: %w", state.SessionID, err)
	}

	return nil
}

// LoadState reads the session state; a missing session yields
// chat.ErrSessionNotFound
func (s *RedisSessionStore) LoadState(ctx context.Context, id kernel.SessionID) (*chat.SessionState, error) {
	data, err := s.client.Get(ctx, stateKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, chat.ErrSessionNotFound().WithDetail("session_id", id.String())
		}
		return nil, fmt.Errorf("load session state %s: %w", id, err)
	}

	var state chat.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session state %s: %w", id, err)
	}

	return &state, nil
}

// AppendMessage appends one turn to the session's history list
func (s *RedisSessionStore) AppendMessage(ctx context.Context, id kernel.SessionID, msg chat.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message for session %s: %w", id, err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, messagesKey(id), data)
	pipe.Expire(ctx, messagesKey(id), s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append message for session %s: %w", id, err)
	}

	return nil
}

// Messages returns the session's full history list
func (s *RedisSessionStore) Messages(ctx context.Context, id kernel.SessionID) ([]chat.Message, error) {
	raw, err := s.client.LRange(ctx, messagesKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read messages for session %s: %w", id, err)
	}

	messages := make([]chat.Message, 0, len(raw))
	for _, item := range raw {
		var msg chat.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal message for session %s: %w", id, err)
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// Publish broadcasts a payload to the session's channel
func (s *RedisSessionStore) Publish(ctx context.Context, id kernel.SessionID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for session %s: %w", id, err)
	}

	if err := s.client.Publish(ctx, channelKey(id), data).Err(); err != nil {
		return fmt.Errorf("publish to session %s: %w", id, err)
	}

	return nil
}

// Subscribe delivers raw published payloads until the returned cancel
// func is called or the context ends
func (s *RedisSessionStore) Subscribe(ctx context.Context, id kernel.SessionID) (<-chan []byte, func() error, error) {
	sub := s.client.Subscribe(ctx, channelKey(id))

	// Force the subscription to be established before returning
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, fmt.Errorf("subscribe to session %s: %w", id, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, sub.Close, nil
}

// Delete releases all keys for the session
func (s *RedisSessionStore) Delete(ctx context.Context, id kernel.SessionID) error {
	if err := s.client.Del(ctx, stateKey(id), messagesKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	return nil
}
