package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"securevote/internal/authflow/models"
	"securevote/internal/platform/redis"
	id "securevote/pkg/domain"
	"securevote/pkg/platform/sentinel"
)

// RedisStore shares challenges across instances. The session TTL bounds the
// whole authentication attempt; passcode expiry inside that window is
// enforced by the service, not by the key TTL, so the biometric-verified
// fallback survives an expired code.
type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewRedis(client *redis.Client, sessionTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, sessionTTL: sessionTTL}
}

type challengeRecord struct {
	Handle       string    `json:"handle"`
	Stage        string    `json:"stage"`
	Code         string    `json:"code,omitempty"`
	CodeIssuedAt time.Time `json:"code_issued_at,omitempty"`
	StartedAt    time.Time `json:"started_at"`
}

func challengeKey(handle id.VoterHandle) string { return "authflow:challenge:" + handle.String() }

func (s *RedisStore) Put(ctx context.Context, challenge *models.Challenge) error {
	payload, err := json.Marshal(challengeRecord{
		Handle:       challenge.Handle.String(),
		Stage:        string(challenge.Stage),
		Code:         challenge.Code,
		CodeIssuedAt: challenge.CodeIssuedAt,
		StartedAt:    challenge.StartedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	if err := s.client.Set(ctx, challengeKey(challenge.Handle), payload, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, handle id.VoterHandle) (*models.Challenge, error) {
	raw, err := s.client.Get(ctx, challengeKey(handle)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	var record challengeRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}
	return &models.Challenge{
		Handle:       id.VoterHandle(record.Handle),
		Stage:        models.Stage(record.Stage),
		Code:         record.Code,
		CodeIssuedAt: record.CodeIssuedAt,
		StartedAt:    record.StartedAt,
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, handle id.VoterHandle) error {
	if err := s.client.Del(ctx, challengeKey(handle)).Err(); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}
