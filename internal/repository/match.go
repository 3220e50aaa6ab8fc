package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	recentMatchesKey   = "matches:recent"
	recentMatchesLimit = 100
)

var ErrMatchNotFound = errors.New("match not found")

// AgentStats - results of all stored matches played by one agent.
type AgentStats struct {
	Wins   int `json:"wins" redis:"wins"`
	Losses int `json:"losses" redis:"losses"`
	Draws  int `json:"draws" redis:"draws"`
}

type MatchRepository interface {
	Save(ctx context.Context, record *entity.MatchRecord) error
	GetByID(ctx context.Context, id string) (*entity.MatchRecord, error)
	Recent(ctx context.Context, limit int) ([]*entity.MatchRecord, error)
	Stats(ctx context.Context, agentName string) (AgentStats, error)
}

type dbMatch struct {
	client *redis.Client
}

func NewMatchRepository(client *redis.Client) MatchRepository {
	return &dbMatch{
		client: client,
	}
}

// Save stores the record, pushes it on the recent list and updates both
// participants' counters in one transaction.
func (that *dbMatch) Save(ctx context.Context, record *entity.MatchRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, matchKey(record.ID), recordJSON, 0)
		pipe.LPush(ctx, recentMatchesKey, record.ID)
		pipe.LTrim(ctx, recentMatchesKey, 0, recentMatchesLimit-1)

		switch record.Winner {
		case entity.Black:
			pipe.HIncrBy(ctx, statsKey(record.Black), "wins", 1)
			pipe.HIncrBy(ctx, statsKey(record.White), "losses", 1)
		case entity.White:
			pipe.HIncrBy(ctx, statsKey(record.White), "wins", 1)
			pipe.HIncrBy(ctx, statsKey(record.Black), "losses", 1)
		default:
			pipe.HIncrBy(ctx, statsKey(record.Black), "draws", 1)
			pipe.HIncrBy(ctx, statsKey(record.White), "draws", 1)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (*entity.MatchRecord, error) {
	response, err := that.client.Get(ctx, matchKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrMatchNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	var record entity.MatchRecord
	if err = json.Unmarshal([]byte(response), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &record, nil
}

// Recent returns up to limit records, newest first. Records that expired from
// storage are skipped.
func (that *dbMatch) Recent(ctx context.Context, limit int) ([]*entity.MatchRecord, error) {
	if limit <= 0 || limit > recentMatchesLimit {
		limit = recentMatchesLimit
	}

	ids, err := that.client.LRange(ctx, recentMatchesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}

	records := make([]*entity.MatchRecord, 0, len(ids))
	for _, id := range ids {
		record, err := that.GetByID(ctx, id)
		if errors.Is(err, ErrMatchNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

func (that *dbMatch) Stats(ctx context.Context, agentName string) (AgentStats, error) {
	var stats AgentStats

	if err := that.client.HGetAll(ctx, statsKey(agentName)).Scan(&stats); err != nil {
		return AgentStats{}, fmt.Errorf("failed to get stats for %s: %w", agentName, err)
	}

	return stats, nil
}

func matchKey(id string) string {
	return "match:" + id
}

func statsKey(agentName string) string {
	return "stats:" + agentName
}
