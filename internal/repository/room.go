package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/entity"
)

const roomKeyPrefix = "room:"

// RoomDirectory mirrors room summaries into Redis so operational surfaces
// (the REST listing, external dashboards) can read them without touching the
// in-memory registry. The registry stays authoritative; the mirror is
// refreshed on every membership change.
type RoomDirectory interface {
	Upsert(ctx context.Context, summary entity.Summary) error
	ListJoinable(ctx context.Context) ([]entity.Summary, error)
}

type dbRoomDirectory struct {
	client *redis.Client
}

func NewRoomDirectory(client *redis.Client) RoomDirectory {
	return &dbRoomDirectory{
		client: client,
	}
}

func (that *dbRoomDirectory) Upsert(ctx context.Context, summary entity.Summary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("could not marshal room summary: %w", err)
	}

	roomKey := roomKeyPrefix + summary.ID
	if err = that.client.Set(ctx, roomKey, summaryJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set room summary: %w", err)
	}

	return nil
}

func (that *dbRoomDirectory) ListJoinable(ctx context.Context) ([]entity.Summary, error) {
	var summaries []entity.Summary

	iter := that.client.Scan(ctx, 0, roomKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		response, err := that.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get room summary: %w", err)
		}

		var summary entity.Summary
		if err = json.Unmarshal([]byte(response), &summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal room summary: %w", err)
		}

		if summary.PlayersCount < entity.MaxPlayers {
			summaries = append(summaries, summary)
		}
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan room summaries: %w", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})

	return summaries, nil
}
