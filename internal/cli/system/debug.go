package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/storage"
)

type DebugCmd struct {
	DBPath          DebugDBPathCmd          `cmd:"" help:"Print the local database path." name:"db-path"`
	DumpCache       DebugDumpCacheCmd       `cmd:"" help:"Dump a cached API response as JSON." name:"dump-cache"`
	DumpSubmissions DebugDumpSubmissionsCmd `cmd:"" help:"Dump recent habit submissions as JSON." name:"dump-submissions"`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return writeJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpCacheCmd struct {
	Key string `arg:"" help:"Cache key, e.g. meals or meals/<id>."`
}

type cacheDump struct {
	Key       string          `json:"key"`
	Tag       string          `json:"tag"`
	FetchedAt time.Time       `json:"fetchedAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Expired   bool            `json:"expired"`
	Payload   json.RawMessage `json:"payload"`
}

func (cmd *DebugDumpCacheCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.GetCacheEntry(cmd.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no cache entry for key: %s", cmd.Key)
		}
		return fmt.Errorf("failed to get cache entry: %w", err)
	}

	payload := json.RawMessage(entry.Payload)
	if !json.Valid(payload) {
		payload, _ = json.Marshal(string(entry.Payload))
	}
	return writeJSON(ctx, cacheDump{
		Key:       entry.Key,
		Tag:       entry.Tag,
		FetchedAt: entry.FetchedAt,
		ExpiresAt: entry.ExpiresAt,
		Expired:   entry.Expired(time.Now()),
		Payload:   payload,
	})
}

type DebugDumpSubmissionsCmd struct {
	Limit int `help:"Maximum number of submissions to dump." default:"20"`
}

func (cmd *DebugDumpSubmissionsCmd) Run(ctx *cli.Context) error {
	if cmd.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", cmd.Limit)
	}
	subs, err := ctx.Store.ListSubmissions(cmd.Limit)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}
	if subs == nil {
		subs = []storage.Submission{}
	}
	return writeJSON(ctx, subs)
}

func writeJSON(ctx *cli.Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
