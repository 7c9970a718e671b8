package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hansard/internal/config"
	"github.com/kailas-cloud/hansard/internal/db"
	dbRedis "github.com/kailas-cloud/hansard/internal/db/redis"
	"github.com/kailas-cloud/hansard/internal/domain"
	logpkg "github.com/kailas-cloud/hansard/internal/logger"
	speechrepo "github.com/kailas-cloud/hansard/internal/repository/speech"
)

// maxLineBytes bounds a single NDJSON line; speeches can run long.
const maxLineBytes = 4 << 20

func main() {
	var (
		filePath  = flag.String("file", "", "NDJSON file with one speech per line")
		batchSize = flag.Int("batch", 500, "documents per pipelined write")
		reindex   = flag.Bool("reindex", false, "drop and recreate the search index first")
	)
	flag.Parse()

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if *filePath == "" {
		logger.Fatal("-file is required")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	if err := ensureIndex(ctx, store, *reindex, logger); err != nil {
		logger.Fatal("Failed to prepare index", zap.Error(err))
	}

	loaded, err := loadFile(ctx, store, *filePath, *batchSize, logger)
	if err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}

	logger.Info("Load complete", zap.Int("speeches", loaded))
}

// speechIndex is the full-text index schema over speech hashes.
func speechIndex() *db.IndexDefinition {
	return db.NewIndex(speechrepo.IndexName).
		Prefix(domain.SpeechKeyPrefix).
		Text(domain.FieldText).
		Tag(domain.FieldTranscript).
		Tag(domain.FieldSession).
		Tag(domain.FieldSpeaker).
		Tag(domain.FieldParty).
		Tag(domain.FieldMember).
		NumericSortable(domain.FieldOrder).
		NumericSortable(domain.FieldTime).
		MustBuild()
}

func ensureIndex(ctx context.Context, store *dbRedis.Store, reindex bool, logger *zap.Logger) error {
	if reindex {
		if err := store.DropIndex(ctx, speechrepo.IndexName); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop index: %w", err)
		}
	}

	err := store.CreateIndex(ctx, speechIndex())
	switch {
	case errors.Is(err, db.ErrIndexExists):
		logger.Info("Index already exists", zap.String("index", speechrepo.IndexName))
		return nil
	case err != nil:
		return fmt.Errorf("create index: %w", err)
	}

	logger.Info("Index created", zap.String("index", speechrepo.IndexName))
	return nil
}

func loadFile(ctx context.Context, store *dbRedis.Store, path string, batchSize int, logger *zap.Logger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var batch []db.HashSetItem
	loaded := 0
	line := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.HSetMulti(ctx, batch); err != nil {
			return fmt.Errorf("write batch ending at line %d: %w", line, err)
		}
		loaded += len(batch)
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var sp domain.Speech
		if err := json.Unmarshal(raw, &sp); err != nil {
			logger.Warn("Skipping malformed line", zap.Int("line", line), zap.Error(err))
			continue
		}
		if sp.ID == "" {
			logger.Warn("Skipping speech without id", zap.Int("line", line))
			continue
		}

		batch = append(batch, db.HashSetItem{Key: sp.Key(), Fields: sp.ToFields()})
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return loaded, err
			}
			logger.Info("Progress", zap.Int("speeches", loaded))
		}
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("read %s: %w", path, err)
	}

	if err := flush(); err != nil {
		return loaded, err
	}
	return loaded, nil
}
