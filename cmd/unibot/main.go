package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	unibot "github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/ai"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/detect"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/embcache"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/ingestion"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/normalize"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/search"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/storage"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/syncer"
)

func main() {
	// Optional .env for local development; absence is fine.
	godotenv.Load()

	app := &cli.App{
		Name:   "unibot",
		Usage:  "Incremental ingestion and synchronization for the university content index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Process one fetched page into the local store",
				Action: ingestCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Source URL of the page",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "File holding the raw page markup (stdin if omitted)",
					},
					&cli.IntFlag{
						Name:  "max-record-bytes",
						Usage: "Per-record byte ceiling that triggers chunking",
						Value: 16384,
					},
					&cli.StringSliceFlag{
						Name:  "volatile-marker",
						Usage: "Extra class/id fragment treated as volatile (repeatable)",
					},
				),
			},
			{
				Name:   "sync",
				Usage:  "Transfer the local store to the remote index in batches",
				Action: syncCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "remote",
						Usage:    "Remote index base URL",
						Required: true,
						EnvVars:  []string{"REMOTE_INDEX_URL"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Maximum records per batch",
						Value: 25,
					},
					&cli.IntFlag{
						Name:  "max-record-bytes",
						Usage: "Per-record byte ceiling enforced at transfer",
						Value: 16384,
					},
				},
			},
			{
				Name:   "verify",
				Usage:  "Check the remote index for missing batches",
				Action: verifyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "remote",
						Usage:    "Remote index base URL",
						Required: true,
						EnvVars:  []string{"REMOTE_INDEX_URL"},
					},
					&cli.IntFlag{
						Name:     "expected-max",
						Usage:    "Highest batch number the remote should hold",
						Required: true,
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Query the local store",
				Action: searchCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query text",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum results",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "scope",
						Usage: "Metadata scope filter as key=value",
					},
				),
			},
			{
				Name:  "cache",
				Usage: "Operate the persistent embedding cache",
				Subcommands: []*cli.Command{
					{
						Name:   "stats",
						Usage:  "Print entry counts for both cache mappings",
						Action: cacheStatsCommand,
						Flags:  []cli.Flag{snapshotFlag(true)},
					},
					{
						Name:   "clear",
						Usage:  "Discard all cached embeddings",
						Action: cacheClearCommand,
						Flags:  []cli.Flag{snapshotFlag(true)},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "Embedding service API token",
			Value:   "none",
			EnvVars: []string{"EMBEDDING_API_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "snapshot",
			Usage:   "Embedding cache snapshot file",
			EnvVars: []string{"EMBEDDING_CACHE_SNAPSHOT"},
		},
	}
}

func snapshotFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "snapshot",
		Usage:    "Embedding cache snapshot file",
		Required: required,
		EnvVars:  []string{"EMBEDDING_CACHE_SNAPSHOT"},
	}
}

func openStore(c *cli.Context) (*unibot.Store, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithToken(c.String("api-token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	opts := []unibot.StoreOption{unibot.WithAIConfig(aiConfig)}
	if snapshot := c.String("snapshot"); snapshot != "" {
		opts = append(opts, unibot.WithSnapshotPath(snapshot))
	}

	store, err := unibot.Open(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	raw, err := readMarkup(c.String("file"))
	if err != nil {
		return err
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	pipelineOpts := []ingestion.Option{
		ingestion.WithMaxRecordBytes(c.Int("max-record-bytes")),
	}
	if markers := c.StringSlice("volatile-marker"); len(markers) > 0 {
		normalizer := normalize.New(normalize.WithVolatileMarkers(
			append(normalize.DefaultVolatileMarkers, markers...)))
		pipelineOpts = append(pipelineOpts, ingestion.WithDetector(detect.New(normalizer)))
	}

	pipeline, err := store.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	result, err := pipeline.ProcessPage(ctx, c.String("url"), raw)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if !result.Changed {
		fmt.Fprintf(os.Stderr, "Unchanged: %s\n", result.URL)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Updated: %s (%d documents, chunked=%v, %d stale removed)\n",
		result.URL, len(result.DocumentIDs), result.Chunked, result.Deleted)
	return nil
}

func syncCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := unibot.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	docs, err := store.DocumentRepository().GetAllDocuments(ctx, storage.Filter{})
	if err != nil {
		return fmt.Errorf("failed to read documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to synchronize")
		return nil
	}

	remote := syncer.NewHTTPRemote(syncer.DefaultRemoteConfig(c.String("remote")))

	cfg := syncer.DefaultConfig()
	cfg.BatchSize = c.Int("batch-size")
	cfg.MaxRecordBytes = c.Int("max-record-bytes")

	s, err := store.NewSyncer(remote, syncer.WithConfig(cfg), syncer.WithProgress(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to create syncer: %w", err)
	}

	result := s.Synchronize(ctx, docs, cfg.BatchSize)

	fmt.Fprintf(os.Stderr, "Batches: %d succeeded, %d failed\n", result.Successes, result.Failures)
	for _, outcome := range result.Outcomes {
		if outcome.Status == syncer.Failure {
			fmt.Fprintf(os.Stderr, "  batch_%d: %v\n", outcome.BatchNumber, outcome.Err)
		}
	}

	if result.Failures > 0 {
		return fmt.Errorf("%d of %d batches failed", result.Failures, len(result.Outcomes))
	}
	return nil
}

func verifyCommand(c *cli.Context) error {
	ctx := context.Background()

	remote := syncer.NewHTTPRemote(syncer.DefaultRemoteConfig(c.String("remote")))

	s, err := syncer.New(remote)
	if err != nil {
		return err
	}

	missing, err := s.MissingBatches(ctx, c.Int("expected-max"))
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if len(missing) == 0 {
		fmt.Fprintf(os.Stderr, "Remote index is contiguous through batch_%d\n", c.Int("expected-max"))
		return nil
	}

	fmt.Fprintf(os.Stderr, "Missing batches: %v\n", missing)
	return fmt.Errorf("%d batches missing from remote index", len(missing))
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	searcher, err := store.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	opts := search.Options{Limit: c.Int("limit")}
	if scope := c.String("scope"); scope != "" {
		key, value, ok := strings.Cut(scope, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid scope %q: expected key=value", scope)
		}
		opts.ScopeKey, opts.ScopeValue = key, value
	}

	results, err := searcher.Search(ctx, c.String("query"), opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%2d. [%.3f] %s\n", i+1, result.Score, result.Document.ID)
		if url := result.Document.Metadata["source_url"]; url != "" {
			fmt.Printf("    %s\n", url)
		}
		fmt.Printf("    %s\n", excerpt(result.Document.Text, 160))
	}
	return nil
}

func cacheStatsCommand(c *cli.Context) error {
	cache := embcache.New(nil, embcache.WithSnapshotPath(c.String("snapshot")))
	if err := cache.Load(); err != nil {
		return err
	}

	queries, documents := cache.Stats()
	fmt.Printf("Query embeddings:    %d\n", queries)
	fmt.Printf("Document embeddings: %d\n", documents)
	return nil
}

func cacheClearCommand(c *cli.Context) error {
	cache := embcache.New(nil, embcache.WithSnapshotPath(c.String("snapshot")))
	if err := cache.Load(); err != nil {
		return err
	}

	queries, documents := cache.Stats()
	cache.Clear()
	if err := cache.Persist(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Cleared %d query and %d document embeddings\n", queries, documents)
	return nil
}

func readMarkup(path string) (string, error) {
	if path == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(raw), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(raw), nil
}

func excerpt(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
