package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Chative-Music-Store-Support/agent/agents/orchestrator"
	"github.com/tanpawarit/Chative-Music-Store-Support/agent/agents/specialist"
	extractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/extract"
	llmx "github.com/tanpawarit/Chative-Music-Store-Support/agent/llm"
	memoryx "github.com/tanpawarit/Chative-Music-Store-Support/agent/memory"
	"github.com/tanpawarit/Chative-Music-Store-Support/agent/musicdb"
	statex "github.com/tanpawarit/Chative-Music-Store-Support/agent/state"
	configx "github.com/tanpawarit/Chative-Music-Store-Support/pkg/config"
	logx "github.com/tanpawarit/Chative-Music-Store-Support/pkg/logger"
)

type AppConfig struct {
	ThreadStore     string `envconfig:"THREAD_STORE" default:"memory"`
	ProfileStore    string `envconfig:"PROFILE_STORE" default:"memory"`
	Extractor       string `envconfig:"EXTRACTOR" default:"eino"`
	MaxSteps        int    `envconfig:"MAX_STEPS" default:"25"`
	ToolConcurrency int    `envconfig:"TOOL_CONCURRENCY" default:"4"`
}

func main() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("LLM")
	dbCfg := configx.MustNew[musicdb.Config]("DB")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repo, err := musicdb.Open(ctx, *dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open music database")
	}
	defer repo.Close()

	threads, closeThreads, err := openThreadStore(appCfg.ThreadStore)
	if err != nil {
		log.Fatal().Err(err).Str("thread_store", appCfg.ThreadStore).Msg("open thread store")
	}
	defer closeThreads()

	kv, closeKV, err := openProfileKV(ctx, appCfg.ProfileStore)
	if err != nil {
		log.Fatal().Err(err).Str("profile_store", appCfg.ProfileStore).Msg("open profile store")
	}
	defer closeKV()

	profiles, err := memoryx.NewProfileStore(kv)
	if err != nil {
		log.Fatal().Err(err).Msg("build profile store")
	}

	registry, err := specialist.NewRegistry(ctx, *llmCfg, repo, extractx.Backend(appCfg.Extractor), specialist.Options{
		MaxSteps:        appCfg.MaxSteps,
		ToolConcurrency: appCfg.ToolConcurrency,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build agents")
	}

	svc, err := orchestrator.New(threads, registry, profiles, repo)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	if err := repl(ctx, svc, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("repl")
	}
}

func openThreadStore(kind string) (statex.Store, func(), error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "memory":
		return statex.NewMemoryStore(), func() {}, nil
	case "bolt":
		store, err := statex.NewBoltStore(*configx.MustNew[statex.BoltConfig]("BOLT"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "upstash":
		store, err := statex.NewUpstashRedisStore(*configx.MustNew[statex.UpstashRedisConfig]("UPSTASH"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown thread store %q", kind)
	}
}

func openProfileKV(ctx context.Context, kind string) (memoryx.KV, func(), error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "memory":
		return memoryx.NewMemoryKV(), func() {}, nil
	case "postgres":
		kv, err := memoryx.NewPostgresKV(ctx, *configx.MustNew[memoryx.PostgresConfig]("PGPROFILE"))
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil
	case "mongo":
		kv, err := memoryx.NewMongoKV(ctx, *configx.MustNew[memoryx.MongoConfig]("MONGO"))
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown profile store %q", kind)
	}
}

// repl reads one line per turn. /new starts a fresh thread and /quit exits.
func repl(ctx context.Context, svc *orchestrator.Service, in io.Reader, out io.Writer) error {
	threadID := uuid.NewString()
	fmt.Fprintf(out, "thread %s\n", threadID)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/new":
			threadID = uuid.NewString()
			fmt.Fprintf(out, "thread %s\n", threadID)
			continue
		}

		res, err := svc.Chat(ctx, threadID, line)
		if err != nil {
			log.Error().Err(err).Str("thread_id", threadID).Msg("turn failed")
			fmt.Fprintln(out, "Sorry, something went wrong. Please try again.")
			continue
		}
		if res.Suspended {
			fmt.Fprintln(out, res.Prompt)
			continue
		}
		fmt.Fprintln(out, res.Reply)
	}
}
