package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/coach"
	"github.com/abhisek/prepcoach/internal/config"
	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/practice"
	"github.com/abhisek/prepcoach/internal/remote"
	"github.com/abhisek/prepcoach/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "prepcoach",
	Short: "Interview coaching and skill drills in the terminal",
	Long: `prepcoach runs timed practice sessions: it asks questions generated for
your profile, scores each answer and summarizes the session.

Questions and feedback come from a practice backend, an LLM provider or the
built-in question bank. When the backend or provider fails the session keeps
going on the built-in bank.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInterview,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addConfigFlags(rootCmd.PersistentFlags())
	addInterviewFlags(rootCmd)

	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// addConfigFlags registers the flags loadConfig reads.
func addConfigFlags(pf *pflag.FlagSet) {
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/prepcoach/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides PREPCOACH_DB env var)")
	pf.String("source", "", "Question and feedback source: remote, llm or fallback")
	pf.String("backend", "", "Practice backend base URL (remote source)")
	pf.Duration("timeout", 0, "Per-request timeout for the practice backend")
}

// loadConfig reads the configuration and applies flag overrides, which take
// precedence over the file and the environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if flags.Changed("db") {
		cfg.DB, _ = flags.GetString("db")
	}
	if flags.Changed("source") {
		cfg.Source, _ = flags.GetString("source")
	}
	if flags.Changed("backend") {
		cfg.Remote.BaseURL, _ = flags.GetString("backend")
	}
	if flags.Changed("timeout") {
		cfg.Remote.Timeout, _ = flags.GetDuration("timeout")
	}
	return cfg, nil
}

// loadValidConfig is loadConfig for commands that talk to a question
// source.
func loadValidConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStoreFromFlags opens the journal for read-only commands.
func openStoreFromFlags(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

// openStore opens the journal database named by cfg.DB, or the default
// location.
func openStore(cfg config.Config) (*store.Store, error) {
	path := cfg.DB
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		path = p
	} else if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create DB dir: %w", err)
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newFileLogger builds the logger for full-screen commands. Output goes to
// prepcoach.log in the data directory unless a log file is configured.
func newFileLogger(cfg config.Config) (*zap.Logger, error) {
	lc := cfg.Log
	if lc.File == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		lc.File = filepath.Join(dir, "prepcoach.log")
	}
	return config.NewLogger(lc)
}

// sources holds the question and feedback sources selected by the
// configuration. Both are nil for the fallback source.
type sources struct {
	questions practice.QuestionSource
	feedback  practice.FeedbackSource
}

func newSources(ctx context.Context, cfg config.Config, recorder llm.RequestRecorder, logger *zap.Logger) (sources, error) {
	switch cfg.Source {
	case config.SourceRemote:
		client, err := remote.New(cfg.RemoteClientConfig(), remote.WithLogger(logger.Named("remote")))
		if err != nil {
			return sources{}, err
		}
		return sources{questions: client, feedback: client}, nil

	case config.SourceLLM:
		provider, err := llm.NewProvider(ctx, cfg.LLM, recorder, logger.Named("llm"))
		if err != nil {
			return sources{}, fmt.Errorf("LLM provider: %w", err)
		}
		c := coach.New(provider, coach.DefaultConfig())
		return sources{questions: c, feedback: c}, nil

	default:
		return sources{}, nil
	}
}
