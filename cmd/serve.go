package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/coach"
	"github.com/abhisek/prepcoach/internal/config"
	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the practice backend on top of an LLM provider",
	Long: `Serve the practice API (/health, /api/interview/question,
/api/interview/feedback) backed by the configured LLM provider. Point the
remote source at it with --backend.

Generation failures answer 502 so clients fall back to their own bank.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Serve.Addr, _ = cmd.Flags().GetString("addr")
		}
		if err := cfg.LLM.Validate(); err != nil {
			return fmt.Errorf("serve needs an LLM provider: %w", err)
		}

		logger, err := config.NewLogger(cfg.Log)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger.Named("llm"))
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		c := coach.New(provider, coach.DefaultConfig())

		srv := server.New(c, c, cfg.ServerConfig(), server.WithLogger(logger.Named("server")))
		logger.Info("serving practice API",
			zap.String("addr", cfg.Serve.Addr),
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", provider.ModelID()))
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :5000)")
}
