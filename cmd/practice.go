package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/feedback"
	"github.com/abhisek/prepcoach/internal/session"
	"github.com/abhisek/prepcoach/internal/tui"
)

// runPractice wires the configured sources, the fallback-absorbing
// evaluator and the journal into a controller, then runs the practice
// screen for p until the user quits.
func runPractice[P session.Shape[P]](cmd *cobra.Command, surface, title string, p P) error {
	if err := p.Validate(); err != nil {
		return err
	}
	cfg, err := loadValidConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newFileLogger(cfg)
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

	src, err := newSources(ctx, cfg, st.EventRepo(), logger)
	if err != nil {
		return err
	}

	evaluator := feedback.New(src.feedback, feedback.Config{Timeout: cfg.Remote.Timeout}, logger.Named("feedback"))
	ctrl := session.New[P](src.questions, evaluator,
		session.Config{Surface: surface, QuestionTimeout: cfg.Remote.Timeout},
		session.WithLogger(logger.Named("session")),
		session.WithJournal(st.Journal()),
	)

	logger.Info("practice started",
		zap.String("surface", surface),
		zap.String("source", cfg.Source),
		zap.String("primary", p.Primary()))
	return tui.Run(ctx, ctrl, p, title, logger.Named("tui"))
}
