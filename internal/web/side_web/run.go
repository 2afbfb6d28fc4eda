package side_web

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tarediiran-industries.com/side-services/internal/log"
)

func Run(cfg Config, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := log.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}
	defer logger.Sync()

	server, err := NewSideWebServer(cfg, logger)
	if err != nil {
		logger.Error("cannot build dashboard server", zap.Error(err))
		return -1
	}

	if err := server.Serve(ctx); err != nil {
		logger.Error("dashboard server stopped", zap.Error(err))
		return -1
	}
	return 0
}
