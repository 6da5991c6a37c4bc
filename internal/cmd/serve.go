package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antigravity/answer-gateway/internal/config"
	"github.com/antigravity/answer-gateway/internal/gateway"
	"github.com/antigravity/answer-gateway/internal/logger"
	"github.com/antigravity/answer-gateway/internal/server"
	"github.com/antigravity/answer-gateway/internal/upstream"
	"github.com/antigravity/answer-gateway/internal/version"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the answer gateway",
	Long:  `Start the HTTP server exposing GET /ping and POST /answer`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 初始化日志
	log, level, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	info := version.Get()
	log.Info("Starting Answer Gateway",
		zap.String("version", info.Version),
		zap.String("commit", info.Commit),
		zap.String("build_time", info.BuildTime),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Duration("default_timeout", cfg.Gateway.DefaultTimeout),
		zap.Duration("max_timeout", cfg.Gateway.MaxTimeout),
	)

	// 配置文件热更新：只有日志级别即时生效，其余需要重启
	if config.Watch(v, func(e fsnotify.Event, next *config.Config, err error) {
		if err != nil {
			log.Warn("Ignoring invalid config change", zap.String("file", e.Name), zap.Error(err))
			return
		}
		if err := logger.SetLevel(level, next.Logging.Level); err != nil {
			log.Warn("Invalid log level in config", zap.String("level", next.Logging.Level), zap.Error(err))
			return
		}
		log.Info("Config reloaded", zap.String("file", e.Name), zap.String("log_level", next.Logging.Level))
	}) {
		log.Info("Watching config file", zap.String("file", v.ConfigFileUsed()))
	}

	client := upstream.NewClient(cfg.Upstream, log)
	gw := gateway.New(cfg.Gateway, client, log)

	// 创建服务器
	srv, err := server.New(cfg, log, gw)
	if err != nil {
		log.Error("Failed to create server", zap.Error(err))
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 优雅关闭
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("Server failed", zap.Error(err))
		return err
	case <-stop:
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("Server stopped gracefully")
	return nil
}
