package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"snappy/infrastructure/http/server"
	"snappy/internal"
	"snappy/internal/logs"
	"snappy/moderation"
	"snappy/repositories"
	"snappy/runtime"
	"snappy/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	//  Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories
	messageRepository := repositories.NewMessageRepository(db, log)
	userRepository := repositories.NewUserRepository(db)

	// A crash leaves stale online flags behind; wipe them before
	// accepting connections so presence starts from a clean slate.
	if err := userRepository.ResetOnlineStatuses(); err != nil {
		return fmt.Errorf("resetting online statuses: %w", err)
	}

	// 4. Runtime (presence, typing, delivery)
	registry := runtime.NewRegistry(log)
	typing := runtime.NewCoordinator(log, registry, config.TypingExpiry, config.TypingThrottle)
	relay := runtime.NewRelay(log, registry, typing)
	lifecycle := runtime.NewLifecycle(log, registry, typing, userRepository)

	// 5. Services
	moderator, err := buildModerator(config)
	if err != nil {
		return fmt.Errorf("building moderator: %w", err)
	}
	authService := services.NewAuthService(userRepository, config.AuthTokenDuration)
	userService := services.NewUserService(userRepository, messageRepository)
	chatService := services.NewChatService(messageRepository, relay, moderator)
	anonymousService := services.NewAnonymousService(log, messageRepository, userRepository, relay, registry)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 7. Optional debug server (localhost only)
	if config.DebugPort != nil {
		internal.StartDebugServer(log, db, *config.DebugPort, func() map[string]any {
			return map[string]any{
				"onlineUsers": registry.Online(),
			}
		})
	}

	// 8. HTTP Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	api := server.NewServer(log, authService, userService, chatService, anonymousService,
		userRepository, typing, registry, lifecycle, config.ConnectionBufferSize)
	httpServer := &http.Server{
		Addr:    address,
		Handler: api.Handler(),
	}

	// Use an error channel to capture ListenAndServe() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 9. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 10. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown", "error", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}

func buildModerator(config Config) (*moderation.Moderator, error) {
	var words []string
	for _, w := range strings.Split(config.ModerationWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	mask := '*'
	if r := []rune(config.ModerationCharReplacement); len(r) > 0 {
		mask = r[0]
	}
	return moderation.NewModerator(words, mask)
}
