// Package server exposes the REST request surface and the websocket push
// channel. Handlers translate HTTP into service calls and domain errors
// back into status codes; no business rules live here.
package server

import (
	"log/slog"
	"net/http"

	"snappy/contract"
	"snappy/repositories"
	"snappy/runtime"
	"snappy/services"
)

type Server struct {
	log                  *slog.Logger
	auth                 services.IAuthService
	users                services.IUserService
	chat                 services.IChatService
	anonymous            services.IAnonymousService
	accounts             repositories.IUserRepository
	typing               contract.ITypingCoordinator
	registry             contract.IRegistry
	lifecycle            *runtime.Lifecycle
	connectionBufferSize int
}

func NewServer(log *slog.Logger, auth services.IAuthService, users services.IUserService,
	chat services.IChatService, anonymous services.IAnonymousService,
	accounts repositories.IUserRepository, typing contract.ITypingCoordinator,
	registry contract.IRegistry, lifecycle *runtime.Lifecycle,
	connectionBufferSize int) *Server {
	return &Server{
		log:                  log,
		auth:                 auth,
		users:                users,
		chat:                 chat,
		anonymous:            anonymous,
		accounts:             accounts,
		typing:               typing,
		registry:             registry,
		lifecycle:            lifecycle,
		connectionBufferSize: connectionBufferSize,
	}
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"msg": "Ping Successful"})
	})

	mux.HandleFunc("GET /debug/online-users", func(w http.ResponseWriter, _ *http.Request) {
		online := s.registry.Online()
		writeJSON(w, http.StatusOK, map[string]any{
			"onlineUsers": online,
			"count":       len(online),
		})
	})

	s.registerAuthRoutes(mux)
	s.registerMessageRoutes(mux)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return mux
}
