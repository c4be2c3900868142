package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/z-counsel/backend/internal/handler/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/handler/instrument"
	"github.com/zhouzirui/z-counsel/backend/internal/handler/realtime"
	"github.com/zhouzirui/z-counsel/backend/internal/handler/settings"
	"github.com/zhouzirui/z-counsel/backend/internal/handler/stream"
	middlewarePkg "github.com/zhouzirui/z-counsel/backend/internal/middleware"
	chatService "github.com/zhouzirui/z-counsel/backend/internal/service/chat"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, settingsHandler *settings.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chat.New(chatSvc)
	streamHandler := stream.New(chatSvc)
	wsHandler := realtime.NewWebSocketHandler(chatSvc)
	instrumentHandler := instrument.New()

	r.Route("/api", func(api chi.Router) {
		instrumentHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterWebSocketRoutes(api)
		if settingsHandler != nil {
			settingsHandler.RegisterRoutes(api)
		}

		// Same per-message processing as POST /messages, delivered as SSE
		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			streamHandler.ServeHTTP(w, r, chi.URLParam(r, "sessionID"))
		})
	})

	return r
}
