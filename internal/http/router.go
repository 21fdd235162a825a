package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"questionlists/internal/domain/list"
	"questionlists/internal/domain/user"
	"questionlists/internal/domain/vote"
	jwtpkg "questionlists/internal/platform/jwt"
	"questionlists/internal/worker"
)

type Handler struct {
	userSvc *user.Service
	listSvc *list.Service
	voteSvc *vote.Service
	jwtMgr  *jwtpkg.Manager
	voteCh  chan<- worker.VoteEvent
	db      *sql.DB
}

func NewRouter(
	userSvc *user.Service,
	listSvc *list.Service,
	voteSvc *vote.Service,
	jwtMgr *jwtpkg.Manager,
	voteCh chan<- worker.VoteEvent,
	db *sql.DB,
) http.Handler {
	h := &Handler{
		userSvc: userSvc,
		listSvc: listSvc,
		voteSvc: voteSvc,
		jwtMgr:  jwtMgr,
		voteCh:  voteCh,
		db:      db,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtMgr))

			r.Get("/lists", h.handleActiveLists)
			r.Get("/lists/mine", h.handleMyLists)
			r.Post("/lists", h.handleCreateList)
			r.Get("/lists/{slug}", h.handleGetList)
			r.Patch("/lists/{slug}", h.handleUpdateList)
			r.Delete("/lists/{slug}", h.handleDeleteList)
			r.Post("/lists/{slug}/publish", h.handlePublishList)

			r.Post("/lists/{slug}/questions", h.handleAddQuestion)
			r.Patch("/lists/{slug}/questions/{id}", h.handleUpdateQuestion)
			r.Delete("/lists/{slug}/questions/{id}", h.handleDeleteQuestion)

			r.Get("/lists/{slug}/next", h.handleNextQuestion)
			r.With(RateLimitVotes(rate.Every(time.Second), 5)).Post("/lists/{slug}/vote", h.handleVote)
			r.Get("/lists/{slug}/results", h.handleResults)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole("admin"))
				r.Get("/lists/{slug}/aggregate", h.handleListAggregates)
				r.Get("/users", h.handleListUsers)
				r.Patch("/users/{id}/role", h.handleUpdateUserRole)
				r.Patch("/users/{id}/deactivate", h.handleDeactivateUser)
			})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	return strconv.ParseInt(idStr, 10, 64)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
