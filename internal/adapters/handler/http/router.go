package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewHandler builds the public router. rpcHandler and metricsHandler are
// optional and mounted at /rpc and /metrics when set.
func NewHandler(voteHandler *VoteHandler, auth func(http.Handler) http.Handler, rpcHandler http.Handler, metricsHandler http.Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Get("/dao", voteHandler.GetDaoState)

		r.Route("/tutorials/{id}/votes", func(r chi.Router) {
			r.Get("/", voteHandler.ListVotes)
			r.Get("/status", voteHandler.SubmissionStatus)
			r.With(auth).Post("/", voteHandler.SubmitVote)
		})
	})

	if rpcHandler != nil {
		r.With(auth).Handle("/rpc", rpcHandler)
	}
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	return r
}
