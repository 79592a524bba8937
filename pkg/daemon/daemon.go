// The daemon package exposes the dispatcher over HTTP so chat-bot hosts
// and scripts on other machines can query BMCs without a local ipmitool
// bundle. The surface is deliberately tiny: one POST endpoint that mirrors
// the dispatcher contract and always answers with a single text reply.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lestrrat-go/jwx/jwt"
	"github.com/rs/zerolog/log"
)

// QueryFunc is the dispatcher as the daemon sees it. The context is the
// request context, so the router's timeout middleware bounds every query.
type QueryFunc func(ctx context.Context, operation string, target string, detail ...string) string

// Server holds everything the HTTP layer needs. ServerNames is only used
// by the GET /servers listing; queries go through Query.
type Server struct {
	Endpoint     string
	ServerNames  []string
	RequireToken bool
	Query        QueryFunc
}

// Run() blocks serving HTTP on the configured endpoint until the listener
// fails. A clean shutdown (http.ErrServerClosed) is not an error.
func (s *Server) Run() error {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.StripSlashes,
		middleware.Timeout(60*time.Second),
	)
	if s.RequireToken {
		router.Use(requireValidToken)
	}

	router.Get("/servers", s.handleServers)
	router.Post("/query", s.handleQuery)

	log.Info().Str("endpoint", s.Endpoint).Msg("daemon listening")
	err := http.ListenAndServe(s.Endpoint, router)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// handleQuery answers POST /query. The operation, target, and optional
// detail come in as form values; the reply is the dispatcher's single
// text string regardless of how the query fared, matching the CLI.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}
	operation := r.PostFormValue("op")
	target := r.PostFormValue("target")
	if operation == "" || target == "" {
		http.Error(w, "both 'op' and 'target' form values are required", http.StatusBadRequest)
		return
	}

	var detail []string
	if d := r.PostFormValue("detail"); d != "" {
		detail = append(detail, d)
	}

	reply := s.Query(r.Context(), operation, target, detail...)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, reply)
}

func (s *Server) handleServers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, strings.Join(s.ServerNames, "\n"))
}

// requireValidToken rejects requests without a parseable, currently valid
// JWT bearer token. Issuer/audience checks are left to the deployment's
// gateway; this only keeps casual pokes off the BMC credentials.
func requireValidToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		token, err := jwt.Parse([]byte(raw))
		if err != nil {
			log.Error().Err(err).Msg("failed to parse access token contents")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if err := jwt.Validate(token); err != nil {
			log.Error().Err(err).Msg("failed to validate access token")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
