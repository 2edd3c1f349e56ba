package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"travel-news/internal/article"
)

const maxTopN = 100

type Handler struct {
	repo     article.Repository
	cache    Cache // optional
	defaultN int
	ttl      time.Duration
	logger   *log.Logger
}

func NewHandler(repo article.Repository, cache Cache, defaultN int, ttl time.Duration, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		repo:     repo,
		cache:    cache,
		defaultN: defaultN,
		ttl:      ttl,
		logger:   logger,
	}
}

func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/articles/top", h.topArticles).Methods(http.MethodGet)

	return r
}

// topArticles serves the global top-N, newest first. ?n= overrides the default.
func (h *Handler) topArticles(w http.ResponseWriter, r *http.Request) {
	n := h.defaultN
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxTopN {
			http.Error(w, fmt.Sprintf("n must be an integer between 1 and %d", maxTopN), http.StatusBadRequest)
			return
		}
		n = v
	}

	ctx := r.Context()
	cacheKey := fmt.Sprintf("news:top:%d", n)

	if h.cache != nil {
		if body, err := h.cache.Get(ctx, cacheKey); err == nil {
			writeJSON(w, body)
			return
		}
	}

	all, err := h.repo.QueryAll(ctx)
	if err != nil {
		h.logger.Printf("api: query articles: %v", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}

	body, err := json.Marshal(article.SelectTopN(all, n))
	if err != nil {
		h.logger.Printf("api: encode articles: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, cacheKey, body, h.ttl); err != nil {
			h.logger.Printf("api: cache set %s: %v", cacheKey, err)
		}
	}

	writeJSON(w, body)
}

func writeJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
