package serve

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dtnitsch/m8pack/internal/common"
	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/m8"
)

const (
	DefaultCacheSize = 128
	DefaultMaxBody   = 10 << 20
)

// Server exposes the compression pipeline over HTTP. Each request runs its
// own pipeline; finished results are cached by input hash and options.
type Server struct {
	logger  *slog.Logger
	cfg     models.Config
	cache   *lru.Cache[string, *m8.Result]
	maxBody int64
}

// NewServer builds a server. cacheSize <= 0 disables the result cache.
func NewServer(logger *slog.Logger, cfg models.Config, cacheSize int, maxBody int64) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	s := &Server{logger: logger, cfg: cfg, maxBody: maxBody}
	if cacheSize > 0 {
		cache, err := lru.New[string, *m8.Result](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("%w: cache: %v", models.ErrConfiguration, err)
		}
		s.cache = cache
	}
	return s, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/compress", s.handleCompress)
		r.Post("/unpack", s.handleUnpack)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start).String(),
		)
	})
}

// compressResponse is the JSON form of /v1/compress.
type compressResponse struct {
	Package string   `json:"package"`
	Cached  bool     `json:"cached"`
	Stats   m8.Stats `json:"stats"`
}

// handleCompress takes raw markup as the body. Query parameters max_mappings,
// scanner and verify override the server configuration; format=json wraps
// the package with its statistics.
func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := m8.OptionsFromConfig(cfg)
	key := fmt.Sprintf("%s|%d|%t|%t", common.ContentHash(body), opts.MaxMappings, opts.Strict, opts.Verify)

	res, cached := s.lookup(key)
	if !cached {
		res, err = m8.Compress(string(body), opts)
		if err != nil {
			s.logger.Warn("compression failed", "error", err)
			writeError(w, err)
			return
		}
		if s.cache != nil {
			s.cache.Add(key, res)
		}
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, compressResponse{Package: res.Package, Cached: cached, Stats: res.Stats})
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("X-M8-Original-Size", strconv.Itoa(res.Stats.OriginalSize))
	h.Set("X-M8-Compressed-Size", strconv.Itoa(res.Stats.CompressedSize))
	h.Set("X-M8-Package-Size", strconv.Itoa(res.Stats.PackageSize))
	h.Set("X-M8-Mapping", res.Stats.MappingList)
	h.Set("X-M8-Cache", strconv.FormatBool(cached))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, res.Package)
}

func (s *Server) handleUnpack(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	markup, err := m8.Unpack(string(body))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, markup)
}

func (s *Server) lookup(key string) (*m8.Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("%w: reading body: %v", models.ErrIO, err)
	}
	return body, nil
}

func (s *Server) requestConfig(r *http.Request) (models.Config, error) {
	cfg := s.cfg
	q := r.URL.Query()
	if v := q.Get("max_mappings"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: max_mappings %q is not an integer", models.ErrConfiguration, v)
		}
		cfg.MaxMappings = n
	}
	if v := q.Get("scanner"); v != "" {
		cfg.Scanner = v
	}
	if v := q.Get("verify"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: verify %q is not a boolean", models.ErrConfiguration, v)
		}
		cfg.Verify = b
	}
	return cfg, cfg.Validate()
}

var errBodyTooLarge = errors.New("request body too large")

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrMalformedPackage), errors.Is(err, models.ErrRoundTrip):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}
