// Package web serves the blog: pages rendered from the live content snapshot
// through the live template set, plus static files.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bitlatte/suspect/internal/config"
	"github.com/Bitlatte/suspect/internal/content"
	"github.com/Bitlatte/suspect/internal/model"
)

// Content is the source of the live snapshot.
type Content interface {
	Current() *content.Snapshot
	Generation() uint64
}

// Server wraps the chi router and the http.Server.
type Server struct {
	content  Content
	renderer *Renderer
	site     model.Site
	landing  int
	log      *slog.Logger

	router     chi.Router
	httpServer *http.Server
}

// NewServer builds the router for cfg. Pages are read from c and rendered by
// renderer on every request, so reloads show up immediately.
func NewServer(cfg config.Config, c Content, renderer *Renderer, log *slog.Logger) *Server {
	s := &Server{
		content:  c,
		renderer: renderer,
		site:     model.Site{Hostname: cfg.Hostname, Title: cfg.Title},
		landing:  cfg.LandingPosts,
		log:      log,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.CleanPath)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handleLanding)
	r.Get("/posts", s.handlePostIndex)
	r.Get("/posts/{slug}", s.handlePost)
	r.Get("/tags", s.handleTagIndex)
	r.Get("/tags/{tag}", s.handleTag)
	for _, page := range cfg.Pages {
		r.Get("/"+page, s.handlePage(PageTemplate(page)))
	}

	r.NotFound(s.static(cfg.StaticDir))

	s.router = r
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts the HTTP server and blocks until it is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	posts := s.content.Current().Latest(s.landing)
	s.render(w, r, http.StatusOK, TemplateLanding, model.PageData{
		Site:  s.site,
		Posts: posts,
		Count: len(posts),
		Many:  len(posts) > 1,
	})
}

func (s *Server) handlePostIndex(w http.ResponseWriter, r *http.Request) {
	posts := s.content.Current().Posts()
	s.render(w, r, http.StatusOK, TemplatePostList, model.PageData{
		Site:  s.site,
		Posts: posts,
		Count: len(posts),
		Many:  len(posts) > 1,
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")
	p, ok := s.content.Current().BySlug(slug)
	if !ok {
		s.notFound(w, r)
		return
	}
	s.render(w, r, http.StatusOK, TemplatePost, model.PageData{Site: s.site, Post: &p})
}

func (s *Server) handleTagIndex(w http.ResponseWriter, r *http.Request) {
	tags := s.content.Current().Tags()
	s.render(w, r, http.StatusOK, TemplateTagList, model.PageData{
		Site:  s.site,
		Tags:  tags,
		Count: len(tags),
		Many:  len(tags) > 1,
	})
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	tag := model.NewTag(pathParam(r, "tag"))
	posts := s.content.Current().ByTag(tag)
	if len(posts) == 0 {
		s.notFound(w, r)
		return
	}
	s.render(w, r, http.StatusOK, TemplateTag, model.PageData{
		Site:  s.site,
		Tag:   tag,
		Posts: posts,
		Count: len(posts),
		Many:  len(posts) > 1,
	})
}

func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, name, model.PageData{Site: s.site})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"posts":      s.content.Current().Len(),
		"generation": s.content.Generation(),
	})
}

// static serves files from dir for every unmatched path. Directories without
// an index.html are not listed.
func (s *Server) static(dir string) http.HandlerFunc {
	if dir == "" {
		return s.notFound
	}
	files := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(r.URL.Path)))
		if err != nil {
			s.notFound(w, r)
			return
		}
		if info.IsDir() {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(r.URL.Path), "index.html")); err != nil {
				s.notFound(w, r)
				return
			}
		}
		files.ServeHTTP(w, r)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	if s.renderer.Has(TemplateNotFound) {
		s.render(w, r, http.StatusNotFound, TemplateNotFound, model.PageData{Site: s.site})
		return
	}
	http.NotFound(w, r)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data model.PageData) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, name, data); err != nil {
		s.log.Error("render failed",
			slog.String("template", name),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		msg := "problem rendering page"
		if errors.Is(err, ErrNoTemplate) {
			msg = "could not read template " + name
		}
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
