// Package server serves the regional GDP chart over HTTP.
//
// The index page offers a source picker and embeds the chart as inline
// SVG. The chart and the underlying table are also available on their own
// at /chart.svg and /data.csv.
package server

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsawler/regiongdp/extract"
	"github.com/tsawler/regiongdp/fetch"
	"github.com/tsawler/regiongdp/format"
	"github.com/tsawler/regiongdp/model"
	"github.com/tsawler/regiongdp/render"
)

// Default listen address.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8501
)

const (
	routeIndex = "index"
	routeChart = "chart"
	routeData  = "data"
	routeShare = "share"

	contentTypeHeader = "Content-Type"
	contentTypeHTML   = "text/html; charset=utf-8"
)

// Selector loads the region buckets for a source.
type Selector interface {
	LoadAndSelect(ctx context.Context, src model.Source) ([]model.RegionBucket, error)
}

// Handler routes requests to the page, chart and data endpoints.
type Handler struct {
	selector Selector
	logger   *zerolog.Logger
	page     *template.Template
}

// NewHandler creates a handler backed by sel. A nil logger disables logging.
func NewHandler(sel Selector, logger *zerolog.Logger) *Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handler{
		selector: sel,
		logger:   logger,
		page:     template.Must(template.New("index").Parse(indexTemplate)),
	}
}

// ServeHTTP routes the request and logs its outcome.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	route, status := h.dispatch(w, r)

	h.logger.Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("route", route).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("request")
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) (route string, status int) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		return "method", h.writeError(w, http.StatusMethodNotAllowed, "Use GET.")
	}

	switch strings.TrimPrefix(r.URL.Path, "/") {
	case "":
		return routeIndex, h.handleIndex(w, r)
	case "chart.svg":
		return routeChart, h.handleChart(w, r)
	case "data.csv":
		return routeData, h.handleData(w, r)
	case "share.svg":
		return routeShare, h.handleShare(w, r)
	default:
		return "not_found", h.writeError(w, http.StatusNotFound, "Unknown page.")
	}
}

// indexData is the view model of the index page.
type indexData struct {
	Title   string
	Sources []sourceOption
	Source  string
	Key     string
	Chart   template.HTML
	Error   string
	Buckets []model.RegionBucket
}

type sourceOption struct {
	Key      string
	Name     string
	Selected bool
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) int {
	src, err := sourceParam(r)
	if err != nil {
		return h.writeError(w, http.StatusBadRequest, err.Error())
	}

	data := indexData{
		Title:   render.Title(src),
		Source:  src.String(),
		Key:     src.Key(),
		Sources: options(src),
	}
	status := http.StatusOK

	buckets, err := h.selector.LoadAndSelect(r.Context(), src)
	if err != nil {
		h.logLoadError(src, err)
		data.Error = userMessage(err)
		status = http.StatusBadGateway
	} else {
		var svg bytes.Buffer
		if err := render.Chart(&svg, buckets, src, format.SVG); err != nil {
			data.Error = userMessage(err)
			if !errors.Is(err, render.ErrNoData) {
				h.logger.Error().Err(err).Str("source", src.Key()).Msg("render chart failed")
				status = http.StatusInternalServerError
			}
		} else {
			data.Chart = template.HTML(inlineSVG(svg.Bytes()))
			data.Buckets = buckets
		}
	}

	var page bytes.Buffer
	if err := h.page.Execute(&page, data); err != nil {
		h.logger.Error().Err(err).Msg("render index failed")
		return h.writeError(w, http.StatusInternalServerError, "Failed to render page.")
	}

	w.Header().Set(contentTypeHeader, contentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write(page.Bytes())
	return status
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) int {
	return h.serveChart(w, r, render.Chart)
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) int {
	return h.serveChart(w, r, render.ShareChart)
}

type chartFunc func(io.Writer, []model.RegionBucket, model.Source, format.Format) error

func (h *Handler) serveChart(w http.ResponseWriter, r *http.Request, draw chartFunc) int {
	src, buckets, status := h.selectBuckets(w, r)
	if status != http.StatusOK {
		return status
	}

	var buf bytes.Buffer
	if err := draw(&buf, buckets, src, format.SVG); err != nil {
		if errors.Is(err, render.ErrNoData) {
			return h.writeError(w, http.StatusNotFound, userMessage(err))
		}
		h.logger.Error().Err(err).Str("source", src.Key()).Msg("render chart failed")
		return h.writeError(w, http.StatusInternalServerError, "Failed to render chart.")
	}

	w.Header().Set(contentTypeHeader, format.SVG.ContentType())
	_, _ = w.Write(buf.Bytes())
	return http.StatusOK
}

func (h *Handler) handleData(w http.ResponseWriter, r *http.Request) int {
	src, buckets, status := h.selectBuckets(w, r)
	if status != http.StatusOK {
		return status
	}

	var buf bytes.Buffer
	if err := render.CSV(&buf, buckets); err != nil {
		h.logger.Error().Err(err).Msg("render csv failed")
		return h.writeError(w, http.StatusInternalServerError, "Failed to render data.")
	}

	w.Header().Set(contentTypeHeader, format.CSV.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="gdp-`+src.Key()+`.csv"`)
	_, _ = w.Write(buf.Bytes())
	return http.StatusOK
}

// selectBuckets parses the source and loads its buckets, writing the error
// response itself when either step fails.
func (h *Handler) selectBuckets(w http.ResponseWriter, r *http.Request) (model.Source, []model.RegionBucket, int) {
	src, err := sourceParam(r)
	if err != nil {
		return src, nil, h.writeError(w, http.StatusBadRequest, err.Error())
	}

	buckets, err := h.selector.LoadAndSelect(r.Context(), src)
	if err != nil {
		h.logLoadError(src, err)
		return src, nil, h.writeError(w, http.StatusBadGateway, userMessage(err))
	}
	return src, buckets, http.StatusOK
}

func (h *Handler) logLoadError(src model.Source, err error) {
	ev := h.logger.Error().Err(err).Str("source", src.Key())
	var fe *fetch.FetchError
	if errors.As(err, &fe) {
		ev = ev.Str("url", fe.URL).Int("http_status", fe.StatusCode)
	}
	ev.Msg("load GDP data failed")
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) int {
	w.Header().Set(contentTypeHeader, "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message + "\n"))
	return status
}

// inlineSVG drops anything before the <svg> element so the chart can be
// embedded in HTML.
func inlineSVG(b []byte) string {
	if i := bytes.Index(b, []byte("<svg")); i > 0 {
		b = b[i:]
	}
	return string(b)
}

// sourceParam reads the source query parameter, defaulting to IMF.
func sourceParam(r *http.Request) (model.Source, error) {
	name := r.URL.Query().Get("source")
	if name == "" {
		return model.IMF, nil
	}
	return model.ParseSource(name)
}

func options(selected model.Source) []sourceOption {
	opts := make([]sourceOption, 0, len(model.Sources))
	for _, s := range model.Sources {
		opts = append(opts, sourceOption{Key: s.Key(), Name: s.String(), Selected: s == selected})
	}
	return opts
}

// userMessage turns a pipeline error into text fit for the page.
func userMessage(err error) string {
	var fe *fetch.FetchError
	switch {
	case errors.As(err, &fe):
		if fe.StatusCode != 0 {
			return "Could not download the GDP article: " + fe.Status + "."
		}
		return "Could not download the GDP article."
	case errors.Is(err, extract.ErrNoTableFound):
		return "The GDP table was not found on the page. The article layout may have changed."
	case errors.Is(err, render.ErrNoData):
		return "No country has data for the selected source."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Loading the GDP data was interrupted."
	default:
		return "Failed to load GDP data."
	}
}

// Server is the HTTP server for the chart UI.
type Server struct {
	srv    *http.Server
	logger *zerolog.Logger
}

// New creates a server listening on host:port.
func New(host string, port int, sel Selector, logger *zerolog.Logger) *Server {
	h := NewHandler(sel, logger)
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: h.logger,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
