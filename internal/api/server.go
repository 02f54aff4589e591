package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/render"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

// MaxWait caps the ?wait parameter.
const MaxWait = time.Minute

const maxBodyBytes = 1 << 16

// Server exposes a dispatcher over HTTP.
type Server struct {
	dispatcher *suggest.Dispatcher
	hub        *Hub
	logger     *log.Logger
	router     chi.Router
}

// New creates a server. hub may be nil, in which case /v1/events is not
// routed.
func New(d *suggest.Dispatcher, hub *Hub, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{dispatcher: d, hub: hub, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/providers", s.listProviders)
		r.Route("/dispatches", func(r chi.Router) {
			r.Get("/", s.listDispatches)
			r.Post("/", s.createDispatch)
			r.Get("/{id}", s.getDispatch)
			r.Get("/{id}/render", s.renderDispatch)
			r.Delete("/{id}", s.cancelDispatch)
		})
		if s.hub != nil {
			r.Get("/events", s.hub.ServeHTTP)
		}
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type providerView struct {
	Name        string `json:"name"`
	Group       string `json:"group"`
	Attribution string `json:"attribution,omitempty"`
	Applicable  *bool  `json:"applicable,omitempty"`
}

// listProviders lists installed providers. With ?id and ?data_source (and
// optionally kind, label, organism) each entry says whether it applies.
func (s *Server) listProviders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hub := entity.Entity{
		ID:         q.Get("id"),
		DataSource: entity.DataSource(q.Get("data_source")),
		Kind:       entity.Kind(q.Get("kind")),
		Label:      q.Get("label"),
		Organism:   q.Get("organism"),
	}
	withHub := hub.ID != "" || hub.DataSource != ""
	if withHub {
		if err := hub.Validate(); err != nil {
			writeError(w, err)
			return
		}
	}

	descs := s.dispatcher.Registry().Descriptors(hub)
	out := make([]providerView, len(descs))
	for i, d := range descs {
		out[i] = providerView{Name: d.Name, Group: d.Group, Attribution: d.Attribution}
		if withHub {
			applicable := d.Applicable
			out[i].Applicable = &applicable
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"groups":    s.dispatcher.Registry().Groups(),
		"providers": out,
	})
}

type dispatchRequest struct {
	Provider string        `json:"provider"`
	Hub      entity.Entity `json:"hub"`
}

func (s *Server) createDispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if req.Provider == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "provider is required"))
		return
	}

	h, err := s.dispatcher.Dispatch(r.Context(), req.Provider, req.Hub)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("dispatched", "dispatch", h.ID(), "provider", req.Provider, "hub", req.Hub.Key())
	w.Header().Set("Location", "/v1/dispatches/"+h.ID())
	writeJSON(w, http.StatusAccepted, h.Snapshot())
}

func (s *Server) listDispatches(w http.ResponseWriter, r *http.Request) {
	handles := s.dispatcher.Handles()
	out := make([]suggest.Snapshot, len(handles))
	for i, h := range handles {
		out[i] = h.Snapshot()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) (*suggest.Handle, bool) {
	id := chi.URLParam(r, "id")
	h, ok := s.dispatcher.Get(id)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "unknown dispatch %q", id))
		return nil, false
	}
	return h, true
}

func (s *Server) getDispatch(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handle(w, r)
	if !ok {
		return
	}

	if v := r.URL.Query().Get("wait"); v != "" {
		wait, err := time.ParseDuration(v)
		if err != nil || wait < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid wait %q", v))
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), min(wait, MaxWait))
		_, _ = h.Wait(ctx) // a timeout still answers with the current state
		cancel()
	}
	writeJSON(w, http.StatusOK, h.Snapshot())
}

var contentTypes = map[render.Format]string{
	render.FormatJSON: "application/json",
	render.FormatYAML: "application/yaml",
	render.FormatDOT:  "text/vnd.graphviz",
	render.FormatSVG:  "image/svg+xml",
	render.FormatPNG:  "image/png",
	render.FormatPDF:  "application/pdf",
}

func (s *Server) renderDispatch(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handle(w, r)
	if !ok {
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(render.FormatSVG)
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		writeError(w, err)
		return
	}

	o, terminal := h.Outcome()
	if !terminal || o.State != suggest.StateCompleted || o.Fragment == nil {
		writeJSON(w, http.StatusConflict, errorBody{
			Code:    "NOT_COMPLETED",
			Message: "dispatch " + h.ID() + " is " + h.State().String(),
		})
		return
	}

	out, err := render.Render(*o.Fragment, format, render.Options{Detailed: r.URL.Query().Has("detailed")})
	if err != nil {
		s.logger.Error("render", "dispatch", h.ID(), "format", format, "err", err)
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) cancelDispatch(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handle(w, r)
	if !ok {
		return
	}
	cancelled := s.dispatcher.Cancel(h)
	if cancelled {
		s.logger.Info("cancelled", "dispatch", h.ID())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cancelled": cancelled,
		"dispatch":  h.Snapshot(),
	})
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNotApplicable, errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeBusy:
		return http.StatusConflict
	case errors.ErrCodeUpstreamUnavailable, errors.ErrCodeMalformedResponse:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	e := errors.Classify(err)
	writeJSON(w, statusFor(e.Code), errorBody{Code: e.Code, Message: e.Message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
