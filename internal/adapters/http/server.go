// Package http exposes the machine's query surface over HTTP: enumerate
// all transitions of a field, and enumerate the ones available to a stored
// record, with or without an acting principal. It serves descriptor
// metadata only; transitions are never invoked through it.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fsmkit/fsmkit"
	"github.com/fsmkit/fsmkit/pkg/domain"
	"github.com/fsmkit/fsmkit/pkg/ports"
)

// InstanceFunc materializes an in-memory instance for a stored record so
// availability conditions can evaluate against it. It must produce a value
// the machine's field accessor understands.
type InstanceFunc func(field, id string, s domain.State) any

// Server serves the query surface for one machine backed by one store.
type Server struct {
	machine  *fsmkit.Machine
	store    ports.StateStore
	instance InstanceFunc
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithInstanceFunc overrides how stored records become instances. The
// default builds a map record keyed by "id" and the field name, matching
// the fields.Map accessor.
func WithInstanceFunc(fn InstanceFunc) Option {
	return func(s *Server) { s.instance = fn }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewHandler creates the HTTP handler for the query surface.
func NewHandler(machine *fsmkit.Machine, store ports.StateStore, opts ...Option) http.Handler {
	s := &Server{
		machine: machine,
		store:   store,
		instance: func(field, id string, st domain.State) any {
			return map[string]any{"id": id, field: st}
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/fields", s.listFields)
	r.Get("/fields/{field}/transitions", s.listTransitions)
	r.Get("/fields/{field}/records/{id}/transitions", s.listAvailable)
	return r
}

// transitionView is the wire form of descriptor metadata.
type transitionView struct {
	Name   string         `json:"name"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Custom map[string]any `json:"custom,omitempty"`
}

func viewOf(d *domain.Descriptor) transitionView {
	return transitionView{
		Name:   d.Name(),
		Source: d.Source().String(),
		Target: d.Target().String(),
		Custom: d.Custom(),
	}
}

func (s *Server) listFields(w http.ResponseWriter, r *http.Request) {
	s.respond(w, map[string]any{"fields": s.machine.FieldNames()})
}

func (s *Server) listTransitions(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	if _, ok := s.machine.Field(field); !ok {
		http.Error(w, "unknown field", http.StatusNotFound)
		return
	}
	views := []transitionView{}
	for d := range s.machine.All(field) {
		views = append(views, viewOf(d))
	}
	s.respond(w, map[string]any{"field": field, "transitions": views})
}

// listAvailable loads the record's state from the store and filters to
// currently available transitions. An optional ?principal= query switches
// to the permission-aware enumeration.
func (s *Server) listAvailable(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	id := chi.URLParam(r, "id")
	if _, ok := s.machine.Field(field); !ok {
		http.Error(w, "unknown field", http.StatusNotFound)
		return
	}

	state, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.logger.Warn("record load failed", "field", field, "id", id, "err", err)
		http.Error(w, "record load failed", http.StatusBadGateway)
		return
	}
	inst := s.instance(field, id, state)

	var descs []*domain.Descriptor
	if principal := r.URL.Query().Get("principal"); principal != "" {
		descs = s.machine.AvailableFor(r.Context(), field, inst, principal)
	} else {
		descs = s.machine.Available(field, inst)
	}

	views := []transitionView{}
	for _, d := range descs {
		views = append(views, viewOf(d))
	}
	s.respond(w, map[string]any{
		"field":       field,
		"id":          id,
		"state":       state,
		"transitions": views,
	})
}

func (s *Server) respond(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("response encode failed", "err", err)
	}
}
