package unarchive

import (
	"fmt"
	"sort"

	"github.com/graceinfra/zoscore/internal/context"
	"github.com/rs/zerolog/log"
)

// Handler unpacks one archive format.
type Handler interface {
	// Format returns the format.name value this handler serves (e.g. "tar",
	// "terse").
	Format() string

	// List returns the entry names held by src without extracting anything.
	List(ctx *context.ExecutionContext, src string) ([]string, error)

	// Extract unpacks the entries req.Filter allows and returns the names
	// that were written.
	Extract(ctx *context.ExecutionContext, req Request) ([]string, error)
}

// Request is one extraction.
type Request struct {
	Src        string
	Dest       string
	Filter     *Filter
	Force      bool
	LogDataSet string
}

// HandlerRegistry holds the registered format handlers
type HandlerRegistry struct {
	handlers map[string]Handler
}

func NewRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string]Handler),
	}
}

// DefaultRegistry returns a registry with every built-in format.
func DefaultRegistry() *HandlerRegistry {
	r := NewRegistry()
	r.Register(newTarHandler("tar", ""))
	r.Register(newStreamHandler("gz"))
	r.Register(newStreamHandler("bz2"))
	r.Register(newZipHandler())
	r.Register(newTerseHandler())
	r.Register(newXmitHandler())
	return r
}

// Register adds a Handler to the registry. It will panic if a handler for the
// same format is already registered (indicating an initialization error)
func (r *HandlerRegistry) Register(handler Handler) {
	name := handler.Format()
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("handler for format %q already registered", name))
	}
	r.handlers[name] = handler
	log.Debug().Str("format", name).Msg("Registered unarchive handler")
}

// Get retrieves a handler by its format name.
func (r *HandlerRegistry) Get(name string) (Handler, bool) {
	handler, exists := r.handlers[name]
	return handler, exists
}

func (r *HandlerRegistry) IsKnownFormat(name string) bool {
	_, exists := r.Get(name)
	return exists
}

// Formats returns a sorted list of registered format names
func (r *HandlerRegistry) Formats() []string {
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}
