package router

import (
	"slices"

	"github.com/gin-gonic/gin"
)

// Registrar mounts its endpoints on the API group
type Registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under one API base path
type Router struct {
	engine     *gin.Engine
	basePath   string
	registrars []Registrar
}

// Option configures a Router
type Option func(*Router)

// WithBasePath replaces the default "/api/v1" prefix
func WithBasePath(path string) Option {
	return func(r *Router) {
		r.basePath = path
	}
}

// NewRouter creates a Router over engine
func NewRouter(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{engine: engine, basePath: "/api/v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BasePath returns the prefix every registrar is mounted under
func (r *Router) BasePath() string {
	return r.basePath
}

// Mount queues registrars for Setup
func (r *Router) Mount(registrars ...Registrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts the queued registrars in order
func (r *Router) Setup() {
	api := r.engine.Group(r.basePath)
	for _, reg := range r.registrars {
		reg.RegisterRoutes(api)
	}
}

// Route is a single endpoint. Guards run after the group middleware and
// before Handler.
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Guards  []gin.HandlerFunc
}

// Group is a table of routes sharing a prefix and middleware
type Group struct {
	Prefix     string
	Middleware []gin.HandlerFunc
	Routes     []Route
}

// RegisterRoutes implements Registrar
func (g *Group) RegisterRoutes(rg *gin.RouterGroup) {
	sub := rg.Group(g.Prefix, g.Middleware...)
	for _, rt := range g.Routes {
		chain := append(slices.Clone(rt.Guards), rt.Handler)
		sub.Handle(rt.Method, rt.Path, chain...)
	}
}
