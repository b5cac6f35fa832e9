package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before a handler. It may derive a new context for the
// handler chain. Returning an error aborts the request with that error.
type MiddlewareFunc func(ctx context.Context, r *http.Request) (context.Context, error)

// Router binds generic handlers onto a gin engine. Every request starts from
// baseCtx, which carries the process-wide dependencies (db, logger, configs,
// token engine).
type Router struct {
	Inner   gin.IRouter
	baseCtx context.Context
	befores []MiddlewareFunc
}

func New(ctx context.Context) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())
	return &Router{Inner: engine, baseCtx: ctx}
}

// Before appends a middleware running on every route registered afterwards on
// this router or its groups.
func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) Branch(pattern string) *Router {
	return &Router{
		Inner:   r.Inner.Group(pattern),
		baseCtx: r.baseCtx,
		befores: append([]MiddlewareFunc{}, r.befores...),
	}
}

func (r *Router) Raw(method, pattern string, handler http.HandlerFunc) {
	r.Inner.Handle(method, pattern, func(ctx *gin.Context) {
		handler(ctx.Writer, ctx.Request.WithContext(r.baseCtx))
	})
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response], opts ...RouteOption) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler, opts))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response], opts ...RouteOption) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler, opts))
}

func PUT[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response], opts ...RouteOption) {
	r.Inner.PUT(pattern, wrapHandler(r, http.MethodPut, handler, opts))
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response], opts ...RouteOption) {
	r.Inner.DELETE(pattern, wrapHandler(r, http.MethodDelete, handler, opts))
}

type routeConfig struct {
	successStatus int
}

type RouteOption func(*routeConfig)

// WithStatus overrides the success status code of a route, for example 201 on
// resource creation.
func WithStatus(status int) RouteOption {
	return func(cfg *routeConfig) {
		cfg.successStatus = status
	}
}
