package router

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	"evocpi/internal"
	"evocpi/ocpi"
)

const featureName = "Dispatcher"

// Handler produces the envelope for a matched request
type Handler func(ctx context.Context, r *Request) *ocpi.Response

// Before runs ahead of the handler and may amend the request
type Before func(ctx context.Context, r *Request) error

// After runs once the handler answered and may amend the response
type After func(ctx context.Context, r *Request, resp *ocpi.Response) error

var methodOrder = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// Dispatcher maps method and path template pairs to handlers
type Dispatcher struct {
	basePath string
	routes   []*route
	before   []Before
	after    []After
	log      internal.LogHandler
}

func NewDispatcher(basePath string, log internal.LogHandler) *Dispatcher {
	return &Dispatcher{
		basePath: "/" + strings.Trim(basePath, "/"),
		log:      log,
	}
}

func (d *Dispatcher) BasePath() string {
	if d.basePath == "/" {
		return ""
	}
	return d.basePath
}

// Use appends hooks run before every handler, ahead of route hooks
func (d *Dispatcher) Use(hooks ...Before) {
	d.before = append(d.before, hooks...)
}

// UseAfter appends hooks run after every handler, behind route hooks
func (d *Dispatcher) UseAfter(hooks ...After) {
	d.after = append(d.after, hooks...)
}

// Register adds a route; a template that could match the same path as an
// existing one for the same method is rejected
func (d *Dispatcher) Register(method, template string, handler Handler, opts ...RouteOption) error {
	method = strings.ToUpper(method)
	if method == http.MethodOptions {
		return fmt.Errorf("%s %s: OPTIONS is answered by the dispatcher", method, template)
	}
	if !slices.Contains(methodOrder, method) {
		return fmt.Errorf("%s %s: unsupported method", method, template)
	}
	if handler == nil {
		return fmt.Errorf("%s %s: nil handler", method, template)
	}
	segments, err := parseTemplate(template)
	if err != nil {
		return err
	}
	r := &route{
		method:   method,
		template: "/" + strings.Trim(template, "/"),
		segments: segments,
		handler:  handler,
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, existing := range d.routes {
		if existing.method == method && existing.overlaps(r) {
			return fmt.Errorf("%w: %s %s conflicts with %s", ErrAmbiguousRoute, method, r.template, existing.template)
		}
	}
	d.routes = append(d.routes, r)
	return nil
}

// MustRegister is Register for startup code, where a bad route table is fatal
func (d *Dispatcher) MustRegister(method, template string, handler Handler, opts ...RouteOption) {
	if err := d.Register(method, template, handler, opts...); err != nil {
		panic(err)
	}
}

func (d *Dispatcher) relative(path string) string {
	if d.basePath != "/" && strings.HasPrefix(path, d.basePath) {
		rest := path[len(d.basePath):]
		if rest == "" || strings.HasPrefix(rest, "/") {
			return rest
		}
	}
	return path
}

// Allowed lists the methods registered for a path in canonical order,
// OPTIONS included; empty when nothing matches
func (d *Dispatcher) Allowed(path string) []string {
	parts := splitPath(d.relative(path))
	methods := make(map[string]bool)
	for _, r := range d.routes {
		if _, ok := r.match(parts); ok {
			methods[r.method] = true
		}
	}
	if len(methods) == 0 {
		return nil
	}
	methods[http.MethodOptions] = true
	allowed := make([]string, 0, len(methods))
	for _, m := range methodOrder {
		if methods[m] {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

// Dispatch routes one request and always returns an envelope
func (d *Dispatcher) Dispatch(ctx context.Context, method, path string, req *Request) *ocpi.Response {
	if req == nil {
		req = &Request{}
	}
	req.prepare()
	req.Method = strings.ToUpper(method)
	req.Path = d.relative(path)

	if req.Method == http.MethodOptions {
		allowed := d.Allowed(req.Path)
		if len(allowed) == 0 {
			return notFound(req.Path)
		}
		return optionsResponse(allowed)
	}

	parts := splitPath(req.Path)
	known := false
	for _, r := range d.routes {
		params, ok := r.match(parts)
		if !ok {
			continue
		}
		known = true
		if r.method != req.Method {
			continue
		}
		req.Template = r.template
		req.Params = params
		return d.invoke(ctx, r, req)
	}
	if known {
		return methodNotAllowed(d.Allowed(req.Path))
	}
	return notFound(req.Path)
}

func (d *Dispatcher) invoke(ctx context.Context, r *route, req *Request) *ocpi.Response {
	for _, hook := range d.before {
		d.runBefore(ctx, hook, req)
	}
	for _, hook := range r.before {
		d.runBefore(ctx, hook, req)
	}

	resp := d.runHandler(ctx, r, req)

	for _, hook := range r.after {
		d.runAfter(ctx, hook, req, resp)
	}
	for _, hook := range d.after {
		d.runAfter(ctx, hook, req, resp)
	}
	return resp
}

func (d *Dispatcher) runHandler(ctx context.Context, r *route, req *Request) (resp *ocpi.Response) {
	defer func() {
		if v := recover(); v != nil {
			d.log.Error(fmt.Sprintf("handler %s %s panicked", r.method, r.template), fmt.Errorf("%v\n%s", v, debug.Stack()))
			resp = ocpi.ServerError(nil)
		}
	}()
	resp = r.handler(ctx, req)
	if resp == nil {
		d.log.Warn(fmt.Sprintf("handler %s %s returned no response", r.method, r.template))
		resp = ocpi.ServerError(nil)
	}
	return resp
}

func (d *Dispatcher) runBefore(ctx context.Context, hook Before, req *Request) {
	defer func() {
		if v := recover(); v != nil {
			d.log.Error("before hook panicked", fmt.Errorf("%v", v))
		}
	}()
	if err := hook(ctx, req); err != nil {
		d.log.Error(fmt.Sprintf("before hook on %s %s", req.Method, req.Path), err)
	}
}

func (d *Dispatcher) runAfter(ctx context.Context, hook After, req *Request, resp *ocpi.Response) {
	defer func() {
		if v := recover(); v != nil {
			d.log.Error("after hook panicked", fmt.Errorf("%v", v))
		}
	}()
	if err := hook(ctx, req, resp); err != nil {
		d.log.Error(fmt.Sprintf("after hook on %s %s", req.Method, req.Path), err)
	}
}

func optionsResponse(allowed []string) *ocpi.Response {
	resp := ocpi.Success(nil)
	methods := strings.Join(allowed, ", ")
	resp.Headers.Set("Allow", methods)
	resp.Headers.Set("Access-Control-Allow-Methods", methods)
	resp.Headers.Set("Access-Control-Allow-Headers", "Authorization")
	return resp
}

func notFound(path string) *ocpi.Response {
	return ocpi.NewResponse(http.StatusNotFound, ocpi.StatusClientError, fmt.Sprintf("Unknown path: %s", path), nil)
}

func methodNotAllowed(allowed []string) *ocpi.Response {
	resp := ocpi.NewResponse(http.StatusMethodNotAllowed, ocpi.StatusClientError, "Method not allowed!", nil)
	resp.Headers.Set("Allow", strings.Join(allowed, ", "))
	return resp
}
