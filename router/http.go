package router

import (
	"fmt"
	"net/http"

	"evocpi/ocpi"
	"github.com/julienschmidt/httprouter"
)

// Handler builds the transport router for the registered routes; a route
// table httprouter cannot represent is reported as an error
func (d *Dispatcher) Handler() (handler http.Handler, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%w: %v", ErrAmbiguousRoute, v)
		}
	}()

	router := httprouter.New()
	router.HandleOPTIONS = false
	router.HandleMethodNotAllowed = false
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	options := make(map[string]bool)
	for _, r := range d.routes {
		path := d.BasePath() + r.httprouterPath()
		router.Handle(r.method, path, d.serve(r))
		if !options[path] {
			options[path] = true
			router.Handle(http.MethodOptions, path, d.serveOptions)
		}
	}
	router.NotFound = http.HandlerFunc(d.serveUnmatched)
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		d.log.Error(fmt.Sprintf("transport panic on %s %s", r.Method, r.URL.Path), fmt.Errorf("%v", v))
		d.write(w, ocpi.ServerError(nil))
	}
	return router, nil
}

func (d *Dispatcher) serve(r *route) httprouter.Handle {
	return func(w http.ResponseWriter, hr *http.Request, ps httprouter.Params) {
		req, err := d.readRequest(hr)
		if err != nil {
			d.write(w, ocpi.BadRequest(err.Error()))
			return
		}
		req.Path = d.relative(hr.URL.Path)
		req.Template = r.template
		if len(ps) > 0 {
			req.Params = make(map[string]string, len(ps))
			for _, p := range ps {
				req.Params[p.Key] = p.Value
			}
		}
		d.write(w, d.invoke(hr.Context(), r, req))
	}
}

func (d *Dispatcher) serveOptions(w http.ResponseWriter, hr *http.Request, _ httprouter.Params) {
	d.write(w, d.Dispatch(hr.Context(), http.MethodOptions, hr.URL.Path, nil))
}

// serveUnmatched answers paths httprouter could not route, including known
// paths requested with an unregistered method
func (d *Dispatcher) serveUnmatched(w http.ResponseWriter, hr *http.Request) {
	req, err := d.readRequest(hr)
	if err != nil {
		d.write(w, ocpi.BadRequest(err.Error()))
		return
	}
	d.write(w, d.Dispatch(hr.Context(), hr.Method, hr.URL.Path, req))
}

func (d *Dispatcher) readRequest(hr *http.Request) (*Request, error) {
	req, err := NewRequest(hr)
	if err != nil {
		return nil, err
	}
	if len(req.Body) > 0 {
		d.log.RawDataEvent(hr.Method+" "+hr.URL.Path, string(req.Body))
	}
	return req, nil
}

func (d *Dispatcher) write(w http.ResponseWriter, resp *ocpi.Response) {
	if err := resp.Write(w); err != nil {
		d.log.Error("writing response", err)
	}
}
