package router

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"evocpi/entity"
)

const maxBodySize = 1 << 20

// Request is the transport independent view of one inbound call
type Request struct {
	Method        string
	Path          string
	Template      string
	Params        map[string]string
	Query         url.Values
	Header        http.Header
	Body          []byte
	RemoteAddr    string
	Identity      *entity.Identity
	RequestId     string
	CorrelationId string
	Received      time.Time
}

func (r *Request) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[name]
}

// NewRequest reads the body of an http request, bodies above 1 MiB are rejected
func NewRequest(r *http.Request) (*Request, error) {
	req := &Request{
		Method:     r.Method,
		Path:       r.URL.Path,
		Query:      r.URL.Query(),
		Header:     r.Header.Clone(),
		RemoteAddr: r.RemoteAddr,
		Received:   time.Now(),
	}
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
		if err != nil {
			return req, fmt.Errorf("reading body: %w", err)
		}
		if len(body) > maxBodySize {
			return req, fmt.Errorf("body exceeds %d bytes", maxBodySize)
		}
		req.Body = body
	}
	return req, nil
}

func (r *Request) prepare() {
	if r.Header == nil {
		r.Header = http.Header{}
	}
	if r.Query == nil {
		r.Query = url.Values{}
	}
	if r.Received.IsZero() {
		r.Received = time.Now()
	}
}
