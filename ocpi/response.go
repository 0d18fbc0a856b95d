package ocpi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var exposedHeaders = strings.Join([]string{
	HeaderRequestId, HeaderCorrelationId,
	HeaderTotalCount, HeaderFilteredCount, HeaderLimit, HeaderLink,
	"ETag", "Last-Modified", "Location",
}, ", ")

// Response is the envelope every endpoint answers with; transport status and
// headers travel beside the JSON body
type Response struct {
	Data            interface{} `json:"data,omitempty"`
	StatusCode      int         `json:"status_code"`
	StatusMessage   string      `json:"status_message,omitempty"`
	Timestamp       time.Time   `json:"timestamp"`
	TransportStatus int         `json:"-"`
	Headers         http.Header `json:"-"`
}

func NewResponse(transportStatus, statusCode int, message string, data interface{}) *Response {
	return &Response{
		Data:            data,
		StatusCode:      statusCode,
		StatusMessage:   message,
		Timestamp:       time.Now().UTC(),
		TransportStatus: transportStatus,
		Headers:         http.Header{},
	}
}

func Success(data interface{}) *Response {
	return NewResponse(http.StatusOK, StatusSuccess, MessageSuccess, data)
}

func Created(data interface{}) *Response {
	return NewResponse(http.StatusCreated, StatusSuccess, MessageSuccess, data)
}

// Denied answers a failed access check
func Denied() *Response {
	r := NewResponse(http.StatusForbidden, StatusClientError, MessageAccessDenied, nil)
	r.Headers.Set("Access-Control-Allow-Headers", "Authorization")
	return r
}

// ParseError answers a command body that could not be parsed
func ParseError(kind string, err error) *Response {
	message := fmt.Sprintf("Could not parse the given '%s' command JSON: %s", kind, err)
	return NewResponse(http.StatusBadRequest, StatusInvalidParameters, message, nil)
}

func BadRequest(message string) *Response {
	return NewResponse(http.StatusBadRequest, StatusInvalidParameters, message, nil)
}

func NotFound(message string) *Response {
	return NewResponse(http.StatusNotFound, StatusUnknownLocation, message, nil)
}

func ServerError(err error) *Response {
	message := "Internal server error!"
	if err != nil {
		message = fmt.Sprintf("Internal server error: %s", err)
	}
	return NewResponse(http.StatusInternalServerError, StatusServerError, message, nil)
}

// WithRecord attaches the version tag and modification time of a single record
func (r *Response) WithRecord(etag string, lastModified time.Time) *Response {
	if etag != "" {
		r.Headers.Set("ETag", etag)
	}
	if !lastModified.IsZero() {
		r.Headers.Set("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
	}
	return r
}

func (r *Response) WithHeaders(headers http.Header) *Response {
	for key, values := range headers {
		for _, v := range values {
			r.Headers.Add(key, v)
		}
	}
	return r
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode == StatusSuccess
}

// Write renders the envelope to the transport
func (r *Response) Write(w http.ResponseWriter) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	header := w.Header()
	for key, values := range r.Headers {
		header[key] = values
	}
	header.Set("Content-Type", "application/json; charset=utf-8")
	if header.Get("Access-Control-Expose-Headers") == "" {
		header.Set("Access-Control-Expose-Headers", exposedHeaders)
	}
	status := r.TransportStatus
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}
