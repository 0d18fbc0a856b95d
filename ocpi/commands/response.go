package commands

import (
	"encoding/json"
	"time"

	"evocpi/entity/common"
)

type ResponseType string

const (
	Accepted       ResponseType = "ACCEPTED"
	NotSupported   ResponseType = "NOT_SUPPORTED"
	Rejected       ResponseType = "REJECTED"
	UnknownSession ResponseType = "UNKNOWN_SESSION"
)

const (
	DefaultTimeout      = 15 * time.Second
	notSupportedMessage = "Not supported!"
	defaultLanguage     = "en"
)

// Response is the synchronous answer to a command, Timeout tells the caller
// how long to wait for the asynchronous result
type Response struct {
	Result  ResponseType         `json:"result"`
	Timeout time.Duration        `json:"-"`
	Message []common.DisplayText `json:"message,omitempty"`
}

// Fallback is returned whenever no handler produced a response
func Fallback() *Response {
	return &Response{
		Result:  NotSupported,
		Timeout: DefaultTimeout,
		Message: []common.DisplayText{common.NewDisplayText(defaultLanguage, notSupportedMessage)},
	}
}

type responseJSON struct {
	Result  ResponseType         `json:"result"`
	Timeout int                  `json:"timeout"`
	Message []common.DisplayText `json:"message,omitempty"`
}

// MarshalJSON writes the timeout in whole seconds
func (r Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(responseJSON{
		Result:  r.Result,
		Timeout: int(r.Timeout / time.Second),
		Message: r.Message,
	})
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var raw responseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Result = raw.Result
	r.Timeout = time.Duration(raw.Timeout) * time.Second
	r.Message = raw.Message
	return nil
}

type ResultType string

const (
	ResultAccepted            ResultType = "ACCEPTED"
	ResultCanceledReservation ResultType = "CANCELED_RESERVATION"
	ResultEvseOccupied        ResultType = "EVSE_OCCUPIED"
	ResultEvseInoperative     ResultType = "EVSE_INOPERATIVE"
	ResultFailed              ResultType = "FAILED"
	ResultNotSupported        ResultType = "NOT_SUPPORTED"
	ResultRejected            ResultType = "REJECTED"
	ResultTimeout             ResultType = "TIMEOUT"
	ResultUnknownReservation  ResultType = "UNKNOWN_RESERVATION"
)

// Result is the asynchronous outcome posted to the partner's response url
type Result struct {
	Result  ResultType           `json:"result"`
	Message []common.DisplayText `json:"message,omitempty"`
}
