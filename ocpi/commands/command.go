package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"evocpi/entity"
	"github.com/go-playground/validator/v10"
)

type Kind string

const (
	ReserveNowKind        Kind = "RESERVE_NOW"
	CancelReservationKind Kind = "CANCEL_RESERVATION"
	StartSessionKind      Kind = "START_SESSION"
	StopSessionKind       Kind = "STOP_SESSION"
	UnlockConnectorKind   Kind = "UNLOCK_CONNECTOR"
)

var Kinds = []Kind{ReserveNowKind, CancelReservationKind, StartSessionKind, StopSessionKind, UnlockConnectorKind}

var ErrUnknownCommand = errors.New("unknown command")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Command is one of the remote commands a partner can issue
type Command interface {
	Kind() Kind
	// ResponseUrl is where the asynchronous command result is to be posted
	ResponseUrl() string
}

type ReserveNow struct {
	ResponseURL            string       `json:"response_url" validate:"required,url"`
	Token                  entity.Token `json:"token" validate:"required"`
	ExpiryDate             time.Time    `json:"expiry_date" validate:"required"`
	ReservationId          string       `json:"reservation_id" validate:"required,max=36"`
	LocationId             string       `json:"location_id" validate:"required,max=36"`
	EvseUid                string       `json:"evse_uid,omitempty" validate:"omitempty,max=36"`
	AuthorizationReference string       `json:"authorization_reference,omitempty" validate:"omitempty,max=36"`
}

func (c *ReserveNow) Kind() Kind          { return ReserveNowKind }
func (c *ReserveNow) ResponseUrl() string { return c.ResponseURL }

type CancelReservation struct {
	ResponseURL   string `json:"response_url" validate:"required,url"`
	ReservationId string `json:"reservation_id" validate:"required,max=36"`
}

func (c *CancelReservation) Kind() Kind          { return CancelReservationKind }
func (c *CancelReservation) ResponseUrl() string { return c.ResponseURL }

type StartSession struct {
	ResponseURL            string       `json:"response_url" validate:"required,url"`
	Token                  entity.Token `json:"token" validate:"required"`
	LocationId             string       `json:"location_id" validate:"required,max=36"`
	EvseUid                string       `json:"evse_uid,omitempty" validate:"omitempty,max=36"`
	ConnectorId            string       `json:"connector_id,omitempty" validate:"omitempty,max=36"`
	AuthorizationReference string       `json:"authorization_reference,omitempty" validate:"omitempty,max=36"`
}

func (c *StartSession) Kind() Kind          { return StartSessionKind }
func (c *StartSession) ResponseUrl() string { return c.ResponseURL }

type StopSession struct {
	ResponseURL string `json:"response_url" validate:"required,url"`
	SessionId   string `json:"session_id" validate:"required,max=36"`
}

func (c *StopSession) Kind() Kind          { return StopSessionKind }
func (c *StopSession) ResponseUrl() string { return c.ResponseURL }

type UnlockConnector struct {
	ResponseURL string `json:"response_url" validate:"required,url"`
	LocationId  string `json:"location_id" validate:"required,max=36"`
	EvseUid     string `json:"evse_uid" validate:"required,max=36"`
	ConnectorId string `json:"connector_id" validate:"required,max=36"`
}

func (c *UnlockConnector) Kind() Kind          { return UnlockConnectorKind }
func (c *UnlockConnector) ResponseUrl() string { return c.ResponseURL }

// ParseKind maps a path segment to a command kind
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCommand, s)
}

func newCommand(kind Kind) (Command, error) {
	switch kind {
	case ReserveNowKind:
		return &ReserveNow{}, nil
	case CancelReservationKind:
		return &CancelReservation{}, nil
	case StartSessionKind:
		return &StartSession{}, nil
	case StopSessionKind:
		return &StopSession{}, nil
	case UnlockConnectorKind:
		return &UnlockConnector{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, kind)
}

// Parse decodes and validates the request body of a command
func Parse(kind Kind, body []byte) (Command, error) {
	command, err := newCommand(kind)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty body")
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	if err = decoder.Decode(command); err != nil {
		return nil, err
	}
	var trailing json.RawMessage
	if err = decoder.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the command object")
	}
	if err = validate.Struct(command); err != nil {
		return nil, err
	}
	return command, nil
}
