package commands

import (
	"context"
	"fmt"

	"evocpi/ocpi/client"
)

// Forwarder hands commands to the charge point management backend and
// returns its synchronous answer
type Forwarder struct {
	client *client.Client
}

// NewForwarder builds the backend client; commands are not idempotent so
// each one is sent exactly once
func NewForwarder(url, token string, opts ...client.Option) *Forwarder {
	opts = append(opts, client.WithRetry(1, 0))
	return &Forwarder{client: client.New(url, token, opts...)}
}

type forwardedCommand struct {
	Kind          Kind    `json:"kind"`
	RemotePartyId string  `json:"remote_party_id"`
	From          string  `json:"from,omitempty"`
	To            string  `json:"to,omitempty"`
	Command       Command `json:"command"`
}

func partyString(countryCode, partyId string) string {
	if countryCode == "" && partyId == "" {
		return ""
	}
	return countryCode + "*" + partyId
}

func (f *Forwarder) Handle(ctx context.Context, request *Request) (*Response, error) {
	payload := forwardedCommand{
		Kind:          request.Kind,
		RemotePartyId: request.RemotePartyId,
		From:          partyString(request.From.CountryCode, request.From.PartyId),
		To:            partyString(request.To.CountryCode, request.To.PartyId),
		Command:       request.Command,
	}
	response := &Response{}
	if err := f.client.Post(ctx, "/commands/"+string(request.Kind), payload, response); err != nil {
		return nil, fmt.Errorf("forwarding %s: %w", request.Kind, err)
	}
	if response.Result == "" {
		return nil, nil
	}
	return response, nil
}

// RegisterAll installs the forwarder for every command kind
func (f *Forwarder) RegisterAll(d *Dispatcher) error {
	for _, kind := range Kinds {
		if err := d.Register(kind, f.Handle); err != nil {
			return err
		}
	}
	return nil
}
