package relay

import (
	"context"
	"errors"
	"fmt"

	"evocpi/internal"
	"evocpi/ocpi/client"
	"evocpi/ocpi/commands"
)

const featureName = "CommandRelay"

var ErrNoRemoteAccess = errors.New("partner has no active remote access")

// Relay posts asynchronous command results back to the partner that issued the command
type Relay struct {
	directory internal.PartnerDirectory
	clients   *Clients
	options   []client.Option
	log       internal.LogHandler
}

func New(directory internal.PartnerDirectory, clients *Clients, log internal.LogHandler, opts ...client.Option) *Relay {
	return &Relay{
		directory: directory,
		clients:   clients,
		options:   opts,
		log:       log,
	}
}

func (r *Relay) SendResult(ctx context.Context, partyId, responseUrl string, result *commands.Result) error {
	party, err := r.directory.Party(ctx, partyId)
	if err != nil {
		return fmt.Errorf("looking up partner %s: %w", partyId, err)
	}
	access, ok := party.ActiveAccess()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRemoteAccess, partyId)
	}
	c := r.clients.GetOrCreate(party.Id, access.Token, func() *client.Client {
		return client.New(access.VersionsUrl, access.Token, r.options...)
	})
	if err = c.Post(ctx, responseUrl, result, nil); err != nil {
		return fmt.Errorf("posting result to %s: %w", partyId, err)
	}
	r.log.FeatureEvent(featureName, partyId, fmt.Sprintf("result %s delivered", result.Result))
	return nil
}
