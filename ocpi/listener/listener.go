package listener

import (
	"context"
	"encoding/json"
	"fmt"

	"evocpi/internal"
	"evocpi/ocpi/commands"
	"github.com/redis/go-redis/v9"
)

const featureName = "ResultListener"

// ResultMessage is published by the backend once a forwarded command completes
type ResultMessage struct {
	PartyId     string          `json:"party_id"`
	ResponseUrl string          `json:"response_url"`
	Result      commands.Result `json:"result"`
}

type Sender interface {
	SendResult(ctx context.Context, partyId, responseUrl string, result *commands.Result) error
}

// Listener relays command results received on a redis channel to partners
type Listener struct {
	client  redis.UniversalClient
	channel string
	sender  Sender
	log     internal.LogHandler
}

func New(client redis.UniversalClient, channel string, sender Sender, log internal.LogHandler) *Listener {
	return &Listener{
		client:  client,
		channel: channel,
		sender:  sender,
		log:     log,
	}
}

// Listen blocks until ctx is done
func (l *Listener) Listen(ctx context.Context) error {
	sub := l.client.Subscribe(ctx, l.channel)
	defer func() {
		_ = sub.Close()
	}()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribing to %s: %w", l.channel, err)
	}
	l.log.FeatureEvent(featureName, l.channel, "subscribed")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			l.Handle(ctx, []byte(msg.Payload))
		}
	}
}

func (l *Listener) Handle(ctx context.Context, payload []byte) {
	var message ResultMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		l.log.Error("decoding command result", err)
		return
	}
	if message.PartyId == "" || message.ResponseUrl == "" {
		l.log.Warn(fmt.Sprintf("command result without party or response url: %s", string(payload)))
		return
	}
	if err := l.sender.SendResult(ctx, message.PartyId, message.ResponseUrl, &message.Result); err != nil {
		l.log.Error("relaying command result", err)
	}
}
