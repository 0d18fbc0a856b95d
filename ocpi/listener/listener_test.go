package listener

import (
	"context"
	"errors"
	"testing"

	"evocpi/internal"
	"evocpi/ocpi/commands"
	"github.com/stretchr/testify/assert"
)

type sent struct {
	partyId     string
	responseUrl string
	result      commands.ResultType
}

type recordingSender struct {
	sent []sent
	err  error
}

func (s *recordingSender) SendResult(_ context.Context, partyId, responseUrl string, result *commands.Result) error {
	s.sent = append(s.sent, sent{partyId, responseUrl, result.Result})
	return s.err
}

func TestHandle(t *testing.T) {
	sender := &recordingSender{}
	l := New(nil, "results", sender, internal.NewNopLogger())

	l.Handle(context.Background(), []byte(`{"party_id":"NL-EXA","response_url":"https://emsp.example.com/r/1","result":{"result":"ACCEPTED"}}`))
	l.Handle(context.Background(), []byte(`not json`))
	l.Handle(context.Background(), []byte(`{"party_id":"NL-EXA","result":{"result":"FAILED"}}`))

	assert.Equal(t, []sent{{"NL-EXA", "https://emsp.example.com/r/1", commands.ResultAccepted}}, sender.sent)
}

func TestHandle_SenderErrorIsLogged(t *testing.T) {
	sender := &recordingSender{err: errors.New("partner offline")}
	l := New(nil, "results", sender, internal.NewNopLogger())

	assert.NotPanics(t, func() {
		l.Handle(context.Background(), []byte(`{"party_id":"A","response_url":"https://a.example.com","result":{"result":"TIMEOUT"}}`))
	})
	assert.Len(t, sender.sent, 1)
}
