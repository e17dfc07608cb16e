package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tokenops/serialfind/internal/inventory/usecase"
	"github.com/tokenops/serialfind/internal/pkg/eventbus"
	"github.com/tokenops/serialfind/internal/pkg/instrument"
	"github.com/tokenops/serialfind/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

// Audit events are advisory for the caller but valuable for review, so a
// transient broker hiccup gets a short retry before we give up.
const (
	publishRetries = 3
	publishBackoff = 100 * time.Millisecond
)

type Messaging struct {
	client eventbus.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client eventbus.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishSerialSearch(ctx context.Context, msg usecase.SerialSearchEvent) error {
	ctx, span := m.ins.Tracer("inventory.outbound.mq").Start(ctx, "PublishSerialSearch")
	defer span.End()

	body, err := json.Marshal(event.SerialSearchMessage{
		EventID:    msg.EventID,
		Outcome:    msg.Outcome,
		Serial:     msg.Serial,
		Candidates: msg.Candidates,
		Skipped:    msg.Skipped,
		Window:     msg.Window,
		Filter:     msg.Filter,
		OTPDigest:  msg.OTPDigest,
		At:         msg.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	out := eventbus.OutgoingMessage{
		Body:    body,
		Key:     []byte(msg.OTPDigest),
		Headers: []eventbus.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}

	backoff := retry.WithMaxRetries(publishRetries, retry.NewExponential(publishBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if _, perr := m.client.Publish(ctx, event.SerialSearchDestination, out); perr != nil {
			return retry.RetryableError(perr)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
