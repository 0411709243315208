package service

import (
	"context"

	"mbot/internal/core/keyword"
	"mbot/internal/core/replies"
	perr "mbot/internal/platform/errors"
	"mbot/internal/services/pipeline/domain"
)

// KeywordResponder answers from the keyword table, falling back to the generator
type KeywordResponder struct {
	Table     *keyword.Table
	Generator domain.Generator
}

// Respond implements domain.Responder. A failing or missing generator is a GenerativeFailure
// for this event only
func (r KeywordResponder) Respond(ctx context.Context, ev domain.Event) (domain.Response, error) {
	if e, ok := r.Table.Lookup(ev.Payload); ok {
		return domain.Response{Text: e.Reply, Event: ev, Origin: domain.OriginKeyword, Keyword: e.Keyword}, nil
	}
	if r.Generator == nil {
		return domain.Response{}, perr.GenerativeFailuref("no keyword matched and no generator is configured")
	}
	text, err := r.Generator.Generate(ctx, ev.Payload)
	if err != nil {
		if !perr.IsCode(err, perr.ErrorCodeGenerativeFailure) {
			err = perr.Wrap(err, perr.ErrorCodeGenerativeFailure, "generate")
		}
		return domain.Response{}, err
	}
	return domain.Response{Text: text, Event: ev, Origin: domain.OriginGenerative}, nil
}

// GreetingResponder renders a fixed greeting for the joining user. No external calls
type GreetingResponder struct {
	Template string
}

// Respond implements domain.Responder
func (r GreetingResponder) Respond(_ context.Context, ev domain.Event) (domain.Response, error) {
	return domain.Response{Text: replies.Render(r.Template, ev.Payload), Event: ev, Origin: domain.OriginGreeting}, nil
}
