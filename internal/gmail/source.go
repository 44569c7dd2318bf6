// Package gmail fetches Monzo notification emails from a Gmail mailbox.
package gmail

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/finance-dashboard/monzo-mail/internal/model"
)

// DefaultQuery matches Monzo card payment and money received alerts.
const DefaultQuery = "from:monzo.com subject:💳 OR subject:💰"

const (
	maxPageSize        = 500
	defaultConcurrency = 8
)

// API is the part of the Gmail API the source needs.
type API interface {
	ListMessageIDs(ctx context.Context, user, query, pageToken string, pageSize int64) (ids []string, next string, err error)
	GetMessage(ctx context.Context, user, id string) (model.RawNotification, error)
}

// Source lists messages matching a query and fetches their Subject and
// Date headers.
type Source struct {
	api         API
	user        string
	query       string
	concurrency int
}

// Option configures a Source.
type Option func(*Source)

// WithQuery overrides DefaultQuery.
func WithQuery(q string) Option {
	return func(s *Source) {
		if q != "" {
			s.query = q
		}
	}
}

// WithConcurrency bounds parallel message fetches.
func WithConcurrency(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewSource creates a Source for user ("me" when empty).
func NewSource(api API, user string, opts ...Option) *Source {
	if user == "" {
		user = "me"
	}
	s := &Source{
		api:         api,
		user:        user,
		query:       DefaultQuery,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceSource wraps a Gmail API service.
func NewServiceSource(svc *gmailapi.Service, user string, opts ...Option) *Source {
	return NewSource(&serviceAPI{svc: svc}, user, opts...)
}

// Name returns the source name.
func (s *Source) Name() string { return "gmail" }

// Query returns the search query in use.
func (s *Source) Query() string { return s.query }

// Fetch returns up to max notifications in mailbox order (newest first).
func (s *Source) Fetch(ctx context.Context, max int) ([]model.RawNotification, error) {
	ids, err := s.listIDs(ctx, max)
	if err != nil {
		return nil, err
	}

	out := make([]model.RawNotification, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, msgID := range ids {
		g.Go(func() error {
			n, err := s.api.GetMessage(gctx, s.user, msgID)
			if err != nil {
				return fmt.Errorf("getting message %s: %w", msgID, err)
			}
			out[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Source) listIDs(ctx context.Context, max int) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		pageSize := int64(maxPageSize)
		if max > 0 && max-len(ids) < maxPageSize {
			pageSize = int64(max - len(ids))
		}

		page, next, err := s.api.ListMessageIDs(ctx, s.user, s.query, pageToken, pageSize)
		if err != nil {
			return nil, fmt.Errorf("listing messages: %w", err)
		}
		ids = append(ids, page...)

		if max > 0 && len(ids) >= max {
			return ids[:max], nil
		}
		if next == "" || len(page) == 0 {
			return ids, nil
		}
		pageToken = next
	}
}

type serviceAPI struct {
	svc *gmailapi.Service
}

func (a *serviceAPI) ListMessageIDs(ctx context.Context, user, query, pageToken string, pageSize int64) ([]string, string, error) {
	call := a.svc.Users.Messages.List(user).Q(query).MaxResults(pageSize).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, "", err
	}
	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, resp.NextPageToken, nil
}

func (a *serviceAPI) GetMessage(ctx context.Context, user, id string) (model.RawNotification, error) {
	msg, err := a.svc.Users.Messages.Get(user, id).
		Format("metadata").
		MetadataHeaders("Subject", "Date").
		Context(ctx).
		Do()
	if err != nil {
		return model.RawNotification{}, err
	}
	return notificationFromMessage(msg), nil
}

var wordDecoder = new(mime.WordDecoder)

// notificationFromMessage pulls Subject and Date out of a metadata message.
// Without a Date header Gmail's receive time is used instead.
func notificationFromMessage(msg *gmailapi.Message) model.RawNotification {
	n := model.RawNotification{ID: msg.Id}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch strings.ToLower(h.Name) {
			case "subject":
				n.Subject = decodeHeader(h.Value)
			case "date":
				n.Date = h.Value
			}
		}
	}
	if n.Date == "" && msg.InternalDate > 0 {
		n.Date = time.UnixMilli(msg.InternalDate).UTC().Format(time.RFC1123Z)
	}
	return n
}

func decodeHeader(v string) string {
	decoded, err := wordDecoder.DecodeHeader(v)
	if err != nil {
		return v
	}
	return decoded
}
