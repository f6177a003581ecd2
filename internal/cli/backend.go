package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"baby-tracker/internal/config"
	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/domain/timeline"
	"baby-tracker/internal/platform/httpclient"
	"baby-tracker/internal/platform/logger"
)

// backend es lo que usan add/list/timeline/summary: el store local o un servidor remoto.
type backend interface {
	Add(ctx context.Context, req events.CreateRequest) (events.EventResponse, error)
	Recent(ctx context.Context, n int) (events.View, error)
	Timeline(ctx context.Context, days int) ([]timeline.Day, error)
	Summary(ctx context.Context, days int) ([]events.DaySummary, error)
	Close() error
}

func newBackend(ctx context.Context, opts *RootOptions, cfg *config.Config, log logger.Logger) (backend, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid timezone", err)
	}

	if opts.Server != "" {
		c, err := httpclient.NewWithBaseURL(opts.Server, httpclient.DefaultTimeout)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --server", err)
		}
		log.Debug("using remote backend", map[string]any{"server": opts.Server})
		return &remoteBackend{client: c, loc: loc}, nil
	}

	a, err := openApp(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &localBackend{app: a}, nil
}

type localBackend struct {
	app *app
}

func (b *localBackend) Add(ctx context.Context, req events.CreateRequest) (events.EventResponse, error) {
	loc := b.app.svc.Schema().Location()
	in, err := req.ToInput(loc)
	if err != nil {
		return events.EventResponse{}, err
	}
	e, err := b.app.svc.Create(ctx, in)
	if err != nil {
		return events.EventResponse{}, err
	}
	return events.NewEventResponse(e, loc), nil
}

func (b *localBackend) Recent(ctx context.Context, n int) (events.View, error) {
	return b.app.svc.Recent(ctx, n)
}

func (b *localBackend) Timeline(ctx context.Context, days int) ([]timeline.Day, error) {
	records, err := b.app.svc.Records(ctx)
	if err != nil {
		return nil, err
	}
	intervals, err := b.app.builder.BuildRecords(b.app.svc.Schema(), records, days)
	if err != nil {
		return nil, err
	}
	return timeline.GroupByDay(intervals), nil
}

func (b *localBackend) Summary(ctx context.Context, days int) ([]events.DaySummary, error) {
	return b.app.svc.Summary(ctx, days)
}

func (b *localBackend) Close() error { return b.app.Close() }

type remoteBackend struct {
	client *httpclient.Client
	loc    *time.Location
}

func (b *remoteBackend) Add(ctx context.Context, req events.CreateRequest) (events.EventResponse, error) {
	var out events.EventResponse
	if err := b.client.DoJSON(ctx, http.MethodPost, "/api/events", req, &out); err != nil {
		return events.EventResponse{}, remoteError(err)
	}
	return out, nil
}

func (b *remoteBackend) Recent(ctx context.Context, n int) (events.View, error) {
	var out events.ViewResponse
	if err := b.client.DoJSON(ctx, http.MethodGet, withInt("/api/events/recent", "n", n), nil, &out); err != nil {
		return events.View{}, remoteError(err)
	}
	return out.View()
}

func (b *remoteBackend) Timeline(ctx context.Context, days int) ([]timeline.Day, error) {
	var out []timeline.DayResponse
	if err := b.client.DoJSON(ctx, http.MethodGet, withInt("/api/timeline", "days", days), nil, &out); err != nil {
		return nil, remoteError(err)
	}
	return timeline.Days(out, b.loc)
}

func (b *remoteBackend) Summary(ctx context.Context, days int) ([]events.DaySummary, error) {
	var out []events.DaySummaryResponse
	if err := b.client.DoJSON(ctx, http.MethodGet, withInt("/api/summary", "days", days), nil, &out); err != nil {
		return nil, remoteError(err)
	}
	sums := make([]events.DaySummary, 0, len(out))
	for _, r := range out {
		s, err := r.DaySummary(b.loc)
		if err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}
	return sums, nil
}

func (b *remoteBackend) Close() error { return nil }

func withInt(path, key string, v int) string {
	if v <= 0 {
		return path
	}
	return path + "?" + url.Values{key: {strconv.Itoa(v)}}.Encode()
}

// remoteError recupera el error del dominio a partir del status HTTP.
func remoteError(err error) error {
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) {
		return fmt.Errorf("%w: %v", events.ErrStoreUnavailable, err)
	}

	var sentinel error
	switch httpErr.StatusCode {
	case http.StatusBadRequest:
		sentinel = events.ErrInvalidInput
	case http.StatusNotFound:
		sentinel = events.ErrRecordNotFound
	case http.StatusConflict:
		sentinel = events.ErrAmbiguousDeletion
	case http.StatusUnprocessableEntity:
		sentinel = events.ErrSchemaMismatch
	case http.StatusServiceUnavailable:
		sentinel = events.ErrStoreUnavailable
	default:
		return err
	}
	return fmt.Errorf("%w (server: %s)", sentinel, httpErr.Body)
}
