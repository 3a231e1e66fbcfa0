package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/coscup/sessiongen/internal/source"
	"github.com/coscup/sessiongen/pkg/logger"
)

// PretalxOptions selects the event and the submission filter.
type PretalxOptions struct {
	ClientOptions
	Event    string
	State    string
	PageSize int
}

type pretalxRepository struct {
	http *httpClient
	opts PretalxOptions
}

// NewPretalxRepository returns a PretalxRepository for opts.BaseURL.
func NewPretalxRepository(opts PretalxOptions) PretalxRepository {
	opts.Accept = "application/json"
	return &pretalxRepository{http: newHTTPClient(opts.ClientOptions), opts: opts}
}

type page struct {
	Count   int               `json:"count"`
	Next    *string           `json:"next"`
	Results []json.RawMessage `json:"results"`
}

type namedEntity struct {
	ID   source.ID            `json:"id"`
	Code string               `json:"code"`
	Name source.LocalizedText `json:"name"`
}

// Submissions returns every submission in the configured state with answers
// and slots expanded.
func (r *pretalxRepository) Submissions(ctx context.Context) ([]source.RawRecord, error) {
	query := map[string]string{"expand": "answers,slots"}
	if r.opts.State != "" {
		query["state"] = r.opts.State
	}
	items, err := r.fetchAll(ctx, "submissions", query)
	if err != nil {
		return nil, err
	}
	records := make([]source.RawRecord, 0, len(items))
	for i, raw := range items {
		var rec source.RawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode submission %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Speakers maps speaker codes to display names.
func (r *pretalxRepository) Speakers(ctx context.Context) (map[string]string, error) {
	entities, err := r.entities(ctx, "speakers")
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entities))
	for _, e := range entities {
		if e.Code == "" {
			continue
		}
		out[e.Code] = e.Name.Pick()
	}
	return out, nil
}

// Rooms maps room ids to their localized names.
func (r *pretalxRepository) Rooms(ctx context.Context) (map[source.ID]source.LocalizedText, error) {
	return r.localized(ctx, "rooms")
}

// Tracks maps track ids to their localized names.
func (r *pretalxRepository) Tracks(ctx context.Context) (map[source.ID]source.LocalizedText, error) {
	return r.localized(ctx, "tracks")
}

func (r *pretalxRepository) localized(ctx context.Context, endpoint string) (map[source.ID]source.LocalizedText, error) {
	entities, err := r.entities(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	out := make(map[source.ID]source.LocalizedText, len(entities))
	for _, e := range entities {
		if e.ID == "" {
			continue
		}
		out[e.ID] = e.Name
	}
	return out, nil
}

func (r *pretalxRepository) entities(ctx context.Context, endpoint string) ([]namedEntity, error) {
	items, err := r.fetchAll(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	out := make([]namedEntity, 0, len(items))
	for i, raw := range items {
		var e namedEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("failed to decode %s item %d: %w", endpoint, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// fetchAll walks the next links of a paginated endpoint. Query parameters
// only go on the first request; pretalx carries them in next.
func (r *pretalxRepository) fetchAll(ctx context.Context, endpoint string, query map[string]string) ([]json.RawMessage, error) {
	log := logger.FromContext(ctx).With("endpoint", endpoint)
	first := fmt.Sprintf("/api/events/%s/%s/", url.PathEscape(r.opts.Event), endpoint)
	params := map[string]string{}
	for k, v := range query {
		params[k] = v
	}
	if r.opts.PageSize > 0 {
		params["page_size"] = strconv.Itoa(r.opts.PageSize)
	}

	var items []json.RawMessage
	next := first
	seen := map[string]bool{}
	for pageNo := 1; next != ""; pageNo++ {
		if seen[next] {
			return nil, fmt.Errorf("pretalx %s: pagination loops back to %s", endpoint, next)
		}
		seen[next] = true
		body, err := r.http.get(ctx, next, params)
		if err != nil {
			return nil, fmt.Errorf("pretalx %s page %d: %w", endpoint, pageNo, err)
		}
		var p page
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("pretalx %s page %d: invalid JSON: %w", endpoint, pageNo, err)
		}
		items = append(items, p.Results...)
		log.Debug("Fetched page", "page", pageNo, "items", len(p.Results), "total", p.Count)
		params = nil
		next = ""
		if p.Next != nil {
			next = *p.Next
		}
	}
	log.Info("Fetched endpoint", "items", len(items))
	return items, nil
}
