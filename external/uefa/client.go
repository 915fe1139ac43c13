// Package uefa resolves UEFA match ids to the public match feed documents.
package uefa

import (
	"context"
	"net/url"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchfeed/internal/platform/logging"
	"github.com/riskibarqy/matchfeed/internal/provider"
)

const (
	DefaultBaseURL = "https://match.uefa.com/v5"
	eventPageLimit = "500"
)

// Loader reads a document from a location.
type Loader interface {
	Load(ctx context.Context, location string) ([]byte, error)
}

type ClientConfig struct {
	BaseURL string
	Loader  Loader
	Logger  *logging.Logger
}

type Client struct {
	baseURL string
	loader  Loader
	logger  *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		loader:  cfg.Loader,
		logger:  logger.Named("uefa_client"),
	}
}

func (c *Client) LineupsURL(matchID string) string {
	return c.baseURL + "/matches/" + url.PathEscape(matchID) + "/lineups"
}

func (c *Client) EventsURL(matchID string) string {
	query := url.Values{}
	query.Set("filter", "ALL")
	query.Set("offset", "0")
	query.Set("limit", eventPageLimit)
	return c.baseURL + "/matches/" + url.PathEscape(matchID) + "/events?" + query.Encode()
}

// FetchMatch loads the lineups and events documents of one match.
func (c *Client) FetchMatch(ctx context.Context, matchID string) (provider.Inputs, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return provider.Inputs{}, crerr.New("empty uefa match id")
	}

	lineups, err := c.loader.Load(ctx, c.LineupsURL(matchID))
	if err != nil {
		return provider.Inputs{}, crerr.Wrapf(err, "fetch lineups for match %s", matchID)
	}
	events, err := c.loader.Load(ctx, c.EventsURL(matchID))
	if err != nil {
		return provider.Inputs{}, crerr.Wrapf(err, "fetch events for match %s", matchID)
	}

	c.logger.DebugContext(ctx, "fetched uefa match", "match_id", matchID, "lineups_bytes", len(lineups), "events_bytes", len(events))
	return provider.Inputs{Metadata: lineups, Events: events}, nil
}
