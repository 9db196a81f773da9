package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/hveem/calwatch/config"
)

// Service interacts with the Google Calendar API. It implements EventSource.
type Service struct {
	service *calendar.Service
	loader  config.Loader
}

// NewService creates and initializes a new Service.
func NewService(loader config.Loader) (*Service, error) {
	credBytes, err := loader.LoadCredentials()
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	token, err := loadOrObtainToken(credBytes, loader)
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	client := oauthClient(credBytes, token)

	srv, err := calendar.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}

	return &Service{service: srv, loader: loader}, nil
}

// loadOrObtainToken loads a token from storage or obtains a new one if necessary.
func loadOrObtainToken(credBytes []byte, loader config.Loader) (*oauth2.Token, error) {
	tokenBytes, err := loader.LoadToken()
	if err == nil { // Token found in storage
		var tok oauth2.Token
		if err := json.Unmarshal(tokenBytes, &tok); err != nil {
			return nil, fmt.Errorf("unmarshalling token: %w", err)
		}
		return &tok, nil
	}

	// No token found, initiate OAuth2 flow
	return getTokenFromWeb(credBytes, loader)
}

// oauthClient creates an OAuth2 client.
func oauthClient(credBytes []byte, token *oauth2.Token) *http.Client {
	conf, err := google.ConfigFromJSON(credBytes, calendar.CalendarReadonlyScope)
	if err != nil {
		log.Fatalf("parsing credentials: %v", err) // Fatal error if credentials are invalid
	}
	return conf.Client(context.Background(), token)
}

// ListPage executes one page of a calendar list query. The defaults
// (ordering by start time, expanded single events, page size) are merged
// with the query's own parameters here.
func (s *Service) ListPage(ctx context.Context, q Query) (*calendar.Events, error) {
	call := s.service.Events.List(q.CalendarID).
		OrderBy(orderByStartTime).
		SingleEvents(true).
		MaxResults(q.PageSize()).
		Context(ctx)

	if q.Search != "" {
		call = call.Q(q.Search)
	}
	if !q.TimeMin.IsZero() {
		call = call.TimeMin(q.TimeMin.Format(time.RFC3339))
	}
	if !q.TimeMax.IsZero() {
		call = call.TimeMax(q.TimeMax.Format(time.RFC3339))
	}
	if q.PageToken != "" {
		call = call.PageToken(q.PageToken)
	}

	events, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("retrieving events: %w", err)
	}
	return events, nil
}
