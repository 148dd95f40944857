package gcal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/omriShneor/booking_assistant/internal/logging"
)

// ErrNotAuthenticated is returned when the calendar service has no usable
// credentials yet.
var ErrNotAuthenticated = errors.New("google calendar not authenticated")

// Client wraps the Google Calendar API client. It implements
// agent.CalendarBackend against a single calendar.
type Client struct {
	service    *calendar.Service
	calendarID string
	config     *oauth2.Config
	tokenFile  string
	token      *oauth2.Token
	location   *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

// Options configures a Client.
type Options struct {
	CalendarID string
	Location   *time.Location
	Logger     *zap.Logger
}

func newClient(opts Options) *Client {
	calendarID := opts.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		calendarID: calendarID,
		location:   loc,
		now:        time.Now,
		logger:     logging.OrNop(opts.Logger).Named("gcal"),
	}
}

// NewClient creates a Google Calendar client authenticated with an installed
// app OAuth token. A missing or stale token is not an error; the client
// reports IsAuthenticated() == false until ExchangeCode succeeds.
func NewClient(credentialsFile, tokenFile string, opts Options) (*Client, error) {
	config, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth config: %w", err)
	}

	client := newClient(opts)
	client.config = config
	client.tokenFile = tokenFile

	token, err := loadToken(tokenFile)
	if err == nil {
		client.token = token
		if err := client.tryInitService(); err != nil {
			// Token might be expired, but that's OK - user will need to re-auth
			client.logger.Warn("could not initialize calendar service with existing token", zap.Error(err))
		}
	}

	return client, nil
}

// NewServiceAccountClient creates a client from service account key JSON.
func NewServiceAccountClient(ctx context.Context, credentialsJSON []byte, opts Options) (*Client, error) {
	jwtConfig, err := serviceAccountConfig(credentialsJSON)
	if err != nil {
		return nil, err
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	client := newClient(opts)
	client.service = service
	return client, nil
}

// NewServiceAccountClientFromFile reads the key from path.
func NewServiceAccountClientFromFile(ctx context.Context, path string, opts Options) (*Client, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}
	return NewServiceAccountClient(ctx, data, opts)
}

// NewClientWithService wraps an already constructed calendar service.
func NewClientWithService(service *calendar.Service, opts Options) *Client {
	client := newClient(opts)
	client.service = service
	return client
}

// tryInitService attempts to initialize the service, refreshing the token if needed
func (c *Client) tryInitService() error {
	if c.token == nil {
		return fmt.Errorf("no token available")
	}

	ctx := context.Background()

	if !c.token.Valid() && c.token.RefreshToken != "" {
		tokenSource := c.config.TokenSource(ctx, c.token)
		newToken, err := tokenSource.Token()
		if err != nil {
			return fmt.Errorf("failed to refresh token: %w", err)
		}
		c.token = newToken
		if err := saveToken(c.tokenFile, newToken); err != nil {
			c.logger.Warn("could not save refreshed token", zap.Error(err))
		}
	}

	return c.initService(ctx)
}

// IsAuthenticated returns true if the client is authenticated
func (c *Client) IsAuthenticated() bool {
	return c.service != nil
}

// CalendarID is the calendar all operations target.
func (c *Client) CalendarID() string {
	return c.calendarID
}

// GetAuthURL returns the OAuth authorization URL
func (c *Client) GetAuthURL() string {
	if c.config == nil {
		return ""
	}
	return c.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// initService initializes the Calendar service with the current token
func (c *Client) initService(ctx context.Context) error {
	if c.token == nil {
		return fmt.Errorf("no token available")
	}

	httpClient := c.config.Client(ctx, c.token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("failed to create calendar service: %w", err)
	}

	c.service = service
	return nil
}

// ExchangeCode exchanges an authorization code for a token and saves it
func (c *Client) ExchangeCode(ctx context.Context, code string) error {
	if c.config == nil {
		return fmt.Errorf("client was not created with OAuth credentials")
	}

	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code for token: %w", err)
	}

	c.token = token
	if err := saveToken(c.tokenFile, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return c.initService(ctx)
}
