package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"sheetsync/internal/config"
)

// ReadOnlyScope is the OAuth scope needed to read spreadsheets.
const ReadOnlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

// ErrNoCredentials is returned when no way to authenticate is configured.
var ErrNoCredentials = errors.New(
	"no Google credentials found: set GOOGLE_SERVICE_ACCOUNT_JSON_FILE, GOOGLE_SERVICE_ACCOUNT_JSON " +
		"or GOOGLE_API_KEY, or place service_account.json in the working directory")

// NewHTTPClient builds an HTTP client authorized for the Sheets API.
//
// Credentials are tried in order: the configured service account file (if it
// exists), inline service account JSON, service_account.json in the working
// directory, then an API key. With an API key the returned
// client is unauthenticated and the key travels as a query parameter.
func NewHTTPClient(ctx context.Context, cfg config.SourceConfig) (*http.Client, error) {
	creds, err := loadServiceAccount(cfg, config.DefaultCredentialsFile)
	if err != nil {
		return nil, err
	}

	if creds == nil {
		if cfg.APIKey == "" {
			return nil, ErrNoCredentials
		}

		return &http.Client{Timeout: cfg.GetTimeout()}, nil
	}

	found, err := google.CredentialsFromJSON(ctx, creds, ReadOnlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	client := oauth2.NewClient(ctx, found.TokenSource)
	client.Timeout = cfg.GetTimeout()

	return client, nil
}

// loadServiceAccount returns the raw service account JSON, or nil if none is
// configured. The configured file wins if it exists, then inline JSON, then
// defaultPath in the working directory.
func loadServiceAccount(cfg config.SourceConfig, defaultPath string) ([]byte, error) {
	if cfg.CredentialsFile != "" {
		data, err := readIfExists(cfg.CredentialsFile)
		if data != nil || err != nil {
			return data, err
		}
	}

	if cfg.CredentialsJSON != "" {
		return []byte(cfg.CredentialsJSON), nil
	}

	if defaultPath == "" {
		return nil, nil
	}

	return readIfExists(defaultPath)
}

// readIfExists returns (nil, nil) for a missing file.
func readIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, nil
	default:
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}
}
