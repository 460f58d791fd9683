// Package identity loads the platform service-account credential used to
// authorize outbound operations. The credential is consumed as an opaque
// token source; no identity business logic lives in this server.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const scope = "https://www.googleapis.com/auth/firebase"

// Provider is the initialized platform identity. Construction performs a
// token fetch as the init probe; a Provider that exists is healthy.
type Provider struct {
	projectID   string
	clientEmail string
	source      oauth2.TokenSource
	log         *zap.SugaredLogger
}

// NewProvider reads the service-account key file and verifies it by
// fetching an initial token. Callers treat any error as fatal at startup.
func NewProvider(ctx context.Context, credentialsFile string, log *zap.SugaredLogger) (*Provider, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading service account key %s: %w", credentialsFile, err)
	}

	cfg, err := google.JWTConfigFromJSON(raw, scope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}

	var key struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}

	source := cfg.TokenSource(ctx)
	if _, err := source.Token(); err != nil {
		return nil, fmt.Errorf("fetching initial service account token: %w", err)
	}

	p := &Provider{
		projectID:   key.ProjectID,
		clientEmail: cfg.Email,
		source:      source,
		log:         log.Named("identity"),
	}
	p.log.Infow("Platform identity initialized",
		"projectID", p.projectID,
		"clientEmail", p.clientEmail)
	return p, nil
}

// ProjectID returns the platform project this credential belongs to.
func (p *Provider) ProjectID() string {
	return p.projectID
}

// TokenSource exposes the underlying token source for outbound clients.
func (p *Provider) TokenSource() oauth2.TokenSource {
	return p.source
}

// Healthy reports whether the provider holds a usable credential.
func (p *Provider) Healthy() bool {
	return p != nil && p.source != nil
}
