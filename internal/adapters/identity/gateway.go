package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Gateway calls the external identity provider's account-lifecycle hooks.
// Fire-and-forget from the caller's point of view: there is no two-phase
// guarantee between our aggregates and the provider.
type Gateway struct {
	baseURL string
	client  *http.Client
}

func NewGateway(baseURL string) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *Gateway) post(ctx context.Context, path, accountID string) error {
	endpoint := g.baseURL + path + "/" + url.PathEscape(accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("identity provider returned %s for %s", resp.Status, path)
	}
	return nil
}

func (g *Gateway) MarkSignedUp(ctx context.Context, accountID string) error {
	return g.post(ctx, "/accounts/signed-up", accountID)
}

func (g *Gateway) RemoveAccount(ctx context.Context, accountID string) error {
	return g.post(ctx, "/accounts/remove", accountID)
}

// Noop stands in when no provider is configured (local runs, tests).
type Noop struct {
	Log *zap.Logger
}

func (n Noop) MarkSignedUp(ctx context.Context, accountID string) error {
	if n.Log != nil {
		n.Log.Debug("identity noop: mark signed up", zap.String("account_id", accountID))
	}
	return nil
}

func (n Noop) RemoveAccount(ctx context.Context, accountID string) error {
	if n.Log != nil {
		n.Log.Debug("identity noop: remove account", zap.String("account_id", accountID))
	}
	return nil
}
