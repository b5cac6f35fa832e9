package authenticator

import (
	"context"

	"golang.org/x/oauth2"
)

type TokenEngine[T any] interface {
	Generate(sub string, obj T) (string, error)
	Verify(token string) (T, error)
}

// ServiceUser is the identity extracted from a verified federated token.
type ServiceUser struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

type IOAuth2Service interface {
	Service() string

	// AuthCodeURL builds the redirect URL of the server-side code flow.
	AuthCodeURL(state string) string

	// Exchange turns an authorization code into an oauth2 token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// VerifyIDToken verifies a raw OIDC ID token issued for our client and
	// returns the federated identity it carries.
	VerifyIDToken(ctx context.Context, rawIDToken string) (ServiceUser, error)

	// VerifyExchangedToken extracts and verifies the id_token of an exchanged
	// oauth2 token.
	VerifyExchangedToken(ctx context.Context, token *oauth2.Token) (ServiceUser, error)
}
