package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"github.com/nafisa/campgrounds/internal/apperror"
)

// graphMeURL is the Graph API endpoint that resolves an access token to the
// profile of the user it was issued for.
const graphMeURL = "https://graph.facebook.com/v19.0/me"

// FacebookProfile is the portion of the Graph API /me response we care
// about. The id is Facebook's stable user id — it is what links a Facebook
// identity to a local account.
type FacebookProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`       // display name, becomes the local username on first login
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FacebookProvider verifies client-supplied Facebook access tokens.
//
// Unlike the classic authorization-code flow, the client here performs the
// Facebook login itself and hands the resulting access token to this API.
// Our job is only to verify it: present the token to the Graph API and trust
// the profile that comes back. If Facebook accepts the token, the identity
// is considered proven.
type FacebookProvider struct {
	config *oauth2.Config
	// meURL is overridable in tests to point at a stub Graph API.
	meURL string
}

// NewFacebookProvider creates a FacebookProvider with the given app
// credentials. The credentials are loaded once at startup and passed in
// here; the provider is read-only after construction.
func NewFacebookProvider(clientID, clientSecret string) *FacebookProvider {
	return &FacebookProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{"public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		meURL: graphMeURL,
	}
}

// VerifyToken exchanges an access token for the verified profile it belongs
// to.
//
// oauth2.Config.Client wraps the token in a client that adds the
// Authorization header on every request, same as the server-side flow would
// after a code exchange. Any transport failure, non-200 response, or empty
// profile id is reported as apperror.ErrProvider.
func (p *FacebookProvider) VerifyToken(ctx context.Context, accessToken string) (*FacebookProfile, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("auth: %w: empty access token", apperror.ErrProvider)
	}

	client := p.config.Client(ctx, &oauth2.Token{AccessToken: accessToken})

	u := p.meURL + "?fields=" + url.QueryEscape("id,name,first_name,last_name")
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("auth: %w: calling Graph API: %w", apperror.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: %w: Graph API returned status %d", apperror.ErrProvider, resp.StatusCode)
	}

	var profile FacebookProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("auth: %w: decoding Graph API response: %w", apperror.ErrProvider, err)
	}

	if profile.ID == "" {
		return nil, fmt.Errorf("auth: %w: Graph API returned a profile without an id", apperror.ErrProvider)
	}

	return &profile, nil
}
