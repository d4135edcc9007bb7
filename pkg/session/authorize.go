package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/oauth2"
)

// Implicit grant: the token comes back in the redirect, no code exchange.
const responseTypeToken = "token"

// authorizationURL builds the provider URL for one sign-in attempt. The
// provider is told to ask the user to confirm even with an existing
// provider-side session.
func (m *Manager) authorizationURL(state string) string {
	oc := oauth2.Config{
		ClientID:    m.cfg.ClientID,
		RedirectURL: m.cfg.RedirectURL,
		Scopes:      m.cfg.Scopes,
		Endpoint:    m.client.Endpoint(),
	}
	return oc.AuthCodeURL(state,
		oauth2.SetAuthURLParam("response_type", responseTypeToken),
		oauth2.SetAuthURLParam("force_verify", "true"),
	)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func stateMatches(issued, returned string) bool {
	return issued != "" && subtle.ConstantTimeCompare([]byte(issued), []byte(returned)) == 1
}
