// Package provider is the client for the identity provider's HTTP API
// (Twitch by default): profile lookup, token revocation, and the OAuth2
// endpoint used to build authorization URLs.
//
// A Client is owned by exactly one session manager. The manager arms it
// with the session's access token after sign-in and disarms it on sign-out;
// everything else calls the API through HTTPClient and observes the change
// immediately:
//
//	c := provider.NewClient(provider.DefaultConfig(clientID))
//	c.Arm(token)
//	resp, err := c.HTTPClient().Get("https://api.twitch.tv/helix/streams/followed")
//
// Requests always carry the Client-Id header that Helix requires.
package provider
