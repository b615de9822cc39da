// Package twitch talks to Twitch (or any provider laid out like it) on behalf of the
// login flow: it builds the URL that starts an authorization code grant, exchanges the
// resulting authorization code for an access token, and resolves that access token to
// the name of the user who granted it.
//
// Every outbound call is a single attempt bounded by an explicit timeout. Failures are
// deliberately coarse: any problem with the token exchange (transport error, non-2xx
// status, a payload without an access_token) is reported as ErrExchangeFailed, and any
// problem resolving the user is reported as ErrResolveFailed.
//
// The user name can be resolved in one of two ways, chosen by Config.IdentityAPI:
//
// - "kraken" issues a GET against the provider's base URL with an
// 'Authorization: OAuth <token>' header and reads 'token.user_name' from the response
// - "helix" calls the token validation endpoint via github.com/nicklaw5/helix/v2 and
// reads 'login' from the response
package twitch
