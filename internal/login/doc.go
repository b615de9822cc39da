// Package login implements the browser-facing side of a Twitch authorization code
// grant, the end result of which is a session that records the user's Twitch name.
//
// The flow works like this:
//
// 1. The user visits GET /login. We make sure they have a persisted session, then
// render a page linking to the provider's authorize endpoint, passing the session's ID
// as the 'state' parameter.
//
// 2. After the user grants access, the provider redirects them to GET /oauth with
// 'state' and 'code' query params. We require that 'state' is exactly the ID of the
// session presented with that request, which ties the callback to the browser that
// initiated the flow.
//
// 3. We exchange the code for an access token (which is stored in the session right
// away), then use the token to look up the user's name. Only once both calls succeed
// is the session marked as logged in, and the user is sent back to GET /login.
//
// 4. Every failure along the way sends the user to GET /logout, which destroys their
// session and returns them to GET /login to start over. No detail about the failure is
// shown to the user; it's only logged.
package login
