package login

import "html/template"

// View carries everything the login page displays
type View struct {
	Subtitle         string
	TwitchOAuthURL   string
	TwitchClientID   string
	OAuthResponseURL string
	AuthorizeURL     string
	SessionID        string
	LoggedIn         bool
	UserName         string
	LogoutPath       string
}

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Pump19 Twitch Chat Golem | {{.Subtitle}}</title></head>
<body>
<h1>{{.Subtitle}}</h1>
{{if .LoggedIn}}
<p>You are logged in as <strong>{{.UserName}}</strong>.</p>
<p><a href="{{.LogoutPath}}">Log out</a></p>
{{else}}
<p><a href="{{.AuthorizeURL}}" data-twitch-oauth-url="{{.TwitchOAuthURL}}" data-twitch-client-id="{{.TwitchClientID}}" data-oauth-response-url="{{.OAuthResponseURL}}">Connect with Twitch</a></p>
{{end}}
</body>
</html>
`))
