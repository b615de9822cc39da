package golem

// Names of the values that the login flow stores in a user's session
const (
	FieldOAuthToken = "oauth_token"
	FieldUserName   = "user_name"
	FieldLoggedIn   = "logged_in"
)
