// Package events announces changes in login state to the rest of the backend: other
// services (e.g. the chat bot) can consume these messages from a fanout exchange in
// order to learn which Twitch users are currently signed in.
package events
