// Package session binds a browser to a server-side key-value session via a cookie
// carrying an opaque, server-generated session ID.
//
// Session state lives in a Store: MemoryStore keeps it in-process, which is fine for a
// single replica, while RedisStore allows several replicas to share sessions. Handlers
// never touch the Store directly; they call Manager.Current to get a Handle for the
// current request and use its typed accessors.
//
// A session ID is never adopted from the client: if the cookie names a session that
// the Store doesn't know about, a fresh ID is issued instead.
package session
