// Package session defines the server-side session model and its stores.
//
// A Session is an opaque key/value bag bound to one user agent through a
// random cookie token. The HTTP kernel loads it lazily, marks it dirty on
// change, and writes it back through a Store right before the response
// headers go out.
//
// Two stores are provided: MemoryStore for single-process deployments and
// tests, and RedisStore for anything that runs more than one replica.
package session
