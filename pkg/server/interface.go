/*
Package server implements msgpack IPC for street name checks.

The server reads msgpack messages from stdin one after another and answers
each with one msgpack message on stdout. Logs go to stderr.

# IPC

Every request carries an ID that is echoed in the response, and an action:

	{"id": "r1", "action": "check", "n": "ул. Ленина", "d": 1}
	{"id": "r2", "action": "complete", "p": "улица Лен", "l": 10}
	{"id": "r3", "action": "stats"}

A check is answered with the classification of the name, the suggested
names and the time taken in microseconds:

	{"id": "r1", "c": "canonical_form", "s": ["улица Ленина"], "t": 41}

A completion is answered with the names starting with the prefix:

	{"id": "r2", "s": ["улица Ленина", "улица Лесная"], "c": 2, "t": 12}

Without an action, a request holding "n" is a check and one holding "p" is a
completion. Failed requests get an error message and an HTTP-like code:

	{"id": "r1", "e": "name exceeds maximum length of 256 characters", "c": 400}

The server stops when its input is closed.
*/
package server

import "github.com/bastiangx/streetmangler/pkg/database"

// Actions understood by the server.
const (
	ActionCheck    = "check"
	ActionComplete = "complete"
	ActionStats    = "stats"
	ActionHealth   = "health"
)

// Request is any client message.
type Request struct {
	ID       string `msgpack:"id"`
	Action   string `msgpack:"action,omitempty"`
	Name     string `msgpack:"n,omitempty"`
	Distance *int   `msgpack:"d,omitempty"`
	Prefix   string `msgpack:"p,omitempty"`
	Limit    int    `msgpack:"l,omitempty"`
}

// CheckResponse is the classification of one name.
type CheckResponse struct {
	ID          string   `msgpack:"id"`
	Class       string   `msgpack:"c"`
	Suggestions []string `msgpack:"s"`
	TimeTaken   int64    `msgpack:"t"`
}

// CompletionResponse lists the names starting with a prefix.
type CompletionResponse struct {
	ID          string   `msgpack:"id"`
	Suggestions []string `msgpack:"s"`
	Count       int      `msgpack:"c"`
	TimeTaken   int64    `msgpack:"t"`
}

// StatsResponse describes the loaded database.
type StatsResponse struct {
	ID     string         `msgpack:"id"`
	Locale string         `msgpack:"locale"`
	Stats  database.Stats `msgpack:"stats"`
}

// StatusResponse answers health checks.
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
