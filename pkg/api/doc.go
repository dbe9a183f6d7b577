// Package api provides the HTTP trigger surface of the emailer: a gin
// server hosting the notify endpoint plus health and version endpoints.
package api
