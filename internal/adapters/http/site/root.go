// Package site serves the embedded quiz UI. The UI is a thin client of the
// JSON API; all engine logic lives server-side.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded quiz UI routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
