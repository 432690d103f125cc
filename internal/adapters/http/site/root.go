// Package site serves the embedded diagram viewer.
package site

import (
	"context"
	"net/http"
)

// Register attaches the viewer at GET / to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", http.FileServer(FS()))
}
