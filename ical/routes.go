package ical

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wcraigtrader/wbc/storage"
)

func Routes(store storage.Loader, tag, version string, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Get("/{calendar}", NewHandler(store, tag, version, log).ServeHTTP)
	return r
}
