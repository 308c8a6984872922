package ical

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wcraigtrader/wbc/calendar"
	"github.com/wcraigtrader/wbc/storage"
)

// Aggregate feed names, served next to the per-tournament feeds.
const (
	FeedAllInOne    = "all-in-one"
	FeedTournaments = "tournaments"
)

type handler struct {
	store   storage.Loader
	tag     string
	version string
	log     *slog.Logger
}

func NewHandler(store storage.Loader, tag, version string, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return &handler{store: store, tag: tag, version: version, log: log}
}

// ServeHTTP answers /{calendar}.ics with the published snapshot's feed for
// one tournament code, or one of the aggregate feeds.
func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "calendar"), ".ics")

	feed, err := h.feed(name)
	if err != nil {
		h.log.Warn("feed not available", "calendar", name, "err", err)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "no calendar %q", name)
		return
	}
	if len(feed.Entries) == 0 {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "no calendar %q", name)
		return
	}
	// the store returns entries in uid order
	calendar.SortEntries(feed.Entries)

	b := &bytes.Buffer{}
	if err := calendar.Encode(feed, h.version, b); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "%s", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Write(b.Bytes())
}

func (h *handler) feed(name string) (calendar.Feed, error) {
	switch name {
	case FeedAllInOne:
		entries, err := h.store.LoadSnapshot(h.tag)
		return calendar.Feed{
			Name:        fmt.Sprintf("WBC %s All-in-One", h.tag),
			Description: "Every scheduled event",
			Entries:     entries,
		}, err
	case FeedTournaments:
		entries, err := h.store.LoadSnapshot(h.tag)
		if err != nil {
			return calendar.Feed{}, err
		}
		tourneys := make([]calendar.Entry, 0, len(entries))
		for _, e := range entries {
			if e.Code != "" && e.Kind != "Other" {
				tourneys = append(tourneys, e)
			}
		}
		return calendar.Feed{
			Name:        fmt.Sprintf("WBC %s Tournaments", h.tag),
			Description: "All tournament events",
			Entries:     tourneys,
		}, nil
	}

	code := strings.ToUpper(name)
	entries, err := h.store.LoadCode(h.tag, code)
	summary := code
	if len(entries) > 0 {
		summary = strings.TrimSpace(strings.TrimSuffix(entries[0].Summary, entries[0].Kind))
	}
	return calendar.Feed{
		Name:        summary,
		Description: fmt.Sprintf("WBC %s %s schedule", h.tag, code),
		Entries:     entries,
	}, err
}
