package handlers

import (
	"net/http"

	"github.com/carebridge/nutrimap/internal/server/events"
	"github.com/carebridge/nutrimap/internal/server/response"
	"github.com/carebridge/nutrimap/internal/store"
	"github.com/carebridge/nutrimap/pkg/logging"
)

// HandleAddEntry handles POST /api/v1/journal.
func (h *Handlers) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	var entry store.NewEntry
	if !decodeJSON(w, r, &entry) {
		return
	}

	journal, ok := h.journal(w)
	if !ok {
		return
	}

	saved, err := journal.AddEntry(r.Context(), entry)
	if err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Msg("Failed to add journal entry")
		response.ErrorFromType(w, err)
		return
	}

	h.broker.Publish(events.JournalEntryAdded, saved)
	response.Created(w, saved)
}

// HandleListEntries handles GET /api/v1/journal?date=YYYY-MM-DD. The date
// defaults to today.
func (h *Handlers) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	journal, ok := h.journal(w)
	if !ok {
		return
	}

	day := r.URL.Query().Get("date")
	entries, err := journal.Entries(r.Context(), day)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// HandleSummary handles GET /api/v1/summary?date=YYYY-MM-DD.
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	journal, ok := h.journal(w)
	if !ok {
		return
	}

	summary, err := journal.Summary(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, summary)
}

func (h *Handlers) journal(w http.ResponseWriter) (store.Journal, bool) {
	journal, err := h.app.Journal()
	if err != nil {
		h.logger.Error().Err(err).Msg("Journal not available")
		response.ServiceUnavailable(w, "Journal not available")
		return nil, false
	}
	return journal, true
}
