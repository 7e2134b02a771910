package handlers

import (
	"net/http"

	"github.com/carebridge/nutrimap/internal/server/events"
	"github.com/carebridge/nutrimap/internal/server/response"
	"github.com/carebridge/nutrimap/pkg/logging"
	"github.com/carebridge/nutrimap/pkg/needs"
)

type needsRequest struct {
	HeightCM float64 `json:"height_cm"`
	WeightKG float64 `json:"weight_kg"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
}

// HandleNeeds handles POST /api/v1/needs. The assessed profile becomes the
// latest profile used by daily summaries.
func (h *Handlers) HandleNeeds(w http.ResponseWriter, r *http.Request) {
	var req needsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile := needs.Profile{
		HeightCM: req.HeightCM,
		WeightKG: req.WeightKG,
		Age:      req.Age,
		Gender:   needs.ParseGender(req.Gender),
	}

	assessment, err := h.app.Calculator().Assess(profile)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	journal, err := h.app.Journal()
	if err != nil {
		response.ServiceUnavailable(w, "Journal not available")
		return
	}

	record, err := journal.SaveProfile(r.Context(), profile, assessment)
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("Failed to save profile")
		response.ErrorFromType(w, err)
		return
	}

	h.broker.Publish(events.ProfileUpdated, record)
	response.OK(w, record)
}
