package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/services"
)

type ParticipantHandler struct {
	bracketService services.BracketService
}

func NewParticipantHandler(bs services.BracketService) *ParticipantHandler {
	return &ParticipantHandler{
		bracketService: bs,
	}
}

// Register godoc
// @Summary Register a participant
// @Tags participants
// @Description Adds a participant to the roster as pending. Registration order is seeding order.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID (UUID)"
// @Param body body models.Participant true "Participant id and display name"
// @Success 201 {object} map[string]interface{} "Registration created"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Registration closed"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 409 {object} map[string]string "Already registered"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/participants [post]
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.Participant
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	registration, err := h.bracketService.RegisterParticipant(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": registration}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateStatus godoc
// @Summary Confirm or withdraw a participant
// @Tags participants
// @Description Only confirmed participants are seeded when the bracket is generated.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID (UUID)"
// @Param participantID path string true "Participant ID"
// @Param body body object true "{\"status\": \"pending|confirmed|withdrawn\"}"
// @Success 200 {object} map[string]interface{} "Status updated"
// @Failure 400 {object} map[string]string "Unknown status"
// @Failure 403 {object} map[string]string "Registration closed"
// @Failure 404 {object} map[string]string "Tournament or participant not found"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/participants/{participantID} [patch]
func (h *ParticipantHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, err := stringFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.ParticipantStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bracketService.SetParticipantStatus(r.Context(), tournamentID, participantID, input.Status); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{
		"tournament_id":  tournamentID,
		"participant_id": participantID,
		"status":         input.Status,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
