package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/services"
)

type MatchHandler struct {
	bracketService services.BracketService
}

func NewMatchHandler(bs services.BracketService) *MatchHandler {
	return &MatchHandler{
		bracketService: bs,
	}
}

type reportResultInput struct {
	RoundNumber int    `json:"round_number"`
	WinnerID    string `json:"winner_id"`
}

// ReportResult godoc
// @Summary Report a match result
// @Tags matches
// @Description Completes a match and advances the bracket. An empty winner_id records a draw where the format allows it.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID (UUID)"
// @Param matchID path string true "Match ID, e.g. WB_R1M1"
// @Param body body reportResultInput true "Optional round_number and the winner_id"
// @Success 200 {object} map[string]interface{} "Updated tournament"
// @Failure 400 {object} map[string]string "Winner is not in the match"
// @Failure 404 {object} map[string]string "Tournament or match not found"
// @Failure 409 {object} map[string]string "Match not ready, already completed, or concurrent update"
// @Failure 429 {object} map[string]string "Too many requests"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/result [post]
func (h *MatchHandler) ReportResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := stringFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input reportResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.RoundNumber < 0 {
		badRequestResponse(w, r, errors.New("round_number must not be negative"))
		return
	}

	ref := models.MatchRef{MatchID: matchID, RoundNumber: input.RoundNumber}
	tournament, err := h.bracketService.ReportResult(r.Context(), tournamentID, ref, strings.TrimSpace(input.WinnerID))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceBye godoc
// @Summary Advance a bye
// @Tags matches
// @Description Moves the only player of a bye match forward.
// @Produce json
// @Param tournamentID path string true "Tournament ID (UUID)"
// @Param matchID path string true "Match ID"
// @Success 200 {object} map[string]interface{} "Updated tournament"
// @Failure 404 {object} map[string]string "Tournament or match not found"
// @Failure 409 {object} map[string]string "Match is not a bye"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/bye [post]
func (h *MatchHandler) AdvanceBye(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := stringFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.bracketService.AdvanceBye(r.Context(), tournamentID, models.MatchRef{MatchID: matchID})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
