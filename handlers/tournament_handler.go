package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/services"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type TournamentHandler struct {
	bracketService services.BracketService
}

func NewTournamentHandler(bs services.BracketService) *TournamentHandler {
	return &TournamentHandler{
		bracketService: bs,
	}
}

// CreateHandler godoc
// @Summary Create a tournament
// @Tags tournaments
// @Description Creates a tournament in the registration stage. The format is fixed at creation.
// @Accept json
// @Produce json
// @Param body body services.CreateTournamentInput true "Name, format (single_elimination, double_elimination, round_robin, swiss), min_participants and optional settings"
// @Success 201 {object} map[string]interface{} "Tournament created"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not an organizer"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.bracketService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary List tournaments
// @Tags tournaments
// @Produce json
// @Param status query string false "registration, active or completed"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{} "Tournaments"
// @Failure 400 {object} map[string]string "Invalid query parameter"
// @Router /tournaments [get]
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var status *models.TournamentStatus
	if statusStr := query.Get("status"); statusStr != "" {
		s := models.TournamentStatus(statusStr)
		switch s {
		case models.StatusRegistration, models.StatusActive, models.StatusCompleted:
			status = &s
		default:
			badRequestResponse(w, r, errors.New("invalid status query parameter"))
			return
		}
	}

	limit := defaultListLimit
	if limitStr := query.Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
		limit = min(l, maxListLimit)
	}

	offset := 0
	if offsetStr := query.Get("offset"); offsetStr != "" {
		o, err := strconv.Atoi(offsetStr)
		if err != nil || o < 0 {
			badRequestResponse(w, r, errors.New("invalid offset query parameter"))
			return
		}
		offset = o
	}

	tournaments, err := h.bracketService.ListTournaments(r.Context(), status, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Get a tournament with its roster
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID (UUID)"
// @Success 200 {object} map[string]interface{} "Tournament"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.bracketService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateBracketHandler godoc
// @Summary Generate the bracket
// @Tags bracket
// @Description Seeds the confirmed participants in registration order and builds the bracket. The tournament becomes active.
// @Produce json
// @Param tournamentID path string true "Tournament ID (UUID)"
// @Success 201 {object} map[string]interface{} "Tournament with its bracket"
// @Failure 400 {object} map[string]string "Not enough confirmed participants"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 409 {object} map[string]string "Bracket already generated"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket [post]
func (h *TournamentHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.bracketService.GenerateBracket(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracketHandler godoc
// @Summary Get the bracket document
// @Tags bracket
// @Produce json
// @Param tournamentID path string true "Tournament ID (UUID)"
// @Success 200 {object} map[string]interface{} "Bracket"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 409 {object} map[string]string "Bracket not generated yet"
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *TournamentHandler) GetBracketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	doc, err := h.bracketService.GetBracket(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": doc}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CurrentMatchesHandler godoc
// @Summary List matches that can be played now
// @Tags bracket
// @Produce json
// @Param tournamentID path string true "Tournament ID (UUID)"
// @Success 200 {object} map[string]interface{} "Pending matches and byes"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 409 {object} map[string]string "Bracket not generated yet"
// @Router /tournaments/{tournamentID}/bracket/current [get]
func (h *TournamentHandler) CurrentMatchesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.CurrentMatches(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StandingsHandler godoc
// @Summary Get standings
// @Tags bracket
// @Produce json
// @Param tournamentID path string true "Tournament ID (UUID)"
// @Success 200 {object} map[string]interface{} "Participants ordered by standing"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 409 {object} map[string]string "Bracket not generated yet"
// @Router /tournaments/{tournamentID}/standings [get]
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.bracketService.Standings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
