package handlers

import (
	"net/http"

	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/services"
	"github.com/go-chi/chi/v5"
)

type groupResultRequest struct {
	SideA models.EntrantID `json:"side_a"`
	SideB models.EntrantID `json:"side_b"`
	setsInput
}

// RecordGroupResult принимает результат матча группового этапа.
func (h *TournamentHandler) RecordGroupResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req groupResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	sets, err := req.parse()
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.tournamentService.RecordGroupResult(r.Context(), tournamentID, chi.URLParam(r, "groupName"), services.GroupResultInput{
		SideA: req.SideA,
		SideB: req.SideB,
		Sets:  sets,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"result": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) StartKnockout(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.tournamentService.StartKnockout(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.tournamentService.GetBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) RecordKnockoutResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := getIntParam(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	index, err := getIntParam(r, "match")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req setsInput
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	sets, err := req.parse()
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.tournamentService.RecordKnockoutResult(r.Context(), tournamentID, round, index, sets)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"result": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
