package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/services"
	"github.com/Dosada05/pingpong-tournament/utils"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.String("path", r.URL.Path), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error", slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func unprocessableResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusNotFound, err.Error())
}

func conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusConflict, err.Error())
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя и турнирной
// логики в HTTP-ответы.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrEntrantNotFound),
		errors.Is(err, brackets.ErrGroupNotFound),
		errors.Is(err, brackets.ErrUnknownMatch):
		notFoundResponse(w, r, err)

	// Повторная запись результата или этап, к которому нельзя перейти сейчас.
	case errors.Is(err, brackets.ErrDuplicateResult),
		errors.Is(err, brackets.ErrKnockoutAlreadyStarted),
		errors.Is(err, brackets.ErrKnockoutNotStarted),
		errors.Is(err, brackets.ErrGroupStageIncomplete),
		errors.Is(err, brackets.ErrMatchNotReady):
		conflictResponse(w, r, err)

	case errors.Is(err, brackets.ErrUnknownPair),
		errors.Is(err, brackets.ErrTiedOutcome):
		unprocessableResponse(w, r, err)

	case errors.Is(err, brackets.ErrInvalidConfiguration),
		errors.Is(err, services.ErrTournamentNameRequired),
		errors.Is(err, utils.ErrInvalidScoreFormat):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrAuthInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrAuthDisabled):
		notFoundResponse(w, r, err)

	default:
		serverErrorResponse(w, r, err)
	}
}

func getIntParam(r *http.Request, paramName string) (int, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, raw)
	}
	return n, nil
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	id, err := getIntParam(r, paramName)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", paramName)
	}
	return id, nil
}

// setsInput accepts a score either as text ("11-7,7-11,11-9") or as a list
// of [a, b] pairs.
type setsInput struct {
	Score string   `json:"score,omitempty"`
	Sets  [][2]int `json:"sets,omitempty"`
}

func (in setsInput) parse() ([]models.SetScore, error) {
	switch {
	case in.Score != "" && len(in.Sets) > 0:
		return nil, fmt.Errorf("%w: provide either score or sets, not both", utils.ErrInvalidScoreFormat)
	case in.Score != "":
		return utils.ParseSets(in.Score)
	case len(in.Sets) > 0:
		sets := make([]models.SetScore, len(in.Sets))
		for i, s := range in.Sets {
			sets[i] = models.SetScore{A: s[0], B: s[1]}
		}
		return sets, nil
	default:
		return nil, fmt.Errorf("%w: score or sets is required", utils.ErrInvalidScoreFormat)
	}
}
