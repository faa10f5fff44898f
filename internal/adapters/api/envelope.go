package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainErr "github.com/example/stargate/internal/core/errors"
	"github.com/example/stargate/internal/ctxutil"
	"github.com/example/stargate/internal/ports/primary"
)

// envelope is embedded in every response body.
type envelope struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ResponseCode int    `json:"responseCode"`
}

func ok(message string) envelope {
	return envelope{Success: true, Message: message, ResponseCode: http.StatusOK}
}

func failure(status int, message string) envelope {
	return envelope{Success: false, Message: message, ResponseCode: status}
}

type idResponse struct {
	envelope
	ID int64 `json:"id"`
}

type peopleResponse struct {
	envelope
	People []personJSON `json:"people"`
}

type personResponse struct {
	envelope
	Person personJSON `json:"person"`
}

type dutiesResponse struct {
	envelope
	Person personJSON `json:"person"`
	Duties []dutyJSON `json:"duties"`
}

type personJSON struct {
	PersonID         int64   `json:"personId"`
	Name             string  `json:"name"`
	CurrentRank      string  `json:"currentRank"`
	CurrentDutyTitle string  `json:"currentDutyTitle"`
	CareerStartDate  *string `json:"careerStartDate"`
	CareerEndDate    *string `json:"careerEndDate"`
}

type dutyJSON struct {
	ID            int64   `json:"id"`
	Rank          string  `json:"rank"`
	DutyTitle     string  `json:"dutyTitle"`
	DutyStartDate string  `json:"dutyStartDate"`
	DutyEndDate   *string `json:"dutyEndDate"`
}

func toPersonJSON(p *primary.PersonAstronaut) personJSON {
	return personJSON{
		PersonID:         p.PersonID,
		Name:             p.Name,
		CurrentRank:      p.CurrentRank,
		CurrentDutyTitle: p.CurrentDutyTitle,
		CareerStartDate:  p.CareerStartDate,
		CareerEndDate:    p.CareerEndDate,
	}
}

func toDutyJSON(d *primary.AstronautDuty) dutyJSON {
	return dutyJSON{
		ID:            d.ID,
		Rank:          d.Rank,
		DutyTitle:     d.DutyTitle,
		DutyStartDate: d.DutyStartDate,
		DutyEndDate:   d.DutyEndDate,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failure(status, message))
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch domainErr.KindOf(err) {
	case domainErr.ErrValidation:
		return http.StatusBadRequest
	case domainErr.ErrNotFound:
		return http.StatusNotFound
	case domainErr.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError answers with the caller's error or a generic message for internal failures.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		writeError(w, status, err.Error())
		return
	}

	if ctxErr := r.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		h.logger.WarnContext(r.Context(), "request cancelled", "request_id", ctxutil.RequestIDFromContext(r.Context()))
	} else {
		h.logger.ErrorContext(r.Context(), "request failed",
			"request_id", ctxutil.RequestIDFromContext(r.Context()),
			"error", err,
		)
	}
	writeError(w, status, "internal server error")
}

// requestAttrs identifies a request in log records.
func requestAttrs(r *http.Request) []slog.Attr {
	return []slog.Attr{
		slog.String("request_id", ctxutil.RequestIDFromContext(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
}
