package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/couchcryptid/vies-address-etl/internal/observability"
	"github.com/couchcryptid/vies-address-etl/internal/pipeline"
	"github.com/couchcryptid/vies-address-etl/internal/vies"
	"github.com/go-playground/validator/v10"
)

const maxParseBody = 64 << 10

// ParseRequest is the body of POST /v1/parse.
type ParseRequest struct {
	VATNumber string   `json:"vat_number" validate:"required,min=3,max=20"`
	Address   string   `json:"address" validate:"required,max=1024"`
	Flags     []string `json:"flags,omitempty" validate:"max=8,dive,required"`
}

// CountriesResponse is the body of GET /v1/countries.
type CountriesResponse struct {
	Countries []string          `json:"countries"`
	Flags     map[string]string `json:"flags"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type parseAPI struct {
	flags    []string
	validate *validator.Validate
	metrics  *observability.Metrics
	logger   *slog.Logger
}

func (a *parseAPI) handleCountries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CountriesResponse{
		Countries: vies.SupportedCountries(),
		Flags:     vies.RecognizedFlags(),
	})
}

// handleParse answers 200 with the parsed address, 422 when the address cannot
// be parsed and 400 for a malformed or incomplete request body.
func (a *parseAPI) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxParseBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	addr, err := vies.Parse(req.VATNumber, req.Address, slices.Concat(a.flags, req.Flags)...)
	a.metrics.ParseOutcomes.WithLabelValues(pipeline.CountryLabel(strings.TrimSpace(req.VATNumber)), pipeline.Outcome(err)).Inc()
	if err != nil {
		a.logger.Debug("parse request rejected", "vat_number", req.VATNumber, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: vies.Reason(err), Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, addr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
