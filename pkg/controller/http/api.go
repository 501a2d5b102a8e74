package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/secmon-lab/dualscope/pkg/usecase"
	"github.com/secmon-lab/dualscope/pkg/utils/errutil"
)

// maxRequestBody bounds JSON request bodies
const maxRequestBody = 1 << 20

const dateLayout = "2006-01-02"

// errBadRequest marks malformed requests detected by the controller itself
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) //nolint:errcheck // header already committed
}

// writeError maps use case errors to HTTP status codes
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, usecase.ErrAbstractRequired),
		errors.Is(err, usecase.ErrInvalidDissemination),
		errors.Is(err, usecase.ErrInvalidAudience),
		errors.Is(err, usecase.ErrURLRequired),
		errors.Is(err, usecase.ErrAssessmentIDRequired):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrFetchNotConfigured):
		status = http.StatusNotImplemented
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return goerr.Wrap(errBadRequest, "failed to read request body", goerr.V("cause", err.Error()))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return goerr.Wrap(errBadRequest, "invalid JSON body", goerr.V("cause", err.Error()))
	}
	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "healthy"})
}

func (s *Server) assessHandler(w http.ResponseWriter, r *http.Request) {
	var req model.AssessRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	assessment, err := s.uc.Assess.Assess(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, assessment)
}

func (s *Server) fetchURLHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.uc.Paper.FetchURL(r.Context(), req.URL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, result)
}

func (s *Server) axesHandler(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Axes     []model.RiskAxis  `json:"axes"`
		Sections map[string]string `json:"sections"`
		Rubric   map[string]string `json:"scoring_rubric,omitempty"`
		Fallback bool              `json:"fallback"`
	}

	registry := s.uc.Axes(r.Context())
	writeJSON(w, r, response{
		Axes:     registry.Axes(),
		Sections: registry.Sections(),
		Rubric:   registry.Rubric(),
		Fallback: registry.IsFallback(),
	})
}

func (s *Server) listHistoryHandler(w http.ResponseWriter, r *http.Request) {
	assessments, err := s.uc.History.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, assessments)
}

func (s *Server) getHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id := model.AssessmentID(chi.URLParam(r, "id"))

	assessment, err := s.uc.History.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, assessment)
}

func (s *Server) dashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseStatsFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := s.uc.Dashboard.Stats(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, stats)
}

func (s *Server) dashboardAssessmentsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseStatsFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"), usecase.DefaultPageLimit)
	if err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid limit"))
		return
	}
	offset, err := queryInt(q.Get("offset"), 0)
	if err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid offset"))
		return
	}

	page, err := s.uc.Dashboard.Assessments(r.Context(), filter, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, page)
}

func queryInt(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, goerr.Wrap(errBadRequest, "not an integer", goerr.V("value", v))
	}
	return n, nil
}

// filterValue returns "" for absent values and the "all" wildcard
func filterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

func parseStatsFilter(r *http.Request) (model.StatsFilter, error) {
	q := r.URL.Query()
	var filter model.StatsFilter

	for key, dst := range map[string]**time.Time{
		"date_from": &filter.DateFrom,
		"date_to":   &filter.DateTo,
	} {
		v := filterValue(q.Get(key))
		if v == "" {
			continue
		}
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, goerr.Wrap(errBadRequest, "invalid date, expected YYYY-MM-DD", goerr.V(key, v))
		}
		*dst = &t
	}

	filter.Category = filterValue(q.Get("category"))

	if v := filterValue(q.Get("tier")); v != "" {
		tier, err := types.ParseTier(v)
		if err != nil {
			return filter, goerr.Wrap(errBadRequest, "invalid tier", goerr.V("tier", v))
		}
		filter.Tier = tier
	}
	if v := filterValue(q.Get("dissemination")); v != "" {
		d, err := types.ParseDissemination(v)
		if err != nil {
			return filter, goerr.Wrap(errBadRequest, "invalid dissemination", goerr.V("dissemination", v))
		}
		filter.Dissemination = d
	}
	if v := filterValue(q.Get("audience")); v != "" {
		a, err := types.ParseAudience(v)
		if err != nil {
			return filter, goerr.Wrap(errBadRequest, "invalid audience", goerr.V("audience", v))
		}
		filter.Audience = a
	}

	return filter, nil
}
