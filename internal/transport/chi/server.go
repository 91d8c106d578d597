// Package chi exposes the sponsor discovery API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
	domcompany "github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/locality"
	domresearch "github.com/qamqor-cloud/sponsorscope/internal/domain/research"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/search/page"
	companyuc "github.com/qamqor-cloud/sponsorscope/internal/usecase/company"
	considerationuc "github.com/qamqor-cloud/sponsorscope/internal/usecase/consideration"
	healthuc "github.com/qamqor-cloud/sponsorscope/internal/usecase/health"
	researchuc "github.com/qamqor-cloud/sponsorscope/internal/usecase/research"
	searchuc "github.com/qamqor-cloud/sponsorscope/internal/usecase/search"
)

// Error response codes.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeNotFound            = "not_found"
	codeStoreUnavailable    = "store_unavailable"
	codeResearchUnavailable = "research_unavailable"
	codeInternalError       = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes the company search API.
type Server struct {
	search         *searchuc.Service
	companies      *companyuc.Service
	considerations *considerationuc.Service
	research       *researchuc.Service // nil when the provider is not configured
	health         *healthuc.Service
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. research may be nil.
func NewServer(
	search *searchuc.Service,
	companies *companyuc.Service,
	considerations *considerationuc.Service,
	research *researchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:         search,
		companies:      companies,
		considerations: considerations,
		research:       research,
		health:         health,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		criteriaErrorHandler,
		sentinelHandler(domain.ErrInvalidCriteria, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
		sentinelHandler(domain.ErrResearchUnavailable, http.StatusBadGateway, codeResearchUnavailable),
	}
	return s
}

// RegisterRoutes attaches all API routes to the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/companies/search", s.searchCompanies)
		r.Get("/companies/{bin}", s.getCompany)
		r.Get("/companies/{bin}/research", s.researchCompany)
		r.Get("/locations", s.listLocations)
		r.Get("/locations/supported", s.supportedLocations)

		r.Route("/funds/{fundID}/considerations", func(r chi.Router) {
			r.Get("/", s.listConsiderations)
			r.Put("/{bin}", s.considerCompany)
			r.Delete("/{bin}", s.unconsiderCompany)
		})
	})
}

// searchCompanies handles GET /api/v1/companies/search.
func (s *Server) searchCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageNum, err := parseIntParam(q.Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "page must be an integer")
		return
	}
	pageSize, err := parseIntParam(q.Get("pageSize"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "pageSize must be an integer")
		return
	}

	params := searchuc.Params{
		Location: q.Get("location"),
		FreeText: q.Get("freeText"),
		Page:     pageNum,
		PageSize: pageSize,
	}
	if raw := q.Get("fundId"); raw != "" {
		fundID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "fundId must be a UUID")
			return
		}
		params.FundID = &fundID
	}

	res, err := s.search.Search(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchItemResponse, len(res.Items))
	for i, item := range res.Items {
		items[i] = searchItemToResponse(item, params.FundID != nil)
	}
	writeJSON(w, http.StatusOK, searchResponse{Data: items, Pagination: res.Meta})
}

// getCompany handles GET /api/v1/companies/{bin}.
func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) {
	rec, err := s.companies.GetByBIN(r.Context(), chi.URLParam(r, "bin"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companyToResponse(rec))
}

// researchCompany handles GET /api/v1/companies/{bin}/research.
func (s *Server) researchCompany(w http.ResponseWriter, r *http.Request) {
	if s.research == nil {
		writeError(w, http.StatusServiceUnavailable, codeResearchUnavailable,
			"web research is not configured")
		return
	}

	info, err := s.research.Research(r.Context(), chi.URLParam(r, "bin"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, researchToResponse(chi.URLParam(r, "bin"), info))
}

// listLocations handles GET /api/v1/locations.
func (s *Server) listLocations(w http.ResponseWriter, r *http.Request) {
	counts, err := s.companies.Locations(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]locationResponse, len(counts))
	for i, c := range counts {
		items[i] = locationResponse{Locality: c.Locality, Companies: c.Companies}
	}
	writeJSON(w, http.StatusOK, locationsResponse{Items: items})
}

// supportedLocations handles GET /api/v1/locations/supported. It lists
// the locality tokens the search endpoint accepts, so callers can
// validate input before submitting.
func (s *Server) supportedLocations(w http.ResponseWriter, _ *http.Request) {
	names := locality.Supported()
	writeJSON(w, http.StatusOK, supportedLocationsResponse{
		Localities: names,
		Total:      len(names),
	})
}

// listConsiderations handles GET /api/v1/funds/{fundID}/considerations.
func (s *Server) listConsiderations(w http.ResponseWriter, r *http.Request) {
	fundID, ok := fundIDFromRequest(w, r)
	if !ok {
		return
	}

	records, err := s.considerations.List(r.Context(), fundID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]companyResponse, len(records))
	for i, rec := range records {
		items[i] = companyToResponse(rec)
	}
	writeJSON(w, http.StatusOK, considerationsResponse{Items: items, Total: len(items)})
}

// considerCompany handles PUT /api/v1/funds/{fundID}/considerations/{bin}.
func (s *Server) considerCompany(w http.ResponseWriter, r *http.Request) {
	fundID, ok := fundIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := s.considerations.Consider(r.Context(), fundID, chi.URLParam(r, "bin")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// unconsiderCompany handles DELETE /api/v1/funds/{fundID}/considerations/{bin}.
func (s *Server) unconsiderCompany(w http.ResponseWriter, r *http.Request) {
	fundID, ok := fundIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := s.considerations.Unconsider(r.Context(), fundID, chi.URLParam(r, "bin")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	// Degraded still serves traffic; only a dead record store takes
	// the instance out of rotation.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

func fundIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	fundID, err := uuid.Parse(chi.URLParam(r, "fundID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "fund id must be a UUID")
		return uuid.UUID{}, false
	}
	return fundID, true
}

func parseIntParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// criteriaErrorHandler surfaces the offending field for validation
// failures instead of the bare sentinel message.
func criteriaErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var ce *domain.CriteriaError
	if !errors.As(err, &ce) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"code":    codeValidationFailed,
		"message": ce.Reason,
		"field":   ce.Field,
	})
	return true
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidCriteria,
		domain.ErrStoreUnavailable,
		domain.ErrUnknownLocality,
		domain.ErrResearchUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchResponse struct {
	Data       []searchItemResponse `json:"data"`
	Pagination page.Meta            `json:"pagination"`
}

type searchItemResponse struct {
	companyResponse
	UnderConsideration *bool `json:"under_consideration,omitempty"`
}

type companyResponse struct {
	BIN           string             `json:"bin"`
	Name          string             `json:"name"`
	OKED          string             `json:"oked,omitempty"`
	Activity      string             `json:"activity,omitempty"`
	KATO          string             `json:"kato,omitempty"`
	Locality      string             `json:"locality,omitempty"`
	KRP           string             `json:"krp,omitempty"`
	Size          string             `json:"size,omitempty"`
	Taxes         map[string]float64 `json:"taxes"`
	LastTaxUpdate *string            `json:"last_tax_update,omitempty"`
	Contacts      *string            `json:"contacts,omitempty"`
	Website       *string            `json:"website,omitempty"`
}

type locationsResponse struct {
	Items []locationResponse `json:"items"`
}

type locationResponse struct {
	Locality  string `json:"locality"`
	Companies int    `json:"companies"`
}

type supportedLocationsResponse struct {
	Localities []string `json:"localities"`
	Total      int      `json:"total"`
}

type considerationsResponse struct {
	Items []companyResponse `json:"items"`
	Total int               `json:"total"`
}

type researchResponse struct {
	BIN        string  `json:"bin"`
	Website    *string `json:"website,omitempty"`
	Contacts   *string `json:"contacts,omitempty"`
	Confidence float64 `json:"confidence"`
	Query      string  `json:"query"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

func companyToResponse(rec domcompany.Record) companyResponse {
	taxes := make(map[string]float64, len(rec.Taxes))
	for year, amount := range rec.Taxes {
		taxes[strconv.Itoa(year)] = amount
	}

	resp := companyResponse{
		BIN:      rec.BIN,
		Name:     rec.Name,
		OKED:     rec.OKED,
		Activity: rec.Activity,
		KATO:     rec.KATO,
		Locality: rec.Locality,
		KRP:      rec.KRP,
		Size:     rec.Size,
		Taxes:    taxes,
		Contacts: rec.Contacts,
		Website:  rec.Website,
	}
	if rec.LastTaxUpdate != nil {
		d := rec.LastTaxUpdate.Format("2006-01-02")
		resp.LastTaxUpdate = &d
	}
	return resp
}

func searchItemToResponse(item searchuc.Item, withConsideration bool) searchItemResponse {
	resp := searchItemResponse{companyResponse: companyToResponse(item.Record)}
	if withConsideration {
		v := item.UnderConsideration
		resp.UnderConsideration = &v
	}
	return resp
}

func researchToResponse(bin string, info domresearch.WebInfo) researchResponse {
	return researchResponse{
		BIN:        bin,
		Website:    info.Website,
		Contacts:   info.Contacts,
		Confidence: info.Confidence,
		Query:      info.Query,
	}
}
