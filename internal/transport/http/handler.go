package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ApolloMedTech/shdms/internal/domain"
	"github.com/ApolloMedTech/shdms/internal/session"
	"github.com/ApolloMedTech/shdms/internal/validate"
)

// maxBodyBytes fits a base64 image at the validation cap plus the text fields.
const maxBodyBytes = validate.MaxImageBytes*4/3 + 1<<20

// Handler exposes the session controller as JSON endpoints. It holds no
// state of its own.
type Handler struct {
	ctrl   *session.Controller
	checks map[string]func(context.Context) error
	log    zerolog.Logger
}

func NewHandler(ctrl *session.Controller, log zerolog.Logger) *Handler {
	return &Handler{
		ctrl:   ctrl,
		checks: map[string]func(context.Context) error{},
		log:    log.With().Str("component", "http").Logger(),
	}
}

// AddCheck registers a dependency probe reported by /healthz.
func (h *Handler) AddCheck(name string, check func(context.Context) error) {
	h.checks[name] = check
}

// Register mounts the API routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/clinicians", h.handleRegisterClinician)
	r.Post("/api/patients", h.handleRegisterPatient)
	r.Get("/api/patients", h.handleListPatients)
	r.Post("/api/patients/{id}/report", h.handleRegenerateReport)

	r.Get("/api/session", h.handleGetSession)
	r.Delete("/api/session", h.handleLogout)
	r.Post("/api/session/clinician", h.handleLoginClinician)
	r.Post("/api/session/patient", h.handleLoginPatient)
	r.Put("/api/session/view", h.handleNavigate)

	r.Post("/api/reports/open", h.handleOpenReport)
	r.Get("/api/reports/{cid}", h.handleDownloadReport)

	r.Get("/healthz", h.handleHealth)
}

type clinicianRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Phone          string `json:"phoneNumber"`
}

type patientRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Disease string `json:"disease"`
	Phone   string `json:"phoneNumber"`
	Age     string `json:"age"`
	// Image is base64 in JSON.
	Image []byte `json:"image,omitempty"`
}

type clinicianLoginRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type patientLoginRequest struct {
	ID    string `json:"id"`
	Phone string `json:"phoneNumber"`
}

type navigateRequest struct {
	View string `json:"view"`
}

type regenerateRequest struct {
	ImageRef string `json:"imageRef,omitempty"`
}

type sessionResponse struct {
	State   domain.State     `json:"state"`
	View    domain.ViewState `json:"view"`
	Session domain.Session   `json:"session"`
}

type reportResponse struct {
	CID string `json:"cid"`
	URL string `json:"url,omitempty"`
}

func (h *Handler) handleRegisterClinician(w http.ResponseWriter, r *http.Request) {
	var req clinicianRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := h.ctrl.SubmitClinicianRegistration(r.Context(), domain.ClinicianRegistrationInput{
		ID:             req.ID,
		Name:           req.Name,
		Specialization: req.Specialization,
		Phone:          req.Phone,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := h.ctrl.SubmitPatientRegistration(r.Context(), domain.PatientRegistrationInput{
		ID:      req.ID,
		Name:    req.Name,
		Disease: req.Disease,
		Phone:   req.Phone,
		Age:     req.Age,
		Image:   req.Image,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleListPatients returns the loaded roster; ?refresh=true re-lists it.
func (h *Handler) handleListPatients(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") != "true" {
		writeJSON(w, http.StatusOK, nonNil(h.ctrl.Patients()))
		return
	}
	patients, err := h.ctrl.RefreshPatients(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(patients))
}

func (h *Handler) handleRegenerateReport(w http.ResponseWriter, r *http.Request) {
	var req regenerateRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	doc, err := h.ctrl.RegenerateReport(r.Context(), id, req.ImageRef)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writePDF(w, "Patient_"+id+"_Report.pdf", doc)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.ctrl.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLoginClinician(w http.ResponseWriter, r *http.Request) {
	var req clinicianLoginRequest
	if !decode(w, r, &req) {
		return
	}
	if _, err := h.ctrl.LoginClinician(r.Context(), req.ID, req.Name); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) handleLoginPatient(w http.ResponseWriter, r *http.Request) {
	var req patientLoginRequest
	if !decode(w, r, &req) {
		return
	}
	if _, err := h.ctrl.LoginPatient(r.Context(), req.ID, req.Phone); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !decode(w, r, &req) {
		return
	}
	view, ok := domain.ParseViewState(req.View)
	if !ok {
		writeErrorBody(w, http.StatusBadRequest, "invalid_request", "unknown view "+req.View)
		return
	}
	if err := h.ctrl.Navigate(view); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

func (h *Handler) handleOpenReport(w http.ResponseWriter, r *http.Request) {
	var req patientLoginRequest
	if !decode(w, r, &req) {
		return
	}
	cid, err := h.ctrl.OpenPatientReport(r.Context(), req.ID, req.Phone)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := reportResponse{CID: cid}
	if url, err := h.ctrl.ReportURL(cid); err == nil {
		resp.URL = url
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	doc, err := h.ctrl.DownloadReport(r.Context(), cid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writePDF(w, "Patient_Report_"+cid+".pdf", doc)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	report := map[string]string{}
	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			report[name] = err.Error()
			continue
		}
		report[name] = "ok"
	}
	writeJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": report})
}

func (h *Handler) sessionResponse() sessionResponse {
	s := h.ctrl.Session()
	return sessionResponse{State: s.State(), View: h.ctrl.View(), Session: s}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorBody(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body is too large")
			return false
		}
		writeErrorBody(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return false
	}
	return true
}

func nonNil(p []domain.PatientRecord) []domain.PatientRecord {
	if p == nil {
		return []domain.PatientRecord{}
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writePDF(w http.ResponseWriter, filename string, doc []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

// writeError translates domain errors into the JSON error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, status, map[string]string{
			"error":   string(kind),
			"field":   ve.Field,
			"rule":    ve.Rule,
			"message": ve.Message,
		})
		return
	}

	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", r.URL.Path).Str("kind", string(kind)).Msg("request failed")
	}
	message := err.Error()
	if kind == domain.KindAuthFailed {
		message = domain.ErrAuthFailed.Error()
	}
	if kind == domain.KindInternal {
		message = "internal error"
	}
	writeErrorBody(w, status, string(kind), message)
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthFailed:
		return http.StatusUnauthorized
	case domain.KindNotClinician:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidTransition:
		return http.StatusConflict
	case domain.KindTransactionRejected:
		return http.StatusUnprocessableEntity
	case domain.KindStoreRejected:
		return http.StatusBadGateway
	case domain.KindStoreUnavailable, domain.KindLedgerUnavailable:
		return http.StatusServiceUnavailable
	case domain.KindTransactionUnconfirmed:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
