package revenue

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tutorapp/tutorapp/pkg/adapters"
	"github.com/tutorapp/tutorapp/pkg/handlers/apierr"
	"github.com/tutorapp/tutorapp/pkg/models/api"
	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/services/auth"
	"github.com/tutorapp/tutorapp/pkg/services/report"
	"github.com/tutorapp/tutorapp/pkg/services/revenue"
	"github.com/tutorapp/tutorapp/pkg/validation"
)

const (
	maxBodyBytes = 1 << 20

	msgReportFailed = "failed to generate the report"
)

type Handler struct {
	manager   revenue.Manager
	renderer  report.Renderer
	validator *validation.Validator
	loc       *time.Location
	now       func() time.Time
}

type Options struct {
	// Location decides calendar days, period boundaries and "today".
	Location *time.Location
	Now      func() time.Time
}

func NewHandler(
	manager revenue.Manager,
	renderer report.Renderer,
	validator *validation.Validator,
	opts Options,
) *Handler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{
		manager:   manager,
		renderer:  renderer,
		validator: validator,
		loc:       opts.Location,
		now:       opts.Now,
	}
}

func (h *Handler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	values := r.URL.Query()
	query := api.RevenueQuery{
		TutorID:   strings.TrimSpace(values.Get("tutorId")),
		Range:     strings.TrimSpace(values.Get("range")),
		CourseID:  strings.TrimSpace(values.Get("courseId")),
		StudentID: strings.TrimSpace(values.Get("studentId")),
		StartDate: strings.TrimSpace(values.Get("startDate")),
		EndDate:   strings.TrimSpace(values.Get("endDate")),
	}
	if !h.validate(w, r, query) {
		return
	}
	switch h.access(r, query.TutorID) {
	case http.StatusUnauthorized:
		apierr.Write(w, r, http.StatusUnauthorized, apierr.MsgUnauthorized)
		return
	case http.StatusForbidden:
		apierr.Write(w, r, http.StatusForbidden, apierr.MsgForbidden)
		return
	}

	req, err := h.revenueRequest(query.TutorID, query.Range, query.StartDate, query.EndDate)
	if err != nil {
		apierr.Write(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.CourseID = query.CourseID
	req.StudentID = query.StudentID

	res, err := h.manager.GetRevenue(ctx, req)
	if errors.Is(err, revenue.ErrInvalidPeriod) {
		apierr.Write(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.Error().
			Err(err).
			Str("tutor", req.TutorID).
			Msg("failed to compute revenue")
		apierr.Write(w, r, http.StatusInternalServerError, apierr.MsgInternal)
		return
	}

	apierr.WriteJSON(w, r, http.StatusOK, adapters.MapRevenueResultToApi(res))
}

func (h *Handler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var body api.GeneratePDFRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		apierr.Write(w, r, http.StatusBadRequest, apierr.MsgInvalidBody)
		return
	}
	body.TutorID = strings.TrimSpace(body.TutorID)
	body.StudentID = strings.TrimSpace(body.StudentID)

	if !h.validate(w, r, body) {
		return
	}
	switch h.access(r, body.TutorID) {
	case http.StatusUnauthorized:
		apierr.WriteJSON(w, r, http.StatusUnauthorized, api.GeneratePDFResponse{
			Success: false,
			Error:   apierr.MsgUnauthorized,
		})
		return
	case http.StatusForbidden:
		apierr.WriteJSON(w, r, http.StatusForbidden, api.GeneratePDFResponse{
			Success: false,
			Error:   apierr.MsgForbidden,
		})
		return
	}

	req, err := h.revenueRequest(body.TutorID, "", body.StartDate, body.EndDate)
	if err != nil {
		apierr.Write(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.StudentID = body.StudentID

	rep, err := h.manager.BuildReport(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Str("tutor", req.TutorID).
			Msg("failed to build report")
		h.reportFailed(w, r)
		return
	}

	doc, err := h.renderer.Render(rep)
	if err != nil {
		logger.Error().
			Err(err).
			Str("tutor", req.TutorID).
			Int("lessons", len(rep.LessonDetails)).
			Msg("failed to render report")
		h.reportFailed(w, r)
		return
	}

	logger.Info().
		Str("tutor", req.TutorID).
		Str("filename", doc.Filename).
		Int("bytes", len(doc.Data)).
		Msg("report generated")

	apierr.WriteJSON(w, r, http.StatusOK, api.GeneratePDFResponse{
		Success:  true,
		PDFData:  doc.DataURI(),
		Filename: doc.Filename,
	})
}

func (h *Handler) reportFailed(w http.ResponseWriter, r *http.Request) {
	apierr.WriteJSON(w, r, http.StatusInternalServerError, api.GeneratePDFResponse{
		Success: false,
		Error:   msgReportFailed,
	})
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request, payload any) bool {
	err := h.validator.Struct(payload)
	if err == nil {
		return true
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		apierr.Validation(w, r, verr)
		return false
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to validate request")
	apierr.Write(w, r, http.StatusInternalServerError, apierr.MsgInternal)
	return false
}

// access compares the tutor set by the auth middleware with the requested
// one and returns the status to answer with, or 0 when access is granted.
func (h *Handler) access(r *http.Request, tutorID string) int {
	caller, ok := auth.TutorFromContext(r.Context())
	switch {
	case !ok:
		return http.StatusUnauthorized
	case caller != tutorID:
		return http.StatusForbidden
	default:
		return 0
	}
}

// revenueRequest resolves the reporting window: explicit dates when both are
// given, the default window of the granularity otherwise.
func (h *Handler) revenueRequest(tutorID, rng, start, end string) (domain.RevenueRequest, error) {
	g, err := domain.ParseGranularity(rng)
	if err != nil {
		return domain.RevenueRequest{}, err
	}
	now := h.now().In(h.loc)

	req := domain.RevenueRequest{
		TutorID:     tutorID,
		Granularity: g,
		Now:         now,
	}
	if start == "" && end == "" {
		req.Period = revenue.DefaultPeriod(now, g)
		return req, nil
	}

	if req.Period.Start, err = validation.ParseDate(start, h.loc); err != nil {
		return domain.RevenueRequest{}, err
	}
	if req.Period.End, err = validation.ParseDate(end, h.loc); err != nil {
		return domain.RevenueRequest{}, err
	}
	return req, nil
}
