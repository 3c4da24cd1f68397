package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/logger"
)

const maxBodyBytes = 4 << 20

type QuoteService interface {
	Recalculate(q model.Quote) (model.Quote, error)
	GenerateNextReference(ctx context.Context, forDate time.Time) (string, error)
	Save(ctx context.Context, q model.Quote) (model.SaveResult, error)
	QuoteByID(ctx context.Context, id string) (*model.Quote, error)
	List(ctx context.Context, params model.ListParams) ([]model.Quote, error)
	Subscribe(ctx context.Context, params model.ListParams, fn func([]model.Quote)) (func(), error)
	Delete(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id string) (model.SaveResult, error)
	ApplyTemplate(ctx context.Context, id, templateID string) (*model.Quote, error)

	ChangeStatus(ctx context.Context, id string, status model.QuoteStatus) error
	CheckDefinitive(ctx context.Context, id string) (model.Verdict, error)
	ConvertToDefinitive(ctx context.Context, id string) (model.Verdict, error)
	ConvertToPreliminary(ctx context.Context, id string) error
	UpdateStudyStatus(ctx context.Context, id string, status model.StudyStatus, details *model.StudyDetails) error

	UpdateProvisions(ctx context.Context, id string, provisions *model.StructuralProvisions) error
	ApplyProvisionTemplate(ctx context.Context, id, templateID string) (*model.StructuralProvisions, error)
	Terms(ctx context.Context, id string, revision model.PriceRevision) (model.QuoteTerms, error)

	AttachStudyDocument(ctx context.Context, id string, upload model.UploadParams) (model.StudyDocument, error)
	RemoveStudyDocument(ctx context.Context, id, docID string) error
}

type handler struct {
	svc       QuoteService
	heartbeat time.Duration
	now       func() time.Time
}

func NewQuoteHandler(service QuoteService, heartbeat time.Duration) *handler {
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &handler{svc: service, heartbeat: heartbeat, now: time.Now}
}

// Routes mounts the v1 quote API on r.
func (h *handler) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/references", h.NextReference)
		r.Get("/templates/quotes", h.QuoteTemplates)
		r.Get("/templates/provisions", h.ProvisionTemplates)

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", h.CreateQuote)
			r.Get("/", h.ListQuotes)
			r.Get("/stream", h.StreamQuotes)
			r.Post("/recalculate", h.Recalculate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetQuote)
				r.Put("/", h.UpdateQuote)
				r.Delete("/", h.DeleteQuote)
				r.Post("/status", h.ChangeStatus)
				r.Post("/duplicate", h.DuplicateQuote)
				r.Post("/template", h.ApplyTemplate)
				r.Get("/definitive-check", h.CheckDefinitive)
				r.Post("/definitive", h.ConvertToDefinitive)
				r.Post("/preliminary", h.ConvertToPreliminary)
				r.Put("/study", h.UpdateStudy)
				r.Put("/provisions", h.UpdateProvisions)
				r.Get("/clauses", h.Clauses)
				r.Post("/study/documents", h.AttachDocument)
				r.Delete("/study/documents/{docID}", h.RemoveDocument)
			})
		})
	})
}

func (h *handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteDTO
	if !decode(w, r, &req) {
		return
	}

	q := quoteFromDTO(req)
	q.ID = ""
	q.Reference = ""
	res, err := h.svc.Save(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, saveResponse(res))
}

func (h *handler) UpdateQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteDTO
	if !decode(w, r, &req) {
		return
	}

	q := quoteFromDTO(req)
	q.ID = chi.URLParam(r, "id")
	res, err := h.svc.Save(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, saveResponse(res))
}

func (h *handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.QuoteByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, quoteToDTO(*q))
}

func (h *handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.svc.List(r.Context(), listParams(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, quotesToDTO(quotes))
}

func (h *handler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req quoteDTO
	if !decode(w, r, &req) {
		return
	}

	q, err := h.svc.Recalculate(quoteFromDTO(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, quoteToDTO(q))
}

func (h *handler) NextReference(w http.ResponseWriter, r *http.Request) {
	var req referenceRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	forDate := h.now()
	if req.Date != nil {
		forDate = *req.Date
	}

	ref, err := h.svc.GenerateNextReference(r.Context(), forDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, referenceResponse{Reference: ref})
}

func (h *handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.svc.ChangeStatus(r.Context(), chi.URLParam(r, "id"), model.QuoteStatus(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) DuplicateQuote(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Duplicate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, saveResponse(res))
}

func (h *handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decode(w, r, &req) {
		return
	}

	q, err := h.svc.ApplyTemplate(r.Context(), chi.URLParam(r, "id"), req.TemplateID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, quoteToDTO(*q))
}

func (h *handler) CheckDefinitive(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.CheckDefinitive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, verdictToDTO(v))
}

func (h *handler) ConvertToDefinitive(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.ConvertToDefinitive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, verdictToDTO(v))
}

func (h *handler) ConvertToPreliminary(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ConvertToPreliminary(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) UpdateStudy(w http.ResponseWriter, r *http.Request) {
	var req studyRequest
	if !decode(w, r, &req) {
		return
	}

	details := &model.StudyDetails{
		EngineerName:    req.EngineerName,
		EngineerContact: req.EngineerContact,
		StartDate:       req.StartDate,
		CompletionDate:  req.CompletionDate,
		Notes:           req.Notes,
	}
	err := h.svc.UpdateStudyStatus(r.Context(), chi.URLParam(r, "id"), model.StudyStatus(req.Status), details)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) UpdateProvisions(w http.ResponseWriter, r *http.Request) {
	var req provisionsRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")

	if req.TemplateID != "" {
		p, err := h.svc.ApplyProvisionTemplate(r.Context(), id, req.TemplateID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, provisionsToDTO(p))
		return
	}

	p := provisionsFromDTO(req.Provisions)
	if err := h.svc.UpdateProvisions(r.Context(), id, p); err != nil {
		writeError(w, r, err)
		return
	}
	if p == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, http.StatusOK, provisionsToDTO(p))
}

func (h *handler) Clauses(w http.ResponseWriter, r *http.Request) {
	revision := model.PriceRevision(r.URL.Query().Get("revision"))

	terms, err := h.svc.Terms(r.Context(), chi.URLParam(r, "id"), revision)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, termsToDTO(terms))
}

func (h *handler) QuoteTemplates(w http.ResponseWriter, r *http.Request) {
	out := make([]quoteTemplateDTO, 0, len(model.QuoteTemplates))
	for _, t := range model.QuoteTemplates {
		out = append(out, quoteTemplateDTO{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			ProjectType: string(t.ProjectType),
			Phases:      len(t.Phases),
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *handler) ProvisionTemplates(w http.ResponseWriter, r *http.Request) {
	out := make([]provisionTemplateDTO, 0, len(model.ProvisionTemplates))
	for _, t := range model.ProvisionTemplates {
		p := t.Provisions
		out = append(out, provisionTemplateDTO{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			ProjectType: string(t.ProjectType),
			Provisions:  *provisionsToDTO(&p),
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func listParams(r *http.Request) model.ListParams {
	q := r.URL.Query()
	return model.ListParams{
		Status:     model.QuoteStatus(q.Get("status")),
		ClientName: q.Get("client"),
		OrderBy:    q.Get("order"),
		Direction:  model.SortDirection(q.Get("dir")),
	}
}

func quotesToDTO(quotes []model.Quote) []quoteDTO {
	out := make([]quoteDTO, len(quotes))
	for i, q := range quotes {
		out[i] = quoteToDTO(q)
	}
	return out
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(r.Context(), "encode response", logger.ErrorF(err))
	}
}
