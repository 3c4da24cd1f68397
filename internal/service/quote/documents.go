package service

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/logger"
)

func documentKey(quoteID, docID, name string) string {
	return path.Join("quotes", quoteID, "study", docID+"-"+path.Base(name))
}

// AttachStudyDocument uploads a supporting file for the structural study
// and records its metadata on the quote.
func (svc *service) AttachStudyDocument(
	ctx context.Context,
	id string,
	upload model.UploadParams,
) (model.StudyDocument, error) {
	const op string = "quote.service.AttachStudyDocument"
	log := logger.With(
		logger.String("quote_id", id),
		logger.String("document_name", upload.Name),
		logger.Int64("size", upload.Size),
	)

	if svc.storage == nil {
		return model.StudyDocument{}, fmt.Errorf("%s: %w", op, model.ErrStorageDisabled)
	}
	if upload.Name == "" || upload.Body == nil {
		return model.StudyDocument{}, fmt.Errorf("%s: %w", op,
			model.NewValidationError("document name and content are required"))
	}

	q, err := svc.load(ctx, id)
	if err != nil {
		log.Error(ctx, "repository quote by id", logger.ErrorF(err))
		return model.StudyDocument{}, fmt.Errorf("%s: %w", op, err)
	}

	docID := uuid.NewString()
	key := documentKey(id, docID, upload.Name)

	obj, err := svc.storage.Put(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		log.Error(ctx, "storage put", logger.String("key", key), logger.ErrorF(err))
		return model.StudyDocument{}, fmt.Errorf("%s: %w", op, err)
	}

	doc := model.StudyDocument{
		ID:         docID,
		Name:       upload.Name,
		Type:       upload.ContentType,
		URL:        obj.URL,
		UploadedAt: obj.At,
		UploadedBy: upload.UploadedBy,
		Size:       upload.Size,
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = svc.now()
	}

	docs := q.StructuralStudy.Clone().Documents
	docs[docID] = doc

	if err := svc.update(ctx, id, model.Patch{model.FieldStudyDocuments: docs}); err != nil {
		log.Error(ctx, "repository update quote", logger.ErrorF(err))
		if rmErr := svc.storage.Remove(ctx, key); rmErr != nil {
			log.Warn(ctx, "storage cleanup", logger.String("key", key), logger.ErrorF(rmErr))
		}
		return model.StudyDocument{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info(ctx, "study document attached", logger.String("document_id", docID))
	return doc, nil
}

func (svc *service) RemoveStudyDocument(ctx context.Context, id, docID string) error {
	const op string = "quote.service.RemoveStudyDocument"
	log := logger.With(
		logger.String("quote_id", id),
		logger.String("document_id", docID),
	)

	if svc.storage == nil {
		return fmt.Errorf("%s: %w", op, model.ErrStorageDisabled)
	}

	q, err := svc.load(ctx, id)
	if err != nil {
		log.Error(ctx, "repository quote by id", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	doc, ok := q.StructuralStudy.Documents[docID]
	if !ok {
		return fmt.Errorf("%s: %w", op, model.NewValidationError(fmt.Sprintf("document %q not found", docID)))
	}

	docs := q.StructuralStudy.Clone().Documents
	delete(docs, docID)
	if err := svc.update(ctx, id, model.Patch{model.FieldStudyDocuments: docs}); err != nil {
		log.Error(ctx, "repository update quote", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	// The metadata is gone; a leftover object is only logged.
	if err := svc.storage.Remove(ctx, documentKey(id, docID, doc.Name)); err != nil {
		log.Warn(ctx, "storage remove", logger.ErrorF(err))
	}
	return nil
}
