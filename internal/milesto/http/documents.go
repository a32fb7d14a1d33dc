package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhi19833/milesto/internal/milesto/service"
	"github.com/abhi19833/milesto/pkg/httpx"
	"github.com/abhi19833/milesto/pkg/milestosdk"
	"github.com/abhi19833/milesto/pkg/slogx"
)

// maxUploadBytes caps document uploads at 10 MiB.
const maxUploadBytes = 10 << 20

type DocumentsHandler struct {
	DocumentService *service.DocumentService
}

func writeDocumentError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidDocument):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid document fields")
	case errors.Is(err, service.ErrDocumentNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, service.ErrProjectNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrNotAuthorized):
		httpx.WriteError(w, http.StatusForbidden, "You do not have access to this project")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, fallback)
	}
}

// HandleUpload godoc
//
//	@Summary		Upload Document Endpoint
//	@Description	Upload a file into a project's document list. Multipart form with a "file" part
//	@Description	and an optional "title" field. The blob goes to storage; metadata is recorded.
//	@Tags			Documents
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string						true	"Project id"
//	@Param			file	formData	file						true	"File to upload"
//	@Param			title	formData	string						false	"Display title"
//	@Success		201		{object}	milestosdk.Document			"document"
//	@Failure		400		{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id}/documents/upload [post].
func (h *DocumentsHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Upload must be multipart form data under 10 MiB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "A file part is required")
		return
	}
	defer file.Close()

	doc, err := h.DocumentService.UploadDocument(
		ctx,
		httpx.UserIDFromCtx(ctx),
		r.PathValue("id"),
		r.FormValue("title"),
		header.Filename,
		file,
	)
	if err != nil {
		log.Error("document upload failed", "err", err)
		writeDocumentError(w, err, "Could not upload document")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toDocument(doc))
}

// HandleCreate godoc
//
//	@Summary		Create Document Endpoint
//	@Description	Create an inline document with editable content and no file blob.
//	@Tags			Documents
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Project id"
//	@Param			request	body		milestosdk.CreateDocumentRequest	true	"Title and content"
//	@Success		201		{object}	milestosdk.Document				"document"
//	@Failure		400		{object}	milestosdk.ErrorResponse		"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id}/documents [post].
func (h *DocumentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req milestosdk.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	doc, err := h.DocumentService.CreateDocument(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		writeDocumentError(w, err, "Could not create document")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toDocument(doc))
}

// HandleListForProject godoc
//
//	@Summary		Project Documents Endpoint
//	@Description	List a project's documents, newest first.
//	@Tags			Documents
//	@Produce		json
//	@Param			id	path		string						true	"Project id"
//	@Success		200	{array}		milestosdk.Document			"documents"
//	@Failure		403	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id}/documents [get].
func (h *DocumentsHandler) HandleListForProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := h.DocumentService.ListProjectDocuments(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		writeDocumentError(w, err, "Could not list documents")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDocuments(docs))
}

// HandleGet godoc
//
//	@Summary		Get Document Endpoint
//	@Description	Fetch one document including its inline content.
//	@Tags			Documents
//	@Produce		json
//	@Param			id	path		string						true	"Document id"
//	@Success		200	{object}	milestosdk.Document			"document"
//	@Failure		404	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/documents/{id} [get].
func (h *DocumentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := h.DocumentService.GetDocument(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		writeDocumentError(w, err, "Could not fetch document")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDocument(doc))
}

// HandleUpdate godoc
//
//	@Summary		Update Document Endpoint
//	@Description	Replace the inline content. Each update bumps the version counter.
//	@Tags			Documents
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Document id"
//	@Param			request	body		milestosdk.UpdateDocumentRequest	true	"New content"
//	@Success		200		{object}	milestosdk.Document				"updated document"
//	@Failure		404		{object}	milestosdk.ErrorResponse		"message"
//	@Security		BearerAuth
//	@Router			/api/documents/{id} [put].
func (h *DocumentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req milestosdk.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	doc, err := h.DocumentService.UpdateContent(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"), req.Content)
	if err != nil {
		writeDocumentError(w, err, "Could not update document")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDocument(doc))
}

// HandleDelete godoc
//
//	@Summary		Delete Document Endpoint
//	@Description	Delete the document row and reclaim its blob if one exists.
//	@Tags			Documents
//	@Param			id	path	string	true	"Document id"
//	@Success		204
//	@Failure		404	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/documents/{id} [delete].
func (h *DocumentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.DocumentService.DeleteDocument(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id")); err != nil {
		writeDocumentError(w, err, "Could not delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
