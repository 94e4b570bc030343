package handler

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"nextbase/internal/filestore"
	"nextbase/internal/transport/http/response"
	"nextbase/internal/validator"
)

type FileHandler struct {
	store           *filestore.Store
	maxPreviewBytes int
}

func NewFileHandler(store *filestore.Store, maxPreviewBytes int) *FileHandler {
	return &FileHandler{store: store, maxPreviewBytes: maxPreviewBytes}
}

func (h *FileHandler) UploadSingle(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		checkValid(c, validator.ValidateFileUpload(nil))
		return
	}

	contentType, res, err := inspectUpload(fh)
	if err != nil {
		log.Printf("inspect upload failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "file upload failed")
		return
	}
	if !checkValid(c, res) {
		return
	}

	stored, err := h.save(fh, contentType)
	if err != nil {
		h.writeStoreError(c, err, "file upload failed")
		return
	}
	response.OK(c, stored, "file uploaded")
}

// UploadMultiple validates every part of the "files" field before storing any of them.
func (h *FileHandler) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		checkValid(c, validator.ValidateFileUpload(nil))
		return
	}
	parts := form.File["files"]

	types := make([]string, len(parts))
	var errs []string
	for i, fh := range parts {
		contentType, res, err := inspectUpload(fh)
		if err != nil {
			log.Printf("inspect upload failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "file upload failed")
			return
		}
		for _, msg := range res.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", fh.Filename, msg))
		}
		types[i] = contentType
	}
	if len(errs) > 0 {
		checkValid(c, validator.Result{Valid: false, Errors: errs})
		return
	}

	stored := make([]*filestore.StoredFile, 0, len(parts))
	for i, fh := range parts {
		file, err := h.save(fh, types[i])
		if err != nil {
			h.writeStoreError(c, err, "file upload failed")
			return
		}
		stored = append(stored, file)
	}
	response.OK(c, stored, fmt.Sprintf("%d files uploaded", len(stored)))
}

func (h *FileHandler) List(c *gin.Context) {
	files, err := h.store.List()
	if err != nil {
		h.writeStoreError(c, err, "list files failed")
		return
	}
	response.OK(c, files, "")
}

func (h *FileHandler) Download(c *gin.Context) {
	filename := c.Param("filename")
	f, info, err := h.store.Open(filename)
	if err != nil {
		h.writeStoreError(c, err, "file download failed")
		return
	}
	defer f.Close()

	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", f, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	})
}

func (h *FileHandler) Preview(c *gin.Context) {
	preview, err := h.store.Preview(c.Param("filename"), h.maxPreviewBytes)
	if err != nil {
		h.writeStoreError(c, err, "file preview failed")
		return
	}
	response.OK(c, preview, "")
}

func (h *FileHandler) save(fh *multipart.FileHeader, contentType string) (*filestore.StoredFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload part failed: %w", err)
	}
	defer src.Close()
	return h.store.Save(fh.Filename, contentType, src)
}

func (h *FileHandler) writeStoreError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, filestore.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "file not found")
	case errors.Is(err, filestore.ErrInvalidName):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, filestore.ErrPreviewUnsupported):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	default:
		log.Printf("%s: %v", fallback, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

// inspectUpload resolves the part's MIME type and checks it against the upload rules.
func inspectUpload(fh *multipart.FileHeader) (string, validator.Result, error) {
	src, err := fh.Open()
	if err != nil {
		return "", validator.Result{}, fmt.Errorf("open upload part failed: %w", err)
	}
	defer src.Close()

	contentType, err := filestore.DetectType(fh.Header.Get("Content-Type"), src)
	if err != nil {
		return "", validator.Result{}, err
	}

	res := validator.ValidateFileUpload(&validator.FileMeta{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: contentType,
	})
	return contentType, res, nil
}
