package api

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"goentropy/app"
	"goentropy/domain/core"
	"goentropy/internal/errors"

	"github.com/gin-gonic/gin"
)

// limitBody caps request bodies at twice the upload limit to leave room for
// multipart framing
func (s *Server) limitBody() gin.HandlerFunc {
	limit := 2 * s.container.Config.Server.MaxUploadBytes
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func (s *Server) handleAuditUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, formError(err, "file"))
		return
	}

	upload, err := s.readUpload(header)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := s.container.Audits.AuditUpload(c.Request.Context(), upload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuditResponse(report))
}

func (s *Server) handleAuditBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, formError(err, "files"))
		return
	}
	if len(form.File["files"]) == 0 {
		respondError(c, core.NewEmptyInputError("multipart field \"files\""))
		return
	}

	headers := form.File["files"]
	uploads := make([]app.Upload, 0, len(headers))
	for _, header := range headers {
		upload, err := s.readUpload(header)
		if err != nil {
			respondError(c, fmt.Errorf("%s: %w", header.Filename, err))
			return
		}
		uploads = append(uploads, upload)
	}

	outcomes, err := s.container.Audits.AuditBatch(c.Request.Context(), uploads)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]BatchItem, len(outcomes))
	for i, o := range outcomes {
		items[i] = BatchItem{Filename: o.Filename, Status: http.StatusOK}
		if o.Err != nil {
			items[i].Status = errors.HTTPStatus(o.Err)
			items[i].Detail = o.Err.Error()
			continue
		}
		resp := newAuditResponse(o.Report)
		items[i].Report = &resp
	}

	c.JSON(http.StatusOK, items)
}

// formError classifies a multipart parsing failure: a body cut off by
// limitBody, a missing field, or a malformed form
func formError(err error, field string) error {
	var maxBytes *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxBytes):
		return errors.FromDomain(err)
	case stderrors.Is(err, http.ErrMissingFile):
		return core.NewEmptyInputError(fmt.Sprintf("multipart field %q", field))
	default:
		return core.NewUnsupportedFormatError("multipart form", err)
	}
}

// readUpload loads one multipart file, refusing anything over the upload limit
func (s *Server) readUpload(header *multipart.FileHeader) (app.Upload, error) {
	limit := s.container.Config.Server.MaxUploadBytes
	if header.Size > limit {
		return app.Upload{}, errors.PayloadTooLarge(core.NewInvalidLengthError(int(header.Size), int(limit)))
	}

	f, err := header.Open()
	if err != nil {
		return app.Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return app.Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > limit {
		return app.Upload{}, errors.PayloadTooLarge(core.NewInvalidLengthError(len(content), int(limit)))
	}

	return app.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
