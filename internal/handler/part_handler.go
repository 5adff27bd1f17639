package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjcbulldog/xerodb/internal/middleware"
	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/repository"
	"github.com/sjcbulldog/xerodb/internal/service"
)

type PartHandler struct {
	parts    *service.PartService
	drawings *service.DrawingService
	audit    *repository.AuditRepository
}

func NewPartHandler(parts *service.PartService, drawings *service.DrawingService, audit *repository.AuditRepository) *PartHandler {
	return &PartHandler{parts: parts, drawings: drawings, audit: audit}
}

func partNumber(c *gin.Context) (int, int, bool) {
	robot, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		Error(c, 40000, "invalid robot id")
		return 0, 0, false
	}
	seq, err := strconv.Atoi(c.Param("seq"))
	if err != nil {
		Error(c, 40000, "invalid part sequence")
		return 0, 0, false
	}
	return robot, seq, true
}

// Create adds a child part beneath an assembly.
func (h *PartHandler) Create(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		Error(c, 40000, "invalid robot id")
		return
	}
	var req service.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, 40000, err.Error())
		return
	}
	part, err := h.parts.CreatePart(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	Created(c, part)
}

// Get returns one part.
func (h *PartHandler) Get(c *gin.Context) {
	robot, seq, ok := partNumber(c)
	if !ok {
		return
	}
	part, err := h.parts.GetPart(c.Request.Context(), robot, seq)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, part)
}

type updatePartRequest struct {
	State string             `json:"state"`
	Edits *service.PartEdits `json:"edits"`
}

// Update applies a transition and/or field edits.
func (h *PartHandler) Update(c *gin.Context) {
	robot, seq, ok := partNumber(c)
	if !ok {
		return
	}
	var req updatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, 40000, err.Error())
		return
	}
	part, diff, err := h.parts.UpdatePart(c.Request.Context(), middleware.CurrentUser(c), robot, seq, req.State, req.Edits)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, gin.H{"part": part, "diff": diff})
}

// Delete soft-deletes a part (tombstone re-parent).
func (h *PartHandler) Delete(c *gin.Context) {
	robot, seq, ok := partNumber(c)
	if !ok {
		return
	}
	if err := h.parts.DeletePart(c.Request.Context(), middleware.CurrentUser(c), robot, seq); err != nil {
		fail(c, err)
		return
	}
	Success(c, nil)
}

// NextStates returns the states the acting user may move the part to.
func (h *PartHandler) NextStates(c *gin.Context) {
	robot, seq, ok := partNumber(c)
	if !ok {
		return
	}
	states, err := h.parts.LegalNextStates(c.Request.Context(), middleware.CurrentUser(c), robot, seq)
	if err != nil {
		fail(c, err)
		return
	}
	if states == nil {
		states = []string{}
	}
	Success(c, states)
}

// Audit returns the part's change history, newest first.
func (h *PartHandler) Audit(c *gin.Context) {
	robot, seq, ok := partNumber(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	part, err := h.parts.GetPart(c.Request.Context(), robot, seq)
	if err != nil {
		fail(c, err)
		return
	}
	entries, total, err := h.audit.ListByPart(c.Request.Context(), part.Number().String(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, gin.H{"items": entries, "total": total, "page": page, "page_size": pageSize})
}

// UploadDrawing stores a new drawing version for the part.
func (h *PartHandler) UploadDrawing(c *gin.Context) {
	robot, seq, ok := partNumber(c)
	if !ok {
		return
	}
	part, err := h.parts.GetPart(c.Request.Context(), robot, seq)
	if err != nil {
		fail(c, err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		Error(c, 40000, "missing file")
		return
	}
	defer file.Close()

	drawing, err := h.drawings.Upload(c.Request.Context(), middleware.CurrentUser(c), part.Number(), header.Filename, file, header.Size)
	if err != nil {
		fail(c, err)
		return
	}
	Created(c, drawing)
}

// ListDrawings returns the part's drawing versions.
func (h *PartHandler) ListDrawings(c *gin.Context) {
	robot, seq, ok := partNumber(c)
	if !ok {
		return
	}
	drawings, err := h.drawings.List(c.Request.Context(), entity.PartNumber{RobotID: robot, Sequence: seq})
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, drawings)
}

// DownloadDrawing streams one stored drawing file.
func (h *PartHandler) DownloadDrawing(c *gin.Context) {
	drawing, body, err := h.drawings.Download(c.Request.Context(), c.Param("drawingId"))
	if err != nil {
		fail(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", `attachment; filename="`+drawing.FileName+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	io.Copy(c.Writer, body)
}
