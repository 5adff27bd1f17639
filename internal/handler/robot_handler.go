package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjcbulldog/xerodb/internal/middleware"
	"github.com/sjcbulldog/xerodb/internal/parttype"
	"github.com/sjcbulldog/xerodb/internal/service"
)

type RobotHandler struct {
	robots   *service.RobotService
	parts    *service.PartService
	tree     *service.TreeService
	order    *service.OrderService
	lateness *service.LatenessService
}

func NewRobotHandler(robots *service.RobotService, parts *service.PartService, tree *service.TreeService, order *service.OrderService, lateness *service.LatenessService) *RobotHandler {
	return &RobotHandler{
		robots:   robots,
		parts:    parts,
		tree:     tree,
		order:    order,
		lateness: lateness,
	}
}

func robotID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		Error(c, 40000, "invalid robot id")
		return 0, false
	}
	return id, true
}

// List returns all robots.
func (h *RobotHandler) List(c *gin.Context) {
	robots, err := h.robots.ListRobots(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, robots)
}

// Create creates a robot and its top-level assemblies.
func (h *RobotHandler) Create(c *gin.Context) {
	var req service.CreateRobotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, 40000, err.Error())
		return
	}
	robot, err := h.robots.CreateRobot(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	Created(c, robot)
}

// Get returns one robot with its top-level assemblies.
func (h *RobotHandler) Get(c *gin.Context) {
	id, ok := robotID(c)
	if !ok {
		return
	}
	robot, err := h.robots.GetRobot(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, robot)
}

// Tree returns the robot's nested part tree, the tree-view wire contract.
func (h *RobotHandler) Tree(c *gin.Context) {
	id, ok := robotID(c)
	if !ok {
		return
	}
	flat, err := h.parts.ListParts(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, h.tree.BuildForest(middleware.CurrentUser(c), flat))
}

// Order returns the aggregated purchase list.
func (h *RobotHandler) Order(c *gin.Context) {
	id, ok := robotID(c)
	if !ok {
		return
	}
	flat, err := h.parts.ListParts(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, h.order.Aggregate(flat))
}

// OrderExport streams the purchase list as a workbook.
func (h *RobotHandler) OrderExport(c *gin.Context) {
	id, ok := robotID(c)
	if !ok {
		return
	}
	flat, err := h.parts.ListParts(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	f, err := h.order.ExportXLSX(h.order.Aggregate(flat))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="robot-%03d-order.xlsx"`, id))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// Lateness returns the days-late report. Query params: mode (nextStateDue|
// doneDue, default nextStateDue) and date (yyyy-mm-dd, default today).
func (h *RobotHandler) Lateness(c *gin.Context) {
	id, ok := robotID(c)
	if !ok {
		return
	}

	mode := service.LatenessMode(c.DefaultQuery("mode", string(service.ModeNextStateDue)))
	if mode != service.ModeNextStateDue && mode != service.ModeDoneDue {
		Error(c, 40000, "invalid lateness mode")
		return
	}
	reference := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(parttype.DateLayout, raw)
		if err != nil {
			Error(c, 40000, "invalid reference date")
			return
		}
		reference = parsed
	}

	flat, err := h.parts.ListParts(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, h.lateness.Classify(flat, reference, mode))
}
