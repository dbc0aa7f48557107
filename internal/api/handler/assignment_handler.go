package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umutkutlutr/CompGradToolbox/internal/dto"
	"github.com/umutkutlutr/CompGradToolbox/internal/engine"
	"github.com/umutkutlutr/CompGradToolbox/internal/service"
	pkgerrors "github.com/umutkutlutr/CompGradToolbox/pkg/errors"
	"github.com/umutkutlutr/CompGradToolbox/pkg/response"
)

// AssignmentHandler 分配模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// RunAssignment 执行自动分配
// POST /api/v1/assignments/run
func (h *AssignmentHandler) RunAssignment(c *gin.Context) {
	var req dto.RunAssignmentRequest
	// 请求体可省略（使用激活学期 + 默认操作者）
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}
	req.Actor = ResolveActor(c, req.Actor)

	result, err := h.assignmentSvc.RunAssignment(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, result)
}

// GetAssignments 获取当前分配视图
// GET /api/v1/assignments?term_id=xxx
func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	termID := c.Query("term_id")

	view, err := h.assignmentSvc.GetAssignments(c.Request.Context(), termID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, view)
}

// Override 人工覆盖单门课程的 TA 集合
// POST /api/v1/assignments/override
func (h *AssignmentHandler) Override(c *gin.Context) {
	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}
	req.Actor = ResolveActor(c, req.Actor)

	view, err := h.assignmentSvc.Override(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, view)
}

// ListOverrides 获取覆盖审计记录
// GET /api/v1/assignments/overrides?term_id=xxx&page=1&page_size=20
func (h *AssignmentHandler) ListOverrides(c *gin.Context) {
	var req dto.OverrideListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	records, total, err := h.assignmentSvc.ListOverrides(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// handleAssignmentError 统一处理分配模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	var infeasible *engine.InfeasibleInputError

	switch {
	case errors.Is(err, service.ErrTermNotFound):
		response.NotFound(c, 12101, "学期不存在")
	case errors.Is(err, service.ErrNoActiveTerm):
		response.NotFound(c, 12102, "无激活学期")
	case errors.Is(err, service.ErrNoCourses):
		response.BadRequest(c, 12103, "该学期无课程，无法执行分配")
	case errors.Is(err, service.ErrNoCurrentAssignment):
		response.NotFound(c, 12104, "该学期暂无分配结果")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12105, "课程不存在")
	case errors.Is(err, service.ErrTANotFound):
		response.NotFound(c, 12106, "TA 不存在")
	case errors.Is(err, service.ErrOverrideNoChange):
		response.BadRequest(c, 12107, "覆盖请求未包含任何变更")
	case errors.Is(err, service.ErrOverrideNotAssigned):
		response.BadRequest(c, 12108, "待移除的 TA 未分配到该课程")
	case errors.Is(err, service.ErrOverrideDuplicate):
		response.BadRequest(c, 12109, "待添加的 TA 已分配到该课程")
	case errors.Is(err, service.ErrOverrideCapacity):
		response.Conflict(c, 12110, "课程 TA 数量将超过申请上限")
	case errors.Is(err, service.ErrOverrideWorkload):
		response.Conflict(c, 12111, "TA 工时将超过上限")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 12112, "分配结果已被其他操作修改，请刷新后重试")
	case errors.As(err, &infeasible):
		response.Error(c, http.StatusUnprocessableEntity, 12113, infeasible.Error())
	default:
		response.InternalError(c)
	}
}
