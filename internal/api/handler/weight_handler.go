package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/umutkutlutr/CompGradToolbox/internal/dto"
	"github.com/umutkutlutr/CompGradToolbox/internal/service"
	"github.com/umutkutlutr/CompGradToolbox/pkg/response"
)

// WeightHandler 权重模块 HTTP 处理器
type WeightHandler struct {
	weightSvc service.WeightService
}

// NewWeightHandler 创建 WeightHandler
func NewWeightHandler(weightSvc service.WeightService) *WeightHandler {
	return &WeightHandler{weightSvc: weightSvc}
}

// GetWeights 获取当前权重向量
// GET /api/v1/weights
func (h *WeightHandler) GetWeights(c *gin.Context) {
	weights, err := h.weightSvc.GetWeights(c.Request.Context())
	if err != nil {
		h.handleWeightError(c, err)
		return
	}

	response.OK(c, weights)
}

// SetWeights 更新权重向量（整体替换）
// PUT /api/v1/weights
func (h *WeightHandler) SetWeights(c *gin.Context) {
	var req dto.UpdateWeightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	actor := ResolveActor(c, "")

	weights, err := h.weightSvc.SetWeights(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleWeightError(c, err)
		return
	}

	response.OK(c, weights)
}

// handleWeightError 统一处理权重模块业务错误
func (h *WeightHandler) handleWeightError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWeightNegative):
		response.BadRequest(c, 11101, "权重分量不能为负数")
	case errors.Is(err, service.ErrWeightAllZero):
		response.BadRequest(c, 11102, "权重向量不能全为零")
	default:
		response.InternalError(c)
	}
}
