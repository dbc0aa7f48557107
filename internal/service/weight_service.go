package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/umutkutlutr/CompGradToolbox/config"
	"github.com/umutkutlutr/CompGradToolbox/internal/dto"
	"github.com/umutkutlutr/CompGradToolbox/internal/engine"
	"github.com/umutkutlutr/CompGradToolbox/internal/model"
	"github.com/umutkutlutr/CompGradToolbox/internal/repository"
)

// ── 权重模块业务错误 ──

var (
	ErrWeightNegative = errors.New("权重分量不能为负数")
	ErrWeightAllZero  = errors.New("权重向量不能全为零")
)

// WeightService 权重业务接口。
// 单行配置，last-write-wins：更新立即持久化，仅影响后续求解运行
type WeightService interface {
	// 获取当前权重向量
	GetWeights(ctx context.Context) (*dto.WeightsResponse, error)
	// 更新权重向量（整体替换，按配置基准归一化后落库）
	SetWeights(ctx context.Context, req *dto.UpdateWeightsRequest, actor string) (*dto.WeightsResponse, error)
}

type weightService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWeightService 创建 WeightService 实例
func NewWeightService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) WeightService {
	return &weightService{cfg: cfg, repo: repo, logger: logger}
}

func (s *weightService) GetWeights(ctx context.Context) (*dto.WeightsResponse, error) {
	weight, err := s.repo.Weight.Get(ctx)
	if err != nil {
		s.logger.Error("查询权重失败", zap.Error(err))
		return nil, err
	}
	return toWeightsResponse(weight), nil
}

func (s *weightService) SetWeights(ctx context.Context, req *dto.UpdateWeightsRequest, actor string) (*dto.WeightsResponse, error) {
	skill := *req.SkillWeight
	facultyPref := *req.FacultyPrefWeight
	taPref := *req.TAPrefWeight
	workload := *req.WorkloadBalanceWeight

	// binding 已保证非负，这里兜底再查一次
	if skill < 0 || facultyPref < 0 || taPref < 0 || workload < 0 {
		return nil, ErrWeightNegative
	}
	if skill+facultyPref+taPref+workload == 0 {
		return nil, ErrWeightAllZero
	}

	// 归一化到配置基准后落库，保证不同来源的向量可比
	vec := engine.WeightVector{
		Skill:           skill,
		FacultyPref:     facultyPref,
		TAPref:          taPref,
		WorkloadBalance: workload,
	}.Normalized(s.cfg.Assign.WeightBasis)

	weight := &model.Weight{
		Skill:           vec.Skill,
		FacultyPref:     vec.FacultyPref,
		TAPref:          vec.TAPref,
		WorkloadBalance: vec.WorkloadBalance,
		UpdatedAt:       time.Now(),
		UpdatedBy:       &actor,
	}
	if err := s.repo.Weight.Save(ctx, weight); err != nil {
		s.logger.Error("保存权重失败", zap.Error(err))
		return nil, err
	}

	_ = s.repo.ActivityLog.Create(ctx, &model.ActivityLog{
		Action: "更新权重向量",
		Actor:  actor,
		Level:  "info",
	})

	s.logger.Info("权重向量已更新",
		zap.Float64("skill", vec.Skill),
		zap.Float64("faculty_pref", vec.FacultyPref),
		zap.Float64("ta_pref", vec.TAPref),
		zap.Float64("workload_balance", vec.WorkloadBalance),
		zap.String("actor", actor))

	return toWeightsResponse(weight), nil
}

func toWeightsResponse(w *model.Weight) *dto.WeightsResponse {
	return &dto.WeightsResponse{
		SkillWeight:           w.Skill,
		FacultyPrefWeight:     w.FacultyPref,
		TAPrefWeight:          w.TAPref,
		WorkloadBalanceWeight: w.WorkloadBalance,
		UpdatedAt:             w.UpdatedAt.Format(time.RFC3339),
	}
}
