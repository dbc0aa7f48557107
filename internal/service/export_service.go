package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/umutkutlutr/CompGradToolbox/config"
	"github.com/umutkutlutr/CompGradToolbox/internal/model"
	"github.com/umutkutlutr/CompGradToolbox/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoAssignment = errors.New("该学期暂无分配结果可导出")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出当前分配结果为 Excel (.xlsx)，两个 Sheet：
//     「课程分配」按课程列出教授与已分配 TA，「TA 负载」按 TA 列出总工时与承接课程
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportAssignments 导出某学期的当前分配结果为 Excel
	ExportAssignments(ctx context.Context, termID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAssignments — 导出当前分配结果为 Excel
// ═══════════════════════════════════════════════════════════
//
// Sheet「课程分配」: 课程代码 | 教授 | 已分配 TA | TA 数量 | 申请数量
// Sheet「TA 负载」 : TA      | 总工时 | 承接课程
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportAssignments(ctx context.Context, termID string) (*bytes.Buffer, string, error) {
	// 1. 解析学期
	var term *model.Term
	var err error
	if termID == "" {
		term, err = s.repo.Term.GetActive(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", ErrNoActiveTerm
			}
			s.logger.Error("查询激活学期失败", zap.Error(err))
			return nil, "", err
		}
	} else {
		term, err = s.repo.Term.GetByID(ctx, termID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", ErrTermNotFound
			}
			s.logger.Error("查询学期失败", zap.Error(err))
			return nil, "", err
		}
	}

	// 2. 查询当前分配
	assignment, err := s.repo.Assignment.GetCurrentByTerm(ctx, term.TermID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportNoAssignment
		}
		s.logger.Error("查询当前分配失败", zap.Error(err))
		return nil, "", err
	}

	// 3. 构建行数据
	type courseRow struct {
		code       string
		professors []string
		tas        []string
		requested  int
	}
	type taRow struct {
		name    string
		hours   int
		courses []string
	}

	courseRows := make(map[string]*courseRow)
	taRows := make(map[string]*taRow)

	for i := range assignment.Items {
		item := &assignment.Items[i]
		if item.Course == nil || item.TA == nil {
			continue
		}
		code := item.Course.Code

		cr, ok := courseRows[code]
		if !ok {
			profs := make([]string, 0, len(item.Course.Professors))
			for j := range item.Course.Professors {
				profs = append(profs, item.Course.Professors[j].Name)
			}
			cr = &courseRow{code: code, professors: profs, requested: item.Course.RequestedTAs}
			courseRows[code] = cr
		}
		cr.tas = append(cr.tas, item.TA.Name)

		tr, ok := taRows[item.TA.Name]
		if !ok {
			tr = &taRow{name: item.TA.Name}
			taRows[item.TA.Name] = tr
		}
		tr.hours += item.Hours
		tr.courses = append(tr.courses, code)
	}

	// 稳定输出顺序：课程按代码、TA 按姓名
	courseCodes := make([]string, 0, len(courseRows))
	for code := range courseRows {
		courseCodes = append(courseCodes, code)
	}
	sort.Strings(courseCodes)

	taNames := make([]string, 0, len(taRows))
	for name := range taRows {
		taNames = append(taNames, name)
	}
	sort.Strings(taNames)

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// Sheet 1: 课程分配
	courseSheet := "课程分配"
	idx, _ := f.NewSheet(courseSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(courseSheet, "A", "A", 14)
	f.SetColWidth(courseSheet, "B", "B", 28)
	f.SetColWidth(courseSheet, "C", "C", 36)
	f.SetColWidth(courseSheet, "D", "E", 10)

	courseHeaders := []string{"课程代码", "教授", "已分配 TA", "TA 数量", "申请数量"}
	for i, h := range courseHeaders {
		f.SetCellValue(courseSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(courseSheet, "A1", cell(colName(len(courseHeaders)-1), 1), headerStyle)

	row := 2
	for _, code := range courseCodes {
		cr := courseRows[code]
		f.SetCellValue(courseSheet, cell("A", row), cr.code)
		f.SetCellValue(courseSheet, cell("B", row), strings.Join(cr.professors, ", "))
		f.SetCellValue(courseSheet, cell("C", row), strings.Join(cr.tas, ", "))
		f.SetCellValue(courseSheet, cell("D", row), len(cr.tas))
		f.SetCellValue(courseSheet, cell("E", row), cr.requested)
		row++
	}

	// Sheet 2: TA 负载
	taSheet := "TA 负载"
	f.NewSheet(taSheet)

	f.SetColWidth(taSheet, "A", "A", 20)
	f.SetColWidth(taSheet, "B", "B", 10)
	f.SetColWidth(taSheet, "C", "C", 40)

	taHeaders := []string{"TA", "总工时", "承接课程"}
	for i, h := range taHeaders {
		f.SetCellValue(taSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(taSheet, "A1", cell(colName(len(taHeaders)-1), 1), headerStyle)

	row = 2
	for _, name := range taNames {
		tr := taRows[name]
		f.SetCellValue(taSheet, cell("A", row), tr.name)
		f.SetCellValue(taSheet, cell("B", row), tr.hours)
		f.SetCellValue(taSheet, cell("C", row), strings.Join(tr.courses, ", "))
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("TA分配表_%s.xlsx", term.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
