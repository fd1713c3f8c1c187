package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	applogger "github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/logger"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/metrics"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/validate"
)

var (
	ErrImportInvalidFile = errors.New("无法解析 Excel 文件")
	ErrImportNoData      = errors.New("Excel 文件无数据行（第一行为表头）")
	ErrImportBadHeader   = errors.New("Excel 表头缺少必要列")
	ErrImportTooManyRows = errors.New("数据行数超过上限")
)

// importColumns 导入表头（不区分大小写，列顺序不限）
var importColumns = []string{
	"academic_year_id",
	"semester_id",
	"program_id",
	"level_id",
	"section_id",
	"classroom_id",
	"subject_id",
	"teacher_ids",
	"time_slot_ids",
}

// importRow Excel 中的一行提交
type importRow struct {
	Row     int
	Request dto.CreateTimetableEntryRequest
}

// parseEntrySheet 读取首个工作表，每个非空数据行对应一次课表提交
func parseEntrySheet(reader io.Reader, maxRows int) ([]importRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportInvalidFile, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportInvalidFile, err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := make(map[string]int, len(importColumns))
	for i, h := range excelRows[0] {
		colIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, col := range importColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrImportBadHeader, strings.Join(missing, ", "))
	}

	cell := func(row []string, col string) string {
		if idx := colIndex[col]; idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []importRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		if isBlankRow(row) {
			continue
		}
		rows = append(rows, importRow{
			Row: i + 1,
			Request: dto.CreateTimetableEntryRequest{
				AcademicYearID: cell(row, "academic_year_id"),
				SemesterID:     cell(row, "semester_id"),
				ProgramID:      cell(row, "program_id"),
				LevelID:        cell(row, "level_id"),
				SectionID:      cell(row, "section_id"),
				ClassroomID:    cell(row, "classroom_id"),
				SubjectID:      cell(row, "subject_id"),
				TeacherIDs:     splitIDs(cell(row, "teacher_ids")),
				TimeSlotIDs:    splitIDs(cell(row, "time_slot_ids")),
			},
		})
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxRows {
		return nil, fmt.Errorf("%w: %d", ErrImportTooManyRows, maxRows)
	}
	return rows, nil
}

// splitIDs 单元格内多个 ID 以逗号、分号或空白分隔
func splitIDs(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ────────────────────── Import ──────────────────────

func (s *timetableEntryService) Import(ctx context.Context, reader io.Reader) (*dto.ImportTimetableEntriesResponse, error) {
	rows, err := parseEntrySheet(reader, s.importMaxRows)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportTimetableEntriesResponse{Total: len(rows), Rows: make([]dto.ImportRowResult, 0, len(rows))}
	for i := range rows {
		req := &rows[i].Request
		result := dto.ImportRowResult{Row: rows[i].Row}

		// 非 HTTP 入口，手动执行与请求绑定相同的结构校验
		if err := s.validate.Struct(req); err != nil {
			field, msg, ok := validate.FieldError(err)
			if !ok {
				return nil, err
			}
			v := invalidInput(field, msg)
			s.observe(v, 0)
			s.rejectRow(resp, &result, v, req)
			continue
		}

		created, err := s.Submit(ctx, req)
		if err != nil {
			var v *RuleViolation
			if !errors.As(err, &v) {
				// 非业务拒绝（数据库故障、班级锁繁忙）中止导入，已成功的行保持提交
				applogger.FromContext(ctx, s.logger).Error("批量导入中止", zap.Int("row", rows[i].Row), zap.Error(err))
				return nil, err
			}
			s.rejectRow(resp, &result, v, req)
			continue
		}

		result.Status = dto.ImportRowCreated
		for _, e := range created.Entries {
			result.EntryIDs = append(result.EntryIDs, e.ID)
		}
		resp.Created++
		resp.Rows = append(resp.Rows, result)
		metrics.ImportRows.WithLabelValues(dto.ImportRowCreated).Inc()
	}

	applogger.FromContext(ctx, s.logger).Info("课表批量导入完成",
		zap.Int("total", resp.Total),
		zap.Int("created", resp.Created),
		zap.Int("rejected", resp.Rejected),
	)
	return resp, nil
}

func (s *timetableEntryService) rejectRow(resp *dto.ImportTimetableEntriesResponse, result *dto.ImportRowResult, v *RuleViolation, req *dto.CreateTimetableEntryRequest) {
	result.Status = dto.ImportRowRejected
	result.Violation = ToViolationResponse(v, req)
	resp.Rejected++
	resp.Rows = append(resp.Rows, *result)
	metrics.ImportRows.WithLabelValues(dto.ImportRowRejected).Inc()
}
