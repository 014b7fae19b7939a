package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"classroom-portal/internal/conflict"
	"classroom-portal/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出教室某一周的占用情况为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel 格式：单 Sheet，列为所在周的周一 ~ 周日，行为固定课表与已批准预约
type ExportService interface {
	// ExportClassroomWeek 导出 date 所在周的教室占用表，date 为空时取本周
	ExportClassroomWeek(ctx context.Context, classroomID, date string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, clock Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, clock: clock, logger: logger}
}

// occupancyRow 表格中的一行：一条课表或一条预约
type occupancyRow struct {
	kind  string
	start conflict.ClockTime
	end   conflict.ClockTime
	day   conflict.DayOfWeek
	text  string
}

// ═══════════════════════════════════════════════════════════
// ExportClassroomWeek 导出教室周占用表
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：教室名 + 周起止日期
//   - 表头：类型 | 时间 | 周一 MM-DD ... 周日 MM-DD
//   - 数据行：按开始时间排序，占用所在星期列填写课程 / 预约用途

func (s *exportService) ExportClassroomWeek(ctx context.Context, classroomID, dateStr string) (*bytes.Buffer, string, error) {
	date := s.clock.Today()
	if dateStr != "" {
		d, err := s.clock.ParseDate(dateStr)
		if err != nil {
			return nil, "", err
		}
		date = d
	}
	room, err := s.repo.Classroom.GetByID(ctx, classroomID)
	if err != nil {
		return nil, "", notFoundOr(err, ErrClassroomNotFound)
	}

	weekStart := conflict.WeekStart(date)
	weekEnd := weekStart.AddDate(0, 0, 6)

	// 1. 查询固定课表与本周已批准预约
	schedules, err := s.repo.Schedule.ListByClassroom(ctx, classroomID)
	if err != nil {
		s.logger.Error("查询教室课表失败", zap.String("classroom_id", classroomID), zap.Error(err))
		return nil, "", storeError(err)
	}
	reservations, err := s.repo.Reservation.ListApprovedByClassroomBetween(ctx, classroomID, weekStart, weekEnd)
	if err != nil {
		s.logger.Error("查询教室预约失败", zap.String("classroom_id", classroomID), zap.Error(err))
		return nil, "", storeError(err)
	}

	// 2. 构建行
	var rows []occupancyRow
	for _, rs := range schedules {
		sl, err := slotOf(rs.ScheduleID, rs.StartTime, rs.EndTime)
		if err != nil {
			return nil, "", err
		}
		text := rs.CourseID
		if rs.Course != nil {
			text = rs.Course.Name
		}
		if rs.Teacher != nil {
			text += " / " + rs.Teacher.Name
		}
		if rs.Group != nil {
			text += " / " + rs.Group.Name
		}
		rows = append(rows, occupancyRow{
			kind: "课程", start: sl.Interval.Start, end: sl.Interval.End,
			day: conflict.DayOfWeek(rs.DayOfWeek), text: text,
		})
	}
	for _, r := range reservations {
		sl, err := slotOf(r.ReservationID, r.StartTime, r.EndTime)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows, occupancyRow{
			kind: "预约", start: sl.Interval.Start, end: sl.Interval.End,
			day: conflict.WeekdayOf(r.Date()), text: r.Purpose,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].start != rows[j].start {
			return rows[i].start < rows[j].start
		}
		return rows[i].day < rows[j].day
	})

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "周占用"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "I", 24)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	title := fmt.Sprintf("%s 占用表（%s ~ %s）", room.Name, weekStart.Format(dateLayout), weekEnd.Format(dateLayout))
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", "I1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "类型")
	f.SetCellValue(sheetName, cell("B", row), "时间")
	for d := conflict.Monday; d <= conflict.Sunday; d++ {
		day := weekStart.AddDate(0, 0, int(d-conflict.Monday))
		f.SetCellValue(sheetName, cell(colName(int(d)+1), row), fmt.Sprintf("%s %s", d, day.Format("01-02")))
	}
	f.SetCellStyle(sheetName, "A2", "I2", headerStyle)

	// 数据行
	row = 3
	for _, r := range rows {
		f.SetCellValue(sheetName, cell("A", row), r.kind)
		f.SetCellValue(sheetName, cell("B", row), fmt.Sprintf("%s-%s", r.start, r.end))
		for d := conflict.Monday; d <= conflict.Sunday; d++ {
			value := "-"
			if d == r.day {
				value = r.text
			}
			f.SetCellValue(sheetName, cell(colName(int(d)+1), row), value)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("教室占用_%s_%s.xlsx", room.Name, weekStart.Format(dateLayout))
	return buf, filename, nil
}

// ── 辅助函数 ──

// colName 0 起始的列序号转列名
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
