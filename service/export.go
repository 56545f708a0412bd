package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"expensehub/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportService 账本消费导出
type ExportService struct {
	db *gorm.DB
}

// NewExportService 创建导出服务
func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// exportRow 导出行，附带付款人邮箱
type exportRow struct {
	models.Expense
	PaidByEmail string
}

var exportHeaders = []string{"ID", "日期", "描述", "金额", "币种", "支付方式", "付款人", "分摊方式", "分摊对象"}

// load 校验访问权限并读取账本消费
func (s *ExportService) load(ctx context.Context, userID, itemID string) (*models.Item, []exportRow, error) {
	db := s.db.WithContext(ctx)
	item, _, err := requireMember(db, itemID, userID)
	if err != nil {
		return nil, nil, err
	}

	var rows []exportRow
	if err := db.Model(&models.Expense{}).
		Select("expenses.*, users.email AS paid_by_email").
		Joins("LEFT JOIN users ON users.id = expenses.paid_by").
		Where("expenses.item_id = ?", itemID).
		Order("expenses.date DESC").
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	return item, rows, nil
}

func (r exportRow) splitTarget() string {
	switch r.SplitType {
	case models.SplitTypeAssigned:
		if r.AssignedTo != nil {
			return *r.AssignedTo
		}
	case models.SplitTypeSelected:
		return strings.Join(r.SelectedParticipants, ",")
	}
	return ""
}

func (r exportRow) payer() string {
	if r.PaidByEmail != "" {
		return r.PaidByEmail
	}
	return r.PaidBy
}

// totalsByCurrency 按币种合计，币种按字母排序
func totalsByCurrency(rows []exportRow) ([]string, map[string]decimal.Decimal) {
	totals := map[string]decimal.Decimal{}
	for _, r := range rows {
		totals[r.Currency] = totals[r.Currency].Add(decimal.NewFromFloat(r.Amount))
	}
	currencies := make([]string, 0, len(totals))
	for cur := range totals {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)
	return currencies, totals
}

// ExportCSV 导出为带 BOM 的 CSV，返回文件名和内容
func (s *ExportService) ExportCSV(ctx context.Context, userID, itemID string) (string, []byte, error) {
	item, rows, err := s.load(ctx, userID, itemID)
	if err != nil {
		return "", nil, err
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 正确识别 UTF-8
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)

	if err := writer.Write(exportHeaders); err != nil {
		return "", nil, err
	}
	for _, r := range rows {
		record := []string{
			r.ID,
			r.Date.Format("2006-01-02 15:04:05"),
			r.Description,
			fmt.Sprintf("%.2f", r.Amount),
			r.Currency,
			r.PaymentMethod,
			r.payer(),
			r.SplitType,
			r.splitTarget(),
		}
		if err := writer.Write(record); err != nil {
			return "", nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", nil, err
	}
	return exportFilename(item, "csv"), buf.Bytes(), nil
}

// ExportXLSX 导出为 Excel，末尾按币种追加合计行
func (s *ExportService) ExportXLSX(ctx context.Context, userID, itemID string, w io.Writer) (string, error) {
	item, rows, err := s.load(ctx, userID, itemID)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "消费记录"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})

	widths := []float64{38, 20, 30, 12, 10, 10, 28, 12, 40}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, width)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, r := range rows {
		row := i + 2
		values := []interface{}{
			r.ID,
			r.Date.Format("2006-01-02 15:04:05"),
			r.Description,
			r.Amount,
			r.Currency,
			r.PaymentMethod,
			r.payer(),
			r.SplitType,
			r.splitTarget(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), dataStyle)
	}

	// 按币种添加汇总行
	currencies, totals := totalsByCurrency(rows)
	for i, cur := range currencies {
		row := len(rows) + 2 + i
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "合计")
		f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), totals[cur].Round(2).InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), cur)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), fmt.Sprintf("共 %d 条记录", len(rows)))
		f.MergeCell(sheetName, fmt.Sprintf("F%d", row), fmt.Sprintf("I%d", row))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), summaryStyle)
	}

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return exportFilename(item, "xlsx"), nil
}

func exportFilename(item *models.Item, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ' ':
			return '_'
		}
		return r
	}, item.Name)
	return fmt.Sprintf("expenses_%s.%s", name, ext)
}
