package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"printdesk/internal/constants"
	"printdesk/internal/storage"
)

type ReportStorage interface {
	GetProductionReport(ctx context.Context, filter storage.TicketFilter) ([]storage.ReportRow, error)
}

type Service struct {
	storage ReportStorage
}

func NewService(storage ReportStorage) *Service {
	return &Service{storage: storage}
}

// GenerateExcel builds the production report workbook: one row per ticket,
// one column per catalog workflow step.
func (s *Service) GenerateExcel(ctx context.Context, filter storage.TicketFilter) ([]byte, error) {
	rows, err := s.storage.GetProductionReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch report data: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Production"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	headers := []string{"Ticket", "Customer", "Job Type", "Status", "Total Qty"}
	for _, def := range constants.WorkflowStepCatalog {
		headers = append(headers, def.Label)
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, row := range rows {
		values := []any{row.TicketNumber, row.CustomerName, row.JobTypeName, row.Status, row.TotalQuantity}
		for _, def := range constants.WorkflowStepCatalog {
			if q, ok := row.StepQuantities[def.Key]; ok {
				values = append(values, q)
			} else {
				values = append(values, "")
			}
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
