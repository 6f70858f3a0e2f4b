package dashboard

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/tealeg/xlsx/v2"

	"github.com/mcordova/intake-dashboard-go/internal/models"
)

// Export file formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var exportHeader = []string{
	"Bucket", "State", "Cost", "Leads", "In Practice", "Unqualified",
	"Cases", "Retainers", "Pending Retainers", "Total Retainers",
	"Cost Per Lead", "CPA", "Cost Per Retainer", "Conversion Rate",
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export renders the bucketed dashboard for the requested window as a
// spreadsheet. Unknown formats fall back to CSV.
func (s *Service) Export(ctx context.Context, p Params, format string) (*ExportFile, error) {
	resp := s.DashboardData(ctx, p)

	switch format {
	case FormatXLSX:
		data, err := renderXLSX(resp.Buckets)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    exportFilename(resp.DateRange, "xlsx"),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		data, err := renderCSV(resp.Buckets)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    exportFilename(resp.DateRange, "csv"),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	}
}

func exportFilename(r DateRange, ext string) string {
	return fmt.Sprintf("dashboard_%s_%s.%s", r.Start, r.End, ext)
}

func exportRow(b *models.Bucket) []string {
	return []string{
		b.Name,
		b.State,
		strconv.FormatFloat(b.Cost, 'f', 2, 64),
		strconv.Itoa(b.Leads),
		strconv.Itoa(b.InPractice),
		strconv.Itoa(b.Unqualified),
		strconv.Itoa(b.Cases),
		strconv.Itoa(b.Retainers),
		strconv.Itoa(b.PendingRetainers),
		strconv.Itoa(b.TotalRetainers),
		strconv.FormatFloat(b.CostPerLead, 'f', 2, 64),
		strconv.FormatFloat(b.CPA, 'f', 2, 64),
		strconv.FormatFloat(b.CostPerRetainer, 'f', 2, 64),
		strconv.FormatFloat(b.ConversionRate, 'f', 3, 64),
	}
}

func renderCSV(bs []*models.Bucket) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, b := range bs {
		if err := w.Write(exportRow(b)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(bs []*models.Bucket) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Dashboard")
	if err != nil {
		return nil, err
	}

	hr := sheet.AddRow()
	for _, h := range exportHeader {
		hr.AddCell().SetString(h)
	}
	for _, b := range bs {
		row := sheet.AddRow()
		row.AddCell().SetString(b.Name)
		row.AddCell().SetString(b.State)
		row.AddCell().SetFloat(b.Cost)
		row.AddCell().SetInt(b.Leads)
		row.AddCell().SetInt(b.InPractice)
		row.AddCell().SetInt(b.Unqualified)
		row.AddCell().SetInt(b.Cases)
		row.AddCell().SetInt(b.Retainers)
		row.AddCell().SetInt(b.PendingRetainers)
		row.AddCell().SetInt(b.TotalRetainers)
		row.AddCell().SetFloat(b.CostPerLead)
		row.AddCell().SetFloat(b.CPA)
		row.AddCell().SetFloat(b.CostPerRetainer)
		row.AddCell().SetFloat(b.ConversionRate)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
