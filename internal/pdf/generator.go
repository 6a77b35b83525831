package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ecasanas/contratos-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.AssignmentReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Core fonts plus the cp1252 translator cover the accented labels.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr("Resumen de asignaciones del contrato"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Contrato %s (%s a %s)", report.Contract.Code,
		formatDate(report.Contract.StartDate), formatDate(report.Contract.EndDate))), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Estado: %s", report.Contract.State)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Objeto"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(report.Contract.Objective), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Supervisor"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(supervisorLine(report.Contract)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Zonas"), "", 1, "L", false, 0, "")

	zoneHeaders := []string{"Zona", "Plan", "Coordinadores", "Estado"}
	zoneWidths := []float64{45, 40, 70, 25}
	drawTableRow(pdf, tr, zoneHeaders, zoneWidths, true)
	for _, zone := range report.Zones {
		row := []string{
			zone.ZoneName,
			zone.PlanName,
			coordinatorLine(zone),
			string(zone.State),
		}
		drawTableRow(pdf, tr, row, zoneWidths, false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Predios"), "", 1, "L", false, 0, "")

	propertyHeaders := []string{"Predio", "Dirección", "Operario", "Estado"}
	propertyWidths := []float64{35, 70, 50, 25}
	drawTableRow(pdf, tr, propertyHeaders, propertyWidths, true)
	for _, property := range report.Properties {
		row := []string{
			property.PropertyCode,
			property.PropertyAddress,
			property.OperarioName,
			string(property.State),
		}
		drawTableRow(pdf, tr, row, propertyWidths, false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Predios asignados: %d de %d (%.1f%%)",
		report.Stats.PropertiesAssigned, report.Stats.TotalProperties, report.Stats.PercentAssigned)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Predios completados: %d de %d (%.1f%%)",
		report.Stats.PropertiesCompleted, report.Stats.TotalProperties, report.Stats.PercentCompleted)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	for i, col := range cols {
		pdf.CellFormat(widths[i], 7, tr(col), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func supervisorLine(contract model.Contract) string {
	if contract.Supervisor == nil {
		return "Sin asignar"
	}
	return contract.Supervisor.FullName()
}

func coordinatorLine(zone model.ZoneAssignment) string {
	names := make([]string, 0, 2)
	if strings.TrimSpace(zone.ZoneCoordinatorName) != "" {
		names = append(names, zone.ZoneCoordinatorName)
	}
	if strings.TrimSpace(zone.OperationalCoordinatorName) != "" {
		names = append(names, zone.OperationalCoordinatorName)
	}
	if len(names) == 0 {
		return "Sin asignar"
	}
	return strings.Join(names, " / ")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
