package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ecasanas/contratos-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.AssignmentReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Resumen"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	zonesSheet := "Zonas"
	file.NewSheet(zonesSheet)
	if err := g.writeZones(file, zonesSheet, report); err != nil {
		return nil, err
	}

	propertiesSheet := "Predios"
	file.NewSheet(propertiesSheet)
	if err := g.writeProperties(file, propertiesSheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.AssignmentReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Contrato")
	set("B1", report.Contract.Code)
	set("A2", "Objeto")
	set("B2", report.Contract.Objective)
	set("A3", "Estado")
	set("B3", string(report.Contract.State))
	set("A4", "Fecha inicio")
	set("B4", formatDate(report.Contract.StartDate))
	set("A5", "Fecha fin")
	set("B5", formatDate(report.Contract.EndDate))
	set("A6", "Supervisor")
	set("B6", supervisorName(report.Contract))

	tableRow := 8
	set(fmt.Sprintf("A%d", tableRow), "Zonas")
	set(fmt.Sprintf("B%d", tableRow), report.Stats.TotalZones)
	set(fmt.Sprintf("A%d", tableRow+1), "Predios")
	set(fmt.Sprintf("B%d", tableRow+1), report.Stats.TotalProperties)
	set(fmt.Sprintf("A%d", tableRow+2), "Predios pendientes")
	set(fmt.Sprintf("B%d", tableRow+2), report.Stats.PropertiesPending)
	set(fmt.Sprintf("A%d", tableRow+3), "Predios asignados")
	set(fmt.Sprintf("B%d", tableRow+3), report.Stats.PropertiesAssigned)
	set(fmt.Sprintf("A%d", tableRow+4), "Predios completados")
	set(fmt.Sprintf("B%d", tableRow+4), report.Stats.PropertiesCompleted)
	set(fmt.Sprintf("A%d", tableRow+5), "% asignado")
	set(fmt.Sprintf("B%d", tableRow+5), fmt.Sprintf("%.1f", report.Stats.PercentAssigned))
	set(fmt.Sprintf("A%d", tableRow+6), "% completado")
	set(fmt.Sprintf("B%d", tableRow+6), fmt.Sprintf("%.1f", report.Stats.PercentCompleted))

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	return nil
}

func (g *Generator) writeZones(file *excelize.File, sheet string, report model.AssignmentReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Código zona",
		"Nombre zona",
		"Plan tarifario",
		"Coordinador de zona",
		"Coordinador operativo",
		"Estado",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, zone := range report.Zones {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), zone.ZoneCode)
		set(fmt.Sprintf("B%d", row), zone.ZoneName)
		set(fmt.Sprintf("C%d", row), zone.PlanName)
		set(fmt.Sprintf("D%d", row), zone.ZoneCoordinatorName)
		set(fmt.Sprintf("E%d", row), zone.OperationalCoordinatorName)
		set(fmt.Sprintf("F%d", row), string(zone.State))
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "C", 30)
	_ = file.SetColWidth(sheet, "D", "E", 30)
	_ = file.SetColWidth(sheet, "F", "F", 14)
	return nil
}

func (g *Generator) writeProperties(file *excelize.File, sheet string, report model.AssignmentReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Código predio",
		"Dirección",
		"Operario",
		"Estado",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, property := range report.Properties {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), property.PropertyCode)
		set(fmt.Sprintf("B%d", row), property.PropertyAddress)
		set(fmt.Sprintf("C%d", row), property.OperarioName)
		set(fmt.Sprintf("D%d", row), string(property.State))
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 45)
	_ = file.SetColWidth(sheet, "C", "C", 30)
	_ = file.SetColWidth(sheet, "D", "D", 14)
	return nil
}

func supervisorName(contract model.Contract) string {
	if contract.Supervisor == nil {
		return ""
	}
	return contract.Supervisor.FullName()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
