package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecasanas/contratos-service/internal/model"
)

type ExcelGenerator interface {
	Generate(report model.AssignmentReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.AssignmentReport) ([]byte, error)
}

// ReportService builds the exportable assignment snapshot of a contract and
// hands it to a generator. Exports are restricted to administrators and
// supervisors, and a supervisor still needs view rights on the contract.
type ReportService struct {
	contracts  ContractRepository
	zones      ZoneAssignmentRepository
	properties PropertyAssignmentRepository
	resolver   *Resolver
	excel      ExcelGenerator
	pdf        PDFGenerator
	log        zerolog.Logger
}

func NewReportService(
	contracts ContractRepository,
	zones ZoneAssignmentRepository,
	properties PropertyAssignmentRepository,
	resolver *Resolver,
	excel ExcelGenerator,
	pdf PDFGenerator,
	log zerolog.Logger,
) *ReportService {
	return &ReportService{
		contracts:  contracts,
		zones:      zones,
		properties: properties,
		resolver:   resolver,
		excel:      excel,
		pdf:        pdf,
		log:        log,
	}
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func (s *ReportService) ExportAssignments(ctx context.Context, actor model.Actor, contractUUID uuid.UUID) (*ExportResult, error) {
	report, err := s.buildReport(ctx, actor, contractUUID)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildExportFileName(report.Contract.Code, "xlsx"),
		Content:  content,
	}, nil
}

func (s *ReportService) ExportSummaryPDF(ctx context.Context, actor model.Actor, contractUUID uuid.UUID) (*ExportResult, error) {
	report, err := s.buildReport(ctx, actor, contractUUID)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildExportFileName(report.Contract.Code, "pdf"),
		Content:  content,
	}, nil
}

func (s *ReportService) buildReport(ctx context.Context, actor model.Actor, contractUUID uuid.UUID) (*model.AssignmentReport, error) {
	if !canExport(actor) {
		return nil, ErrPermissionDenied
	}
	contract, err := s.contracts.GetByUUID(ctx, contractUUID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.resolver.CanView(ctx, actor, *contract)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	zones, err := s.zones.ListByContract(ctx, contractUUID)
	if err != nil {
		return nil, err
	}
	properties, err := s.properties.ListByContract(ctx, contractUUID)
	if err != nil {
		return nil, err
	}

	report := &model.AssignmentReport{
		Contract:   *contract,
		Zones:      zones,
		Properties: properties,
		Stats:      summarize(zones, properties),
	}
	s.log.Info().Str("contract", contract.Code).Msg("assignment report built")
	return report, nil
}

func summarize(zones []model.ZoneAssignment, properties []model.PropertyAssignment) model.ContractStats {
	stats := model.ContractStats{}
	for _, row := range zones {
		if row.Live() {
			stats.TotalZones++
		}
	}
	for _, row := range properties {
		switch row.State {
		case model.PropertyAssignmentPending:
			stats.PropertiesPending++
		case model.PropertyAssignmentAssigned:
			stats.PropertiesAssigned++
		case model.PropertyAssignmentCompleted:
			stats.PropertiesCompleted++
		default:
			continue
		}
		stats.TotalProperties++
	}
	if stats.TotalProperties > 0 {
		stats.PercentAssigned = float64(stats.PropertiesAssigned) * 100 / float64(stats.TotalProperties)
		stats.PercentCompleted = float64(stats.PropertiesCompleted) * 100 / float64(stats.TotalProperties)
	}
	return stats
}

func buildExportFileName(contractCode, extension string) string {
	code := sanitizeFileName(contractCode)
	if code == "" {
		code = "contract"
	}
	return fmt.Sprintf("assignments-%s.%s", code, extension)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
