// Package export produces the admin spreadsheet download of the property
// table, reusing the same filter composition as the public catalog.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vistahogar/listings/internal/domain"
	"github.com/vistahogar/listings/internal/repository"
)

const sheetName = "Propiedades"

var columnHeaders = []string{
	"ID", "Título", "Tipo", "Distrito", "Ubicación",
	"Precio (PEN)", "Precio (USD)", "Dormitorios", "Baños", "Área (m²)",
	"Destacada", "Estado", "Creada",
}

// Service streams filtered listings into a workbook.
type Service struct {
	properties repository.PropertyRepository
	pageSize   int
}

// Option customizes a Service.
type Option func(*Service)

// WithPageSize overrides the per-round-trip batch size.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewService creates an export service over the property repository.
func NewService(properties repository.PropertyRepository, opts ...Option) *Service {
	service := &Service{properties: properties, pageSize: 500}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// WriteXLSX composes the filter the same way the catalog does, pages
// through the table and writes a single-sheet workbook to w.
func (s *Service) WriteXLSX(ctx context.Context, req domain.FilterRequest, w io.Writer) error {
	// Export paginates internally; caller-supplied paging is ignored.
	req.Limit = ""
	req.Offset = ""
	query, err := req.Normalize()
	if err != nil {
		return err
	}

	workbook := excelize.NewFile()
	defer workbook.Close()
	if err := workbook.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name export sheet: %w", err)
	}

	for col, header := range columnHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("resolve header cell: %w", err)
		}
		if err := workbook.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	offset := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		page := query
		page.Limit = s.pageSize
		pageOffset := offset
		page.Offset = &pageOffset

		properties, err := s.properties.List(ctx, page)
		if err != nil {
			return fmt.Errorf("list properties for export: %w", err)
		}
		if len(properties) == 0 {
			break
		}

		for _, property := range properties {
			if err := writePropertyRow(workbook, row, property); err != nil {
				return err
			}
			row++
		}

		if len(properties) < s.pageSize {
			break
		}
		offset += s.pageSize
	}

	if err := workbook.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writePropertyRow(workbook *excelize.File, row int, property domain.Property) error {
	values := []any{
		property.ID, property.Title, property.PropertyType, property.District, property.Location,
		property.Price, property.PriceUSD, property.Bedrooms, property.Bathrooms, property.Area,
		property.Featured, string(property.Status), property.CreatedAt.Format("2006-01-02 15:04"),
	}
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("resolve cell: %w", err)
		}
		if err := workbook.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("write property %d: %w", property.ID, err)
		}
	}
	return nil
}
