package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/model"
	"github.com/rushilbhatia3/FMS/internal/repository"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// maxImportErrors caps the error list in the response; failures past the cap
// are still counted.
const maxImportErrors = 50

// Columns are located by header name, so the import template and the item
// export format both parse; "quantity" is accepted as an alias for
// "initial_qty" to let exported files round-trip. Unknown columns are
// ignored.
var importColumns = []string{
	"sku", "name", "unit", "clearance_level",
	"system_code", "shelf_label", "initial_qty", "quantity", "tag", "note",
}

// ImportService loads catalog rows from CSV or XLSX uploads. Each row stands
// alone: a failed row is recorded and skipped, the batch never aborts, and a
// row's item + initial receive land atomically or not at all.
type ImportService interface {
	ImportCSV(ctx context.Context, actor Actor, r io.Reader) (*dto.ImportResponse, error)
	ImportXLSX(ctx context.Context, actor Actor, r io.Reader) (*dto.ImportResponse, error)
}

type importService struct {
	items     repository.ItemRepository
	systems   repository.SystemRepository
	shelves   repository.ShelfRepository
	movements repository.MovementRepository
}

func NewImportService(
	items repository.ItemRepository,
	systems repository.SystemRepository,
	shelves repository.ShelfRepository,
	movements repository.MovementRepository,
) ImportService {
	return &importService{items: items, systems: systems, shelves: shelves, movements: movements}
}

func (s *importService) ImportCSV(ctx context.Context, actor Actor, r io.Reader) (*dto.ImportResponse, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, invalid("file", "malformed csv: "+err.Error())
	}
	return s.importRecords(ctx, actor, records)
}

func (s *importService) ImportXLSX(ctx context.Context, actor Actor, r io.Reader) (*dto.ImportResponse, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, invalid("file", "malformed xlsx: "+err.Error())
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, invalid("file", "read xlsx: "+err.Error())
	}
	return s.importRecords(ctx, actor, records)
}

func (s *importService) importRecords(ctx context.Context, actor Actor, records [][]string) (*dto.ImportResponse, error) {
	resp := &dto.ImportResponse{Errors: []dto.RowError{}}
	if len(records) < 2 {
		return resp, nil
	}

	cols := indexColumns(records[0])
	if _, ok := cols["sku"]; !ok {
		return nil, invalid("file", "header row must contain a sku column")
	}

	for i, record := range records[1:] {
		rowNum := i + 2 // 1-based, after the header
		row, err := parseImportRow(cols, record)
		if err == nil {
			err = s.importRow(ctx, actor, row)
		}
		if err != nil {
			resp.Failed++
			if len(resp.Errors) < maxImportErrors {
				resp.Errors = append(resp.Errors, dto.RowError{Row: rowNum, Error: err.Error()})
			}
			continue
		}
		resp.Inserted++
	}
	return resp, nil
}

// indexColumns maps recognized header names to their position in the file.
func indexColumns(header []string) map[string]int {
	known := make(map[string]bool, len(importColumns))
	for _, c := range importColumns {
		known[c] = true
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "quantity" {
			name = "initial_qty"
		}
		if known[name] || name == "initial_qty" {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}
	return cols
}

func parseImportRow(cols map[string]int, record []string) (*dto.ImportRow, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	row := &dto.ImportRow{
		SKU:        get("sku"),
		Name:       get("name"),
		Unit:       get("unit"),
		SystemCode: get("system_code"),
		ShelfLabel: get("shelf_label"),
	}
	if row.SKU == "" {
		return nil, fmt.Errorf("sku is required")
	}
	if row.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if row.Unit == "" {
		row.Unit = "units"
	}
	if row.SystemCode == "" || row.ShelfLabel == "" {
		return nil, fmt.Errorf("system_code and shelf_label are required")
	}

	row.ClearanceLevel = 1
	if v := get("clearance_level"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 4 {
			return nil, fmt.Errorf("clearance_level must be 1..4")
		}
		row.ClearanceLevel = n
	}
	if v := get("initial_qty"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("initial_qty must be a non-negative integer")
		}
		row.InitialQty = n
	}
	if v := get("tag"); v != "" {
		row.Tag = &v
	}
	if v := get("note"); v != "" {
		row.Note = &v
	}
	return row, nil
}

func (s *importService) importRow(ctx context.Context, actor Actor, row *dto.ImportRow) error {
	if _, err := s.items.FindBySKU(ctx, row.SKU); err == nil {
		return fmt.Errorf("sku %q already exists", row.SKU)
	}

	sys, err := s.systems.FindByCode(ctx, row.SystemCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("unknown system %q", row.SystemCode)
		}
		return err
	}
	if sys.IsDeleted {
		return fmt.Errorf("system %q is archived", row.SystemCode)
	}
	shelf, err := s.shelves.FindByLabel(ctx, sys.ID, row.ShelfLabel)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("unknown shelf %q in system %q", row.ShelfLabel, row.SystemCode)
		}
		return err
	}
	if shelf.IsDeleted {
		return fmt.Errorf("shelf %q is archived", row.ShelfLabel)
	}

	item := &model.Item{
		SKU:            row.SKU,
		Name:           row.Name,
		Unit:           row.Unit,
		ClearanceLevel: row.ClearanceLevel,
		ShelfID:        shelf.ID,
		Tag:            row.Tag,
		Note:           row.Note,
		AddedBy:        actor.ID.String(),
	}

	// Item and its opening receive commit together; a failed receive must not
	// leave a phantom zero-quantity item behind.
	return s.items.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		if row.InitialQty == 0 {
			return nil
		}
		note := "import"
		m := &model.Movement{
			ItemID:  item.ID,
			Kind:    model.KindReceive,
			Qty:     row.InitialQty,
			ShelfID: shelf.ID,
			ActorID: actor.ID,
			Note:    &note,
		}
		return s.movements.AppendTx(tx, m)
	})
}
