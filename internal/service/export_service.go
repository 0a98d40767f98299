package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rushilbhatia3/FMS/internal/model"
	"github.com/rushilbhatia3/FMS/internal/repository"

	"github.com/xuri/excelize/v2"
)

// itemExportHeaders is the stable column order for catalog exports. Import
// resolves columns by header name and treats quantity as initial_qty, so
// exported files round-trip into an empty store.
var itemExportHeaders = []string{
	"id", "sku", "name", "unit", "clearance_level", "quantity",
	"system_code", "shelf_label", "is_deleted",
	"created_at", "updated_at", "tag", "note", "holders",
}

var movementExportHeaders = []string{
	"id", "timestamp", "kind", "qty", "item_sku", "item_name",
	"shelf_label", "holder", "due_at", "actor_id", "note", "xfer_key",
}

type ExportService interface {
	ItemsCSV(ctx context.Context) ([]byte, string, error)
	ItemsXLSX(ctx context.Context) (*excelize.File, string, error)
	MovementsCSV(ctx context.Context) ([]byte, string, error)
}

type exportService struct {
	items     repository.ItemRepository
	movements repository.MovementRepository
}

func NewExportService(items repository.ItemRepository, movements repository.MovementRepository) ExportService {
	return &exportService{items: items, movements: movements}
}

func (s *exportService) ItemsCSV(ctx context.Context) ([]byte, string, error) {
	rows, err := s.itemRows(ctx)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(itemExportHeaders); err != nil {
		return nil, "", err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), exportFilename("items", "csv"), nil
}

func (s *exportService) ItemsXLSX(ctx context.Context) (*excelize.File, string, error) {
	rows, err := s.itemRows(ctx)
	if err != nil {
		return nil, "", err
	}
	f, err := xlsxFromRows("Items", itemExportHeaders, rows)
	if err != nil {
		return nil, "", err
	}
	return f, exportFilename("items", "xlsx"), nil
}

func (s *exportService) MovementsCSV(ctx context.Context) ([]byte, string, error) {
	movs, err := s.movements.ListAll(ctx)
	if err != nil {
		return nil, "", Storage("export movements", err)
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(movementExportHeaders); err != nil {
		return nil, "", err
	}
	for i := range movs {
		if err := w.Write(movementRow(&movs[i])); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), exportFilename("movements", "csv"), nil
}

func (s *exportService) itemRows(ctx context.Context) ([][]string, error) {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		return nil, Storage("export items", err)
	}
	nets, err := s.movements.OutstandingByHolder(ctx, nil, "", nil)
	if err != nil {
		return nil, Storage("export holders", err)
	}
	holders := make(map[string][]string)
	for _, n := range nets {
		key := n.ItemID.String()
		holders[key] = append(holders[key], fmt.Sprintf("%s:%d", n.Holder, -n.Net))
	}

	rows := make([][]string, len(items))
	for i := range items {
		item := &items[i]
		var shelfLabel, systemCode string
		if item.Shelf != nil {
			shelfLabel = item.Shelf.Label
			if item.Shelf.System != nil {
				systemCode = item.Shelf.System.Code
			}
		}
		rows[i] = []string{
			item.ID.String(),
			item.SKU,
			item.Name,
			item.Unit,
			strconv.Itoa(item.ClearanceLevel),
			strconv.Itoa(item.Quantity),
			systemCode,
			shelfLabel,
			strconv.FormatBool(item.IsDeleted),
			item.CreatedAt.UTC().Format(time.RFC3339),
			item.UpdatedAt.UTC().Format(time.RFC3339),
			deref(item.Tag),
			deref(item.Note),
			strings.Join(holders[item.ID.String()], "; "),
		}
	}
	return rows, nil
}

func movementRow(m *model.Movement) []string {
	var itemSKU, itemName, shelfLabel string
	if m.Item != nil {
		itemSKU = m.Item.SKU
		itemName = m.Item.Name
	}
	if m.Shelf != nil {
		shelfLabel = m.Shelf.Label
	}
	var dueAt, xferKey string
	if m.DueAt != nil {
		dueAt = m.DueAt.UTC().Format(time.RFC3339)
	}
	if m.XferKey != nil {
		xferKey = m.XferKey.String()
	}
	return []string{
		strconv.FormatInt(m.ID, 10),
		m.Timestamp.UTC().Format(time.RFC3339),
		m.Kind,
		strconv.Itoa(m.Qty),
		itemSKU,
		itemName,
		shelfLabel,
		deref(m.Holder),
		dueAt,
		m.ActorID.String(),
		deref(m.Note),
		xferKey,
	}
}

func xlsxFromRows(sheet string, headers []string, rows [][]string) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}
	for rowIdx, row := range rows {
		for colIdx, v := range row {
			col, _ := excelize.ColumnNumberToName(colIdx + 1)
			cell := fmt.Sprintf("%s%d", col, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func exportFilename(what, ext string) string {
	return fmt.Sprintf("%s_%s.%s", what, time.Now().UTC().Format("20060102_150405"), ext)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
