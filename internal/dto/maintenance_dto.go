package dto

// RowError pins an import failure to its spreadsheet row (1-based, row 1 is
// the header).
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResponse summarises a catalog import. Failed rows never abort the
// batch; errors are capped to keep the payload readable.
type ImportResponse struct {
	Inserted int        `json:"inserted"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

// ImportRow is one parsed catalog row, shared by the CSV and XLSX readers.
type ImportRow struct {
	SKU            string
	Name           string
	Unit           string
	ClearanceLevel int
	SystemCode     string
	ShelfLabel     string
	InitialQty     int
	Tag            *string
	Note           *string
}
