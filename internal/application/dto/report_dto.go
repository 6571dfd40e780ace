package dto

// ReportRequest query params de GET /api/reports/*.
type ReportRequest struct {
	Format   string `query:"format"`   // pdf | xlsx | csv
	Encoding string `query:"encoding"` // utf-8 (default) | latin1, solo csv
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
}
