package models

// DailyReport is the rendered daily summary returned to the caller.
// Delivery of the document is the invoking environment's concern.
type DailyReport struct {
	ReportDate  string `json:"report_date"`
	GeneratedAt string `json:"generated_at"`
	HTML        string `json:"html"`
}
