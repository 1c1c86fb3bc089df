package models

// MIME types of the spreadsheets the pipeline understands.
const (
	MimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeXLS         = "application/vnd.ms-excel"
	MimeGoogleSheet = "application/vnd.google-apps.spreadsheet"
)
