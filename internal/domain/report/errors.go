package report

import "errors"

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrInvalidReportType = errors.New("invalid report type")
	ErrNoFile            = errors.New("no file uploaded")
	ErrFileTooLarge      = errors.New("file exceeds the maximum allowed size")
)
