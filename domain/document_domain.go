package domain

import (
	"errors"
)

var (
	MessageFailedGeneratePDF = "failed to generate PDF"

	ErrRenderFailed = errors.New("failed to assemble document")
)
