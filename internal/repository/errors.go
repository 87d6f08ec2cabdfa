// Package repository defines error types that are reused by the
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
package repository

import (
	"errors"
	"fmt"

	"github.com/iliyamo/wardrobe-designer/internal/template"
)

// ErrTemplateNotFound is returned when a template id has no row.  It wraps
// template.ErrNotFound so template.Chain can fall through to other sources.
var ErrTemplateNotFound = fmt.Errorf("%w in database", template.ErrNotFound)

// ErrInvalidPayload is returned when a template payload is not valid JSON.
// Handlers should translate this into an HTTP 400 response.
var ErrInvalidPayload = errors.New("template payload is not valid JSON")
