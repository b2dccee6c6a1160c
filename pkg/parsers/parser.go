// Package parsers turns vendor pipeline documents into the neutral models.Pipeline.
package parsers

import "github.com/Promptonauts/pipeforge/pkg/models"

// Parser converts one vendor's decoded document tree into a Pipeline.
type Parser interface {
	// Slug is the identifier the parser is registered under.
	Slug() string
	Description() string
	// Parse builds a Pipeline from raw. A non-empty nameOverride replaces
	// whatever name the document declares.
	Parse(raw any, nameOverride string) (*models.Pipeline, error)
}
