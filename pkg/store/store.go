package store

import (
	"errors"

	"github.com/Promptonauts/pipeforge/pkg/models"
)

// ErrNotFound is returned when a conversion id is unknown.
var ErrNotFound = errors.New("conversion not found")

type Store interface {
	CreateConversion(rec *models.ConversionRecord) error
	GetConversion(id string) (*models.ConversionRecord, error)
	ListConversions(source string, limit int) ([]*models.ConversionRecord, error)

	Migrate() error
	Close() error
}
