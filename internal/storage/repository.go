// ABOUTME: Repository interface for health event storage.
// ABOUTME: Defines the contract shared by the SQLite and Charm backends.
package storage

import (
	"time"

	"github.com/harperreed/healthmon/internal/models"
)

// Repository defines the storage interface for health data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Event log operations (append-only)
	CreateEvent(e *models.Event) error
	GetEvent(idOrPrefix string) (*models.Event, error)
	ListEvents(f models.EventFilter) ([]*models.Event, error)
	SummarizeDay(day time.Time) (map[models.Tag][]*models.Event, error)
	JoinBiometrics(from, to time.Time) ([]*models.EventBiometrics, error)

	// Biometric table access
	GetDay(day time.Time) (*models.BiometricDay, error)
	UpsertDay(b *models.BiometricDay) error
	ListDays(from, to time.Time) ([]*models.BiometricDay, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
