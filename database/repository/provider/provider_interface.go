package providerRepo

import "slotline/models"

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID. Returns (nil, nil) when
	// the ID is unknown.
	GetByID(id string) (*models.Provider, error)
	// GetAll retrieves all providers.
	GetAll() ([]models.Provider, error)
	// FindByName retrieves the first provider whose name contains the given
	// fragment, case-insensitively. Returns (nil, nil) when nothing matches.
	FindByName(fragment string) (*models.Provider, error)
	// Create inserts a new provider record.
	Create(provider *models.Provider) error
}
