package database

import (
	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// ServiceRepository reads the ancillary service catalog. The catalog is
// managed outside the core; only lookups live here.
type ServiceRepository struct {
	db *sqlx.DB
}

// NewServiceRepository creates a new ServiceRepository
func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// GetByID retrieves a catalog service by ID
func (r *ServiceRepository) GetByID(id uuid.UUID) (*models.Service, error) {
	svc := &models.Service{}
	err := r.db.Get(svc, `
		SELECT id, name, category, description, base_price, active, created_at, updated_at
		FROM services WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// ListActive retrieves all active catalog services ordered by category
// and name.
func (r *ServiceRepository) ListActive() ([]models.Service, error) {
	services := []models.Service{}
	err := r.db.Select(&services, `
		SELECT id, name, category, description, base_price, active, created_at, updated_at
		FROM services
		WHERE active = TRUE
		ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	return services, nil
}
