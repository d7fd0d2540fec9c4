package repository

import "gorm.io/gorm"

// Repository aggregate of every repository
type Repository struct {
	KV KVRepository
}

// NewRepository creates the Repository aggregate
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		KV: NewKVRepo(db),
	}
}
