package repository

import "github.com/puntoventa/kardex-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) (int64, error)
	GetByID(id int64) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
