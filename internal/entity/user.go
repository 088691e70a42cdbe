package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleAgent   Role = "AGENT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleAgent:
		return true
	}
	return false
}

// Entidade: User (o principal autenticado)
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // hash bcrypt, nunca sai no JSON
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Factory
func NewUser(name, email, passwordHash string, role Role) (*User, error) {
	if role == "" {
		role = RoleAgent
	}

	user := &User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *User) Validate() error {
	if u.Name == "" {
		return errors.New("name is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Password == "" {
		return errors.New("password is required")
	}
	if !u.Role.Valid() {
		return errors.New("role must be ADMIN, MANAGER or AGENT")
	}
	return nil
}

// PublicRef é a projeção enxuta usada quando um User aparece
// aninhado em outro recurso (lead, interação, dashboard).
type PublicRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (u *User) Ref() PublicRef {
	return PublicRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
