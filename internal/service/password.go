package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// PasswordHasher abstrae el hash adaptativo de contraseñas.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) (bool, error)
}

// BcryptHasher implementa PasswordHasher con bcrypt (sal aleatoria por llamada).
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = DefaultBcryptCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify devuelve false sin error ante una contraseña incorrecta; solo un hash
// malformado produce error.
func (h *BcryptHasher) Verify(plain, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
