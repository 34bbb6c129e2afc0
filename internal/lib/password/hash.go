// Package password реализует хеширование и проверку паролей.
//
// Новые пароли хранятся как bcrypt. Пароли пользователей, перенесённых из
// старой системы, хранятся как SHA-256 в верхнем hex-регистре и принимаются
// до первого успешного входа, после чего хеш заменяется на bcrypt.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch возвращается, если пароль не совпадает с хешем.
var ErrMismatch = errors.New("password mismatch")

// GetHash возвращает bcrypt-хеш пароля.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает сохранённый хеш с введённым паролем.
//
// Возвращает nil при совпадении, иначе ошибку, оборачивающую ErrMismatch.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if IsLegacy(originalHash) {
		if subtle.ConstantTimeCompare([]byte(LegacyHash(externalPassword)), []byte(strings.ToUpper(originalHash))) != 1 {
			return fmt.Errorf("%s: %w", op, ErrMismatch)
		}
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMismatch, err)
	}
	return nil
}

// IsLegacy сообщает, что хеш записан в старом формате SHA-256 hex.
func IsLegacy(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// LegacyHash вычисляет хеш старого формата: SHA-256 в верхнем hex-регистре.
func LegacyHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
