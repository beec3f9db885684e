package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/flowday/flowday/internal/constants"
)

var (
	// ErrNotFound is returned when no token is found in the keyring
	ErrNotFound = errors.New("access token not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Source says where a token came from
type Source string

const (
	SourceNone    Source = "none"
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
)

// GetToken retrieves the bearer token issued by the identity provider.
// Returns ErrNotFound if no token is stored.
func GetToken() (string, error) {
	token, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

// SetToken stores the bearer token in the OS keyring.
func SetToken(token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the bearer token from the OS keyring.
func DeleteToken() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}

// Resolve returns the token to use, preferring FLOWDAY_TOKEN over the keyring.
func Resolve() (string, Source, error) {
	if token := strings.TrimSpace(os.Getenv(constants.TokenEnvVar)); token != "" {
		return token, SourceEnv, nil
	}
	token, err := GetToken()
	if err != nil {
		return "", SourceNone, err
	}
	return token, SourceKeyring, nil
}

// TokenSource adapts Resolve to the API client's token interface.
type TokenSource struct{}

func (TokenSource) Token() (string, error) {
	token, _, err := Resolve()
	return token, err
}
