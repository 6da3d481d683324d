// Package keyring provides optional password storage in the system keyring.
// A config.yaml without a Password falls back to the value stored here
// for the configured Username.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"

	"github.com/yllada/lanparty-client/common"
)

// serviceName is the identifier used in the system keyring.
const serviceName = common.AppID

// Common errors returned by keyring operations.
var (
	ErrNotFound    = errors.New("credential not found")
	ErrUnavailable = errors.New("keyring service unavailable")
)

// Store saves a password for a user.
func Store(username, password string) error {
	if username == "" {
		return errors.New("username cannot be empty")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if err := keyring.Set(serviceName, username, password); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Get retrieves the password stored for a user.
func Get(username string) (string, error) {
	if username == "" {
		return "", errors.New("username cannot be empty")
	}

	password, err := keyring.Get(serviceName, username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", errors.Join(ErrUnavailable, err)
	}
	return password, nil
}

// Delete removes the password stored for a user.
func Delete(username string) error {
	if username == "" {
		return errors.New("username cannot be empty")
	}

	if err := keyring.Delete(serviceName, username); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// FillPassword sets password from the keyring when it is empty.
// It returns true when the keyring supplied the value.
func FillPassword(username string, password *string) (bool, error) {
	if *password != "" {
		return false, nil
	}

	stored, err := Get(username)
	if err != nil {
		return false, err
	}
	*password = stored
	return true, nil
}
