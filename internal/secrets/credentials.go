package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// "Service" groups this app's secrets in the OS keychain.
	KeyringService = "careersync"

	keyringAccount = "google-credentials"
)

// GoogleCredentials returns the service-account JSON: the environment
// variable first, then the OS keychain for local runs.
func GoogleCredentials() ([]byte, error) {
	if v := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS")); v != "" {
		return []byte(v), nil
	}
	if v, err := keyring.Get(KeyringService, keyringAccount); err == nil && strings.TrimSpace(v) != "" {
		return []byte(v), nil
	}
	return nil, errors.New("GOOGLE_CREDENTIALS not found (set the env var or store it in the keychain)")
}

func SetGoogleCredentials(credentialsJSON string) error {
	if strings.TrimSpace(credentialsJSON) == "" {
		return errors.New("credentials JSON is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, credentialsJSON)
}

func DeleteGoogleCredentials() error {
	return keyring.Delete(KeyringService, keyringAccount)
}
