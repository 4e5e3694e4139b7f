package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

// Credentials identify the agent to the API.
type Credentials struct {
	APIKey    string `json:"api_key"`
	AgentName string `json:"agent_name"`
}

// CredentialsPath returns the location of credentials.json.
func CredentialsPath() (string, error) {
	return pathIn(credentialsFile)
}

// LoadCredentials reads credentials.json. Comments and trailing commas are
// tolerated. A missing file yields an error wrapping domain.ErrNotConfigured.
func LoadCredentials() (Credentials, error) {
	path, err := CredentialsPath()
	if err != nil {
		return Credentials{}, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, notConfigured(path)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read config: %w", err)
	}
	var c Credentials
	if err := json5.Unmarshal(raw, &c); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse config: %w", err)
	}
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.AgentName = strings.TrimSpace(c.AgentName)
	if c.APIKey == "" || c.AgentName == "" {
		return Credentials{}, errors.New("credentials file is missing api_key or agent_name")
	}
	return c, nil
}

// SaveCredentials writes credentials.json with owner-only permissions and
// returns its path.
func SaveCredentials(c Credentials) (string, error) {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.AgentName = strings.TrimSpace(c.AgentName)
	if c.APIKey == "" || c.AgentName == "" {
		return "", errors.New("api_key and agent_name are required")
	}
	path, err := CredentialsPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	b, err := json5.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	return path, nil
}
