package config

import (
	"fmt"
	"os/exec"
	"strings"
)

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	}

	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}

	return nil
}

// ValidateBinary checks that a tool can be resolved on PATH or at the given path
func ValidateBinary(path string, name string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%s binary path is required", name)
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", fmt.Errorf("%s binary %q not found: %w", name, path, err)
	}
	return resolved, nil
}
