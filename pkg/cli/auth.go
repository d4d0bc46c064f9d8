package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path"

	urfave "github.com/urfave/cli/v2"
	"github.com/zalando/go-keyring"

	"github.com/pm10meta/auditctl/pkg/auth"
)

const (
	clientID       = "b3e91a0cc47f2d85e6a1"
	tokenFileName  = "github_token"
	keyringService = "auditctl"
	keyringUser    = "github_token"
)

var (
	authCmd = &urfave.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Authenticate to GitHub to obtain an access token for publishing",
		Action:          cmdInitAuthFlow,
	}
)

func cmdInitAuthFlow(c *urfave.Context) error {
	code, err := auth.GetDeviceCode(c.Context, clientID)
	if err != nil {
		return fmt.Errorf("getting device code: %w", err)
	}

	fmt.Printf("1). Copy this code: %s\n", code.UserCode)
	fmt.Printf("2). Navigate to this URL in your browser to authenticate: %s\n", code.VerificationURL)
	fmt.Print("3). Hit enter to complete the process:\n")
	fmt.Print(">")

	if _, err = fmt.Scanln(); err != nil {
		return fmt.Errorf("reading user input: %w", err)
	}

	token, err := auth.GetToken(c.Context, clientID, code)
	if err != nil {
		return fmt.Errorf("getting token: %w", err)
	}

	if err = saveGitHubToken(getConfig(c).HomeDir, token.AccessToken); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fmt.Println("Token saved to OS keychain")
	return nil
}

func saveGitHubToken(homeDir, token string) error {
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return saveGitHubTokenFile(homeDir, token)
	}

	// Clean up legacy file if it exists
	os.Remove(path.Join(homeDir, tokenFileName))

	return nil
}

func getGitHubToken(homeDir string) (string, error) {
	// Try keychain first
	token, err := keyring.Get(keyringService, keyringUser)
	if err == nil && token != "" {
		return token, nil
	}

	// Fall back to file
	token, err = getGitHubTokenFile(homeDir)
	if err != nil {
		return "", err
	}

	// Migrate to keychain
	if migrateErr := keyring.Set(keyringService, keyringUser, token); migrateErr == nil {
		slog.Info("migrated token from file to OS keychain")
		os.Remove(path.Join(homeDir, tokenFileName))
	}

	return token, nil
}

func saveGitHubTokenFile(homeDir, token string) error {
	return os.WriteFile(path.Join(homeDir, tokenFileName), []byte(token), 0600)
}

func getGitHubTokenFile(homeDir string) (string, error) {
	tokenPath := path.Join(homeDir, tokenFileName)
	b, err := os.ReadFile(tokenPath)
	if err != nil {
		return "", fmt.Errorf("reading token file %s: %w", tokenPath, err)
	}
	return string(b), nil
}
