package export

import (
	"fmt"
	"os"
	"time"
)

// SheetsConfig holds the configuration for the Google Sheets exporter.
type SheetsConfig struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultSheetsConfig returns a SheetsConfig with sensible defaults.
func DefaultSheetsConfig() SheetsConfig {
	return SheetsConfig{
		SpreadsheetName: "Shopping List",
		TimeZone:        "America/Sao_Paulo",
		RetryAttempts:   3,
		RetryDelay:      time.Second,
	}
}

// LoadFromEnv loads credentials from environment variables.
func (c *SheetsConfig) LoadFromEnv() error {
	c.ClientID = os.Getenv("LARDER_SHEETS_CLIENT_ID")
	c.ClientSecret = os.Getenv("LARDER_SHEETS_CLIENT_SECRET")
	c.RefreshToken = os.Getenv("LARDER_SHEETS_REFRESH_TOKEN")
	c.ServiceAccountPath = os.Getenv("LARDER_SHEETS_SERVICE_ACCOUNT_PATH")

	if id := os.Getenv("LARDER_SHEETS_SPREADSHEET_ID"); id != "" {
		c.SpreadsheetID = id
	}
	if name := os.Getenv("LARDER_SHEETS_SPREADSHEET_NAME"); name != "" {
		c.SpreadsheetName = name
	}

	if c.ServiceAccountPath == "" && (c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "") {
		return fmt.Errorf("missing Google Sheets authentication: provide either a service account path or OAuth2 credentials")
	}

	return nil
}

// Validate checks if the configuration is usable.
func (c *SheetsConfig) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("no authentication method configured")
	}

	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("multiple authentication methods configured; use either OAuth2 or a service account")
	}

	if c.SpreadsheetName == "" {
		return fmt.Errorf("spreadsheet name cannot be empty")
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}

	return nil
}
