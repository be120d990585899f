package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	"github.com/sirupsen/logrus"

	"github.com/dnsweaver/dnsweaver/dnsprovider"
	"github.com/dnsweaver/dnsweaver/recon"
)

const defaultAppConfig = `# dnsweaver app configuration.
# This is not the place for domain records, those live in the config
# directory passed with the -c flag.

cloudflare:
  # Both values are required. They can also be supplied via the
  # CLOUDFLARE_API_EMAIL and CLOUDFLARE_API_KEY environment variables,
  # which take precedence over this file.
  email: ""
  api_key: ""
`

type appConfig struct {
	Cloudflare cloudflareAuth `json:"cloudflare"`
}

type cloudflareAuth struct {
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

func appConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, "dnsweaver", "config.yaml"), nil
}

// loadAppConfig reads the credentials file, initializing a fresh template
// when none exists yet. Environment variables override the file.
func loadAppConfig(logger *logrus.Entry) (*appConfig, error) {
	path, err := appConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.WithField("file", path).Warn("App configuration not found, initializing a new empty one")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(defaultAppConfig), 0600); err != nil {
			return nil, err
		}
		data = []byte(defaultAppConfig)
	} else if err != nil {
		return nil, fmt.Errorf("reading app config %q: %w", path, err)
	}

	cfg := &appConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing app config %q: %w", path, err)
	}

	if email := os.Getenv("CLOUDFLARE_API_EMAIL"); email != "" {
		cfg.Cloudflare.Email = email
	}
	if key := os.Getenv("CLOUDFLARE_API_KEY"); key != "" {
		cfg.Cloudflare.APIKey = key
	}

	return cfg, nil
}

func buildProvider(logger *logrus.Entry) (recon.Transport, error) {
	cfg, err := loadAppConfig(logger)
	if err != nil {
		return nil, err
	}

	if cfg.Cloudflare.Email == "" || cfg.Cloudflare.APIKey == "" {
		return nil, errors.New("no email and/or api key set to authenticate with the provider API")
	}

	logger.WithField("account", cfg.Cloudflare.Email).Info("Using Cloudflare API")
	return dnsprovider.CreateCloudflareProvider(cfg.Cloudflare.Email, cfg.Cloudflare.APIKey)
}
