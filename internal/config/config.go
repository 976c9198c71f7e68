package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Company is the issuing company profile stamped onto every rendered
// quotation.
type Company struct {
	Name           string `yaml:"name"`
	RegNo          string `yaml:"reg_no,omitempty"`
	Address        string `yaml:"address"`
	Phone          string `yaml:"phone"`
	Fax            string `yaml:"fax,omitempty"`
	Email          string `yaml:"email"`
	CurrencySymbol string `yaml:"currency_symbol"`
}

type Config struct {
	ListenAddr       string  `yaml:"listen_addr"`
	OutputDir        string  `yaml:"output_dir"`
	DocIndexPath     string  `yaml:"doc_index_path"`
	DocumentFormat   string  `yaml:"document_format"` // "pdf" or "html"
	ValidityDays     int     `yaml:"validity_days"`
	RetentionMinutes int     `yaml:"retention_minutes"`
	OTLPEndpoint     string  `yaml:"otlp_endpoint,omitempty"` // empty disables tracing
	Company          Company `yaml:"company"`
}

func Default() *Config {
	return &Config{
		ListenAddr:       ":8095",
		OutputDir:        "./quotes",
		DocIndexPath:     "./quotes/index.db",
		DocumentFormat:   "pdf",
		ValidityDays:     30,
		RetentionMinutes: 10,
		Company: Company{
			Name:           "Quotedesk Sdn. Bhd.",
			Address:        "No. 46, Jalan Seri Orkid 1, 81300 Skudai, Johor, Malaysia",
			Phone:          "07-511 5001",
			Email:          "admin@quotedesk.example",
			CurrencySymbol: "RM",
		},
	}
}

// Load reads a YAML config file, applying defaults for anything the
// file leaves unset. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DocumentFormat != "pdf" && c.DocumentFormat != "html" {
		return fmt.Errorf("document_format must be pdf or html, got %q", c.DocumentFormat)
	}
	if c.ValidityDays <= 0 {
		return errors.New("validity_days must be positive")
	}
	if c.RetentionMinutes <= 0 {
		return errors.New("retention_minutes must be positive")
	}
	return nil
}
