package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name.
const FileName = "finscore.yaml"

// Config represents the top-level finscore.yaml configuration.
type Config struct {
	Log          LogConfig      `yaml:"log"`
	Server       ServerConfig   `yaml:"server"`
	Analysis     AnalysisConfig `yaml:"analysis"`
	Dictionaries Dictionaries   `yaml:"dictionaries"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Port        int           `yaml:"port"`
	BodyLimitMB int           `yaml:"body_limit_mb"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// AnalysisConfig holds the tunable numeric inputs of the analysis passes.
type AnalysisConfig struct {
	TenureMonths        int     `yaml:"tenure_months"`
	AnnualRatePercent   float64 `yaml:"annual_rate_percent"`
	MaxFOIRPercent      float64 `yaml:"max_foir_percent"`
	NormalizationMonths int     `yaml:"normalization_months"` // 0 = months covered by the statement
}

// Dictionaries holds every keyword list the analyzers consult.
type Dictionaries struct {
	Categories   []CategoryRule `yaml:"categories"`
	Income       Income         `yaml:"income"`
	FOIR         FOIR           `yaml:"foir"`
	Fraud        Fraud          `yaml:"fraud"`
	Behavior     Behavior       `yaml:"behavior"`
	Risk         Risk           `yaml:"risk"`
	Alerts       Alerts         `yaml:"alerts"`
	Counterparty Counterparty   `yaml:"counterparty"`
	GST          GST            `yaml:"gst"`
	Bank         Bank           `yaml:"bank"`
}

// CategoryRule is one row of the ordered categorization table.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Income configures income verification.
type Income struct {
	SalaryKeywords     []string `yaml:"salary_keywords"`
	RentalKeywords     []string `yaml:"rental_keywords"`
	InvestmentKeywords []string `yaml:"investment_keywords"`
	FreelanceKeywords  []string `yaml:"freelance_keywords"`
	CashKeywords       []string `yaml:"cash_keywords"`
}

// FOIR configures obligation detection.
type FOIR struct {
	SalaryKeywords      []string `yaml:"salary_keywords"`
	OtherIncomeKeywords []string `yaml:"other_income_keywords"`
	ObligationKeywords  []string `yaml:"obligation_keywords"`
	HomeKeywords        []string `yaml:"home_keywords"`
	PersonalKeywords    []string `yaml:"personal_keywords"`
	CreditCardKeywords  []string `yaml:"credit_card_keywords"`
	AutoKeywords        []string `yaml:"auto_keywords"`
	BusinessKeywords    []string `yaml:"business_keywords"`
	EducationKeywords   []string `yaml:"education_keywords"`
	HomeLenders         []string `yaml:"home_lenders"`
	PersonalLenders     []string `yaml:"personal_lenders"`
	AutoLenders         []string `yaml:"auto_lenders"`
	BusinessLenders     []string `yaml:"business_lenders"`
	EducationLenders    []string `yaml:"education_lenders"`
	CardIssuers         []string `yaml:"card_issuers"`
}

// Fraud configures the advanced fraud detector.
type Fraud struct {
	NBFCLenders        []string `yaml:"nbfc_lenders"`
	PaydayLenders      []string `yaml:"payday_lenders"`
	P2PLenders         []string `yaml:"p2p_lenders"`
	CryptoExchanges    []string `yaml:"crypto_exchanges"`
	GamblingKeywords   []string `yaml:"gambling_keywords"`
	CashKeywords       []string `yaml:"cash_keywords"`
	EMIKeywords        []string `yaml:"emi_keywords"`
	TransferKeywords   []string `yaml:"transfer_keywords"`
	TransferExclusions []string `yaml:"transfer_exclusions"`
}

// Behavior configures the banking behavior scorer.
type Behavior struct {
	MinimumBalance        float64  `yaml:"minimum_balance"`
	MinimumVintageMonths  int      `yaml:"minimum_vintage_months"`
	DigitalKeywords       []string `yaml:"digital_keywords"`
	InternationalKeywords []string `yaml:"international_keywords"`
	OverdraftKeywords     []string `yaml:"overdraft_keywords"`
	ChequeKeywords        []string `yaml:"cheque_keywords"`
	InsuranceKeywords     []string `yaml:"insurance_keywords"`
	SIPKeywords           []string `yaml:"sip_keywords"`
	RDKeywords            []string `yaml:"rd_keywords"`
	LateFeeKeywords       []string `yaml:"late_fee_keywords"`
	EMIBounceKeywords     []string `yaml:"emi_bounce_keywords"`
	InwardReturnKeywords  []string `yaml:"inward_return_keywords"`
	OutwardReturnKeywords []string `yaml:"outward_return_keywords"`
	ReturnChargeKeywords  []string `yaml:"return_charge_keywords"`
}

// Risk configures the risk aggregator.
type Risk struct {
	SalaryCategory   string   `yaml:"salary_category"`
	LoanCategory     string   `yaml:"loan_category"`
	ATMKeywords      []string `yaml:"atm_keywords"`
	BounceKeywords   []string `yaml:"bounce_keywords"`
	EMIKeywords      []string `yaml:"emi_keywords"`
	GamblingKeywords []string `yaml:"gambling_keywords"`
}

// Alerts configures red-alert detection.
type Alerts struct {
	LowBalance          float64  `yaml:"low_balance"`
	LargeCashWithdrawal float64  `yaml:"large_cash_withdrawal"`
	CashKeywords        []string `yaml:"cash_keywords"`
	BounceKeywords      []string `yaml:"bounce_keywords"`
}

// Counterparty configures counterparty extraction and classification.
type Counterparty struct {
	SkipKeywords       []string `yaml:"skip_keywords"`
	SalaryKeywords     []string `yaml:"salary_keywords"`
	LoanKeywords       []string `yaml:"loan_keywords"`
	InvestmentKeywords []string `yaml:"investment_keywords"`
	UtilityKeywords    []string `yaml:"utility_keywords"`
	CashKeywords       []string `yaml:"cash_keywords"`
	GamblingKeywords   []string `yaml:"gambling_keywords"`
}

// GST configures the GST filing summary.
type GST struct {
	Keywords []string `yaml:"keywords"`
}

// Bank configures the account-level bank metrics.
type Bank struct {
	SalaryKeywords       []string `yaml:"salary_keywords"`
	EMIKeywords          []string `yaml:"emi_keywords"`
	ATMKeywords          []string `yaml:"atm_keywords"`
	ChequeReturnKeywords []string `yaml:"cheque_return_keywords"`
	MinRecurring         int      `yaml:"min_recurring"` // occurrences before a description counts as recurring
	TopRecurring         int      `yaml:"top_recurring"`
}

// Load reads a finscore.yaml file from disk over the defaults, so a partial
// file only overrides the keys it sets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the config for values the analyzers cannot work with.
func Validate(cfg *Config) error {
	var errs []error
	if !validLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level %q must be one of debug, info, warn, error", cfg.Log.Level))
	}
	if f := cfg.Log.Format; f != "json" && f != "console" {
		errs = append(errs, fmt.Errorf("log.format %q must be json or console", f))
	}
	if cfg.Analysis.TenureMonths <= 0 {
		errs = append(errs, fmt.Errorf("analysis.tenure_months must be positive, got %d", cfg.Analysis.TenureMonths))
	}
	if cfg.Analysis.AnnualRatePercent < 0 {
		errs = append(errs, fmt.Errorf("analysis.annual_rate_percent must not be negative, got %v", cfg.Analysis.AnnualRatePercent))
	}
	if m := cfg.Analysis.MaxFOIRPercent; m <= 0 || m > 100 {
		errs = append(errs, fmt.Errorf("analysis.max_foir_percent must be in (0, 100], got %v", m))
	}
	if cfg.Analysis.NormalizationMonths < 0 {
		errs = append(errs, fmt.Errorf("analysis.normalization_months must not be negative, got %d", cfg.Analysis.NormalizationMonths))
	}
	if b := cfg.Dictionaries.Bank; b.MinRecurring < 1 || b.TopRecurring < 1 {
		errs = append(errs, fmt.Errorf("dictionaries.bank min_recurring and top_recurring must be positive, got %d and %d", b.MinRecurring, b.TopRecurring))
	}
	if len(cfg.Dictionaries.Categories) == 0 {
		errs = append(errs, errors.New("dictionaries.categories must not be empty"))
	}
	seen := make(map[string]bool)
	for _, c := range cfg.Dictionaries.Categories {
		key := strings.ToLower(c.Name)
		if key == "" {
			errs = append(errs, errors.New("category with empty name"))
			continue
		}
		if seen[key] {
			errs = append(errs, fmt.Errorf("duplicate category %q", c.Name))
		}
		seen[key] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ApplyEnv loads .env files (missing ones are ignored) and overlays
// FINSCORE_* environment variables onto cfg.
func ApplyEnv(cfg *Config, files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading env file: %w", err)
	}

	cfg.Log.Level = getEnv("FINSCORE_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("FINSCORE_LOG_FORMAT", cfg.Log.Format)

	var err error
	if cfg.Server.Port, err = getEnvInt("FINSCORE_PORT", cfg.Server.Port); err != nil {
		return err
	}
	if cfg.Server.BodyLimitMB, err = getEnvInt("FINSCORE_BODY_LIMIT_MB", cfg.Server.BodyLimitMB); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}
