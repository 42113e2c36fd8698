package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration, loaded from config.toml next to
// the executable with compiled-in defaults.
type AppConfig struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Reconcile ReconcileConfig `toml:"reconcile"`
	Duplicate DuplicateConfig `toml:"duplicate"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig holds filesystem settings.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// ReconcileConfig holds the market-specific tables driving taxonomy
// reconciliation. Defaults cover US-GAAP phrasing; override per market
// (IFRS, FCA, ESMA) in config.toml rather than in code.
type ReconcileConfig struct {
	Keywords           KeywordConfig `toml:"keywords"`
	StandardNamespaces []string      `toml:"standard_namespaces"`
	DenylistNamespaces []string      `toml:"denylist_namespaces"`
	DenylistSuffixes   []string      `toml:"denylist_suffixes"`
	MaxChainDepth      int           `toml:"max_chain_depth"`
	Aliases            AliasConfig   `toml:"aliases"`
}

// KeywordConfig maps role-definition keywords to statement types. Matching is
// substring on the lower-cased definition; priority between statements is
// fixed (balance sheet > cash flow > income statement), only the vocabulary
// is configurable.
type KeywordConfig struct {
	BalanceSheet    []string `toml:"balance_sheet"`
	CashFlow        []string `toml:"cash_flow"`
	IncomeStatement []string `toml:"income_statement"`
}

// AliasConfig lists field-name aliases per logical fact field, in priority
// order. Each mapper and market names these differently; the first present
// alias wins.
type AliasConfig struct {
	Concept  []string `toml:"concept"`
	Value    []string `toml:"value"`
	Context  []string `toml:"context"`
	Unit     []string `toml:"unit"`
	Decimals []string `toml:"decimals"`
}

// DuplicateConfig holds variance severity thresholds.
type DuplicateConfig struct {
	CriticalThreshold float64 `toml:"critical_threshold"`
	MajorThreshold    float64 `toml:"major_threshold"`
}

// LoadConfigInfo carries metadata about how the config was loaded.
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20271,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Reconcile: ReconcileConfig{
			Keywords: KeywordConfig{
				BalanceSheet:    []string{"balance sheet", "financial position"},
				CashFlow:        []string{"cash flow"},
				IncomeStatement: []string{"income", "operations", "comprehensive"},
			},
			StandardNamespaces: []string{
				"us-gaap", "dei", "srt", "country", "currency",
				"exch", "naics", "sic", "stpr", "invest",
			},
			DenylistNamespaces: []string{"dei"},
			DenylistSuffixes: []string{
				"Axis", "Member", "Domain", "Table", "LineItems", "Abstract",
			},
			MaxChainDepth: 10,
			Aliases: AliasConfig{
				Concept:  []string{"concept_qname", "qname", "concept", "concept_local_name"},
				Value:    []string{"fact_value", "value"},
				Context:  []string{"context_ref", "contextRef", "context"},
				Unit:     []string{"unit_ref", "unit"},
				Decimals: []string{"decimals"},
			},
		},
		Duplicate: DuplicateConfig{
			CriticalThreshold: 0.05,
			MajorThreshold:    0.01,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo loads config.toml and reports load metadata.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, defaults apply.
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	if v := os.Getenv("CROSSCHECK_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}

	return config, info, nil
}

// LoadConfig loads config.toml from the executable's directory.
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig writes the configuration back to config.toml.
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir creates the data directory tree next to the executable.
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"filings", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
