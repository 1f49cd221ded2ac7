package lookahead

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config collects the tunables the core consumes from the embedding CDCL
// solver (§6 "A configuration record with recognised options").
type Config struct {
	Alpha    float64 `yaml:"alpha"`
	MaxScore float64 `yaml:"max_score"`
	MaxHLevel uint   `yaml:"max_hlevel"`

	LevelCand uint `yaml:"level_cand"`
	MinCutoff uint `yaml:"min_cutoff"`

	TC1Limit uint `yaml:"tc1_limit"`

	DeltaRho         float64 `yaml:"delta_rho"`
	DLMaxIterations  uint    `yaml:"dl_max_iterations"`
	DLSuccess        float64 `yaml:"dl_success"`

	DRAT bool `yaml:"drat"`

	// EnableAutarky resolves the §9 open question about check_autarky's
	// source unconditionally returning false: the spec's intended
	// (enabled) behaviour, made configurable, defaulting on.
	EnableAutarky bool `yaml:"enable_autarky"`

	// Logger receives structured trace events from propagation and
	// lookahead. A nil Logger is replaced with a disabled one so the
	// library is silent by default.
	Logger *logrus.Logger `yaml:"-"`

	// Metrics receives optional counters/gauges. A nil Metrics is
	// replaced with a no-op recorder.
	Metrics MetricsRecorder `yaml:"-"`

	// Proof receives derived-clause add/delete records when DRAT is true.
	// A nil Proof with DRAT set defaults to a BufferedProofSink.
	Proof ProofSink `yaml:"-"`
}

// DefaultConfig returns the configuration the original lookahead solver ships
// with, before any user override.
func DefaultConfig() Config {
	return Config{
		Alpha:           2.5,
		MaxScore:        20.0,
		MaxHLevel:       50,
		LevelCand:       50,
		MinCutoff:       30,
		TC1Limit:        64,
		DeltaRho:        0.9,
		DLMaxIterations: 2,
		DLSuccess:       0.8,
		DRAT:            false,
		EnableAutarky:   true,
	}
}

// LoadConfig reads a YAML configuration file and overlays it onto
// DefaultConfig. A missing path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "lookahead: opening config %q", path)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "lookahead: parsing config %q", path)
	}
	return cfg, nil
}
