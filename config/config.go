// Package config loads the server configuration from a yaml file, with
// sensible defaults so a bare invocation works out of the box.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Listen is the address the editor API binds to.
	Listen string `yaml:"listen"`

	// APIBase is the hosting backend the persistence scheduler and upload
	// client talk to. Empty means self-hosted: the local server stores
	// projects itself.
	APIBase string `yaml:"api_base"`

	// ProjectsDir is the root of the local project store.
	ProjectsDir string `yaml:"projects_dir"`

	// WebDir holds the static editor UI.
	WebDir string `yaml:"web_dir"`

	Persistence Persistence `yaml:"persistence"`

	// FrameInterval paces the headless render loop. Zero disables frames.
	FrameInterval Duration `yaml:"frame_interval"`
}

type Persistence struct {
	MaxAttempts  int      `yaml:"max_attempts"`
	RetryBackoff Duration `yaml:"retry_backoff"`
}

// Duration reads yaml values like "5s" or "250ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "Bad duration %q", s)
	}
	*d = Duration(dur)
	return nil
}

func Default() *Config {
	return &Config{
		Listen:      ":8000",
		ProjectsDir: "projects",
		WebDir:      "web",
		Persistence: Persistence{
			MaxAttempts:  3,
			RetryBackoff: Duration(time.Second),
		},
	}
}

// Load reads the yaml file at path on top of the defaults. A missing file is
// not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "Failed to read config %q", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse config %q", path)
	}
	return cfg, nil
}
