package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/joeshaw/envdecode"
)

// Settings hold process-level configuration read from the environment.
type Settings struct {
	// Host the server binds to. ENV: SERVER_HOST
	Host string `env:"SERVER_HOST,default=127.0.0.1"`
	// Port the server listens on. ENV: SERVER_PORT
	Port int `env:"SERVER_PORT,default=8081"`
	// FormRoute serves the rendered form. ENV: FORMSERVE_FORM_ROUTE
	FormRoute string `env:"FORMSERVE_FORM_ROUTE,default=/"`
	// SubmitRoute accepts submissions. ENV: FORMSERVE_SUBMIT_ROUTE
	SubmitRoute string `env:"FORMSERVE_SUBMIT_ROUTE,default=/submit"`
	// MaxBodyBytes caps request bodies. ENV: FORMSERVE_MAX_BODY_BYTES
	MaxBodyBytes int64 `env:"FORMSERVE_MAX_BODY_BYTES,default=1048576"`
	// LogFormat is "text" or "json". ENV: FORMSERVE_LOG_FORMAT
	LogFormat string `env:"FORMSERVE_LOG_FORMAT,default=text"`
}

// DefaultSettings returns the values used when no variable is set.
func DefaultSettings() Settings {
	return Settings{
		Host:         "127.0.0.1",
		Port:         8081,
		FormRoute:    "/",
		SubmitRoute:  "/submit",
		MaxBodyBytes: 1 << 20,
		LogFormat:    "text",
	}
}

// LoadSettings decodes Settings from the environment, applying defaults for
// unset variables.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envdecode.Decode(&s); err != nil {
		if !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return Settings{}, fmt.Errorf("config: decode environment: %w", err)
		}
		s = DefaultSettings()
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports settings the server cannot run with.
func (s Settings) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("config: SERVER_PORT %d out of range", s.Port)
	}
	if !strings.HasPrefix(s.FormRoute, "/") || !strings.HasPrefix(s.SubmitRoute, "/") {
		return errors.New("config: routes must start with /")
	}
	if s.FormRoute == s.SubmitRoute {
		return fmt.Errorf("config: form and submit routes must differ, both are %q", s.FormRoute)
	}
	if s.MaxBodyBytes <= 0 {
		return errors.New("config: FORMSERVE_MAX_BODY_BYTES must be positive")
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown FORMSERVE_LOG_FORMAT %q", s.LogFormat)
	}
	return nil
}

// Addr joins host and port for net/http.
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
