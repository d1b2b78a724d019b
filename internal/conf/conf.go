package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Bootstrap is the root of configs/config.yaml
type Bootstrap struct {
	Server     *Server     `json:"server"`
	Data       *Data       `json:"data"`
	Auth       *Auth       `json:"auth"`
	Pagination *Pagination `json:"pagination"`
}

// Server holds transport settings
type Server struct {
	Http *Server_HTTP `json:"http"`
}

type Server_HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Data holds storage settings
type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
}

type Data_Database struct {
	// Driver is one of postgres, sqlite, mysql
	Driver          string   `json:"driver"`
	Source          string   `json:"source"`
	AutoMigrate     bool     `json:"auto_migrate"`
	MaxIdleConns    int      `json:"max_idle_conns"`
	MaxOpenConns    int      `json:"max_open_conns"`
	ConnMaxLifetime Duration `json:"conn_max_lifetime"`
}

type Data_Redis struct {
	Addr         string   `json:"addr"`
	Password     string   `json:"password"`
	Db           int      `json:"db"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
}

// Auth guards the write endpoints. An empty token disables the check.
type Auth struct {
	Token string `json:"token"`
}

type Pagination struct {
	DefaultSize int32 `json:"default_size"`
	MaxSize     int32 `json:"max_size"`
}

// Duration decodes "1.5s" style strings as well as raw nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			d.Duration = 0
			return nil
		}
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		d.Duration = v
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid duration %s: %w", string(b), err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// AsDuration mirrors durationpb so call sites read the same as generated config.
func (d Duration) AsDuration() time.Duration {
	return d.Duration
}
