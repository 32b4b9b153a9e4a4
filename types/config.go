package types

// AppConfig is the persisted YAML configuration shared by the client commands
// and the API server.
type AppConfig struct {
	APIBase               string      `yaml:"apiBase"`
	OutputDir             string      `yaml:"outputDir"`
	SessionFile           string      `yaml:"sessionFile"`
	ConvertTimeoutSeconds int         `yaml:"convertTimeoutSeconds"`
	MergeTimeoutSeconds   int         `yaml:"mergeTimeoutSeconds"`
	Serve                 ServeConfig `yaml:"serve"`
}

// ServeConfig configures the API server half of the binary.
type ServeConfig struct {
	Port             int         `yaml:"port"`
	Secret           string      `yaml:"secret"` // HS256 signing key, generated on first run when empty
	TokenTTLHours    int         `yaml:"tokenTTLHours"`
	MaxUploadSize    int64       `yaml:"maxUploadSize"` // per-file limit in bytes
	ExtractorCommand string      `yaml:"extractorCommand"`
	LogFile          string      `yaml:"logFile"` // conversion log records, empty keeps them in memory only
	Users            []UserEntry `yaml:"users"`
}

// UserEntry is a configured login. Credential verification happens against
// this list only, there is no user store behind it.
type UserEntry struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}
