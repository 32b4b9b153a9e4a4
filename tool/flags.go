package tool

import "flag"

// Config holds runtime overrides from CLI flags. Non-empty values win over
// the config file.
type Config struct {
	Log           string
	UseConfigPath string
	UseAPIBase    string
	UseOutputDir  string
	UseUser       string
	UsePassword   string
	UseRemember   bool
	UseServePort  int
}

// SetFlags parses CLI flags and returns the override config. The remaining
// positional arguments (command plus its file paths) come from flag.Args.
func SetFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseAPIBase, "useApiBase", "", "override API base URL (e.g. http://localhost:5000)")
	flag.StringVar(&cfg.UseOutputDir, "useOutputDir", "", "override directory for downloaded results")
	flag.StringVar(&cfg.UseUser, "useUser", "", "username for login (or for a one-shot, non-persisted session)")
	flag.StringVar(&cfg.UsePassword, "usePassword", "", "password for login")
	flag.BoolVar(&cfg.UseRemember, "useRemember", false, "persist the session after login")
	flag.IntVar(&cfg.UseServePort, "useServePort", 0, "override API server port (serve command)")
	flag.Parse()
	return cfg
}
