package config

// Settingsfile represents the structure of the settings.yaml file.
type Settingsfile struct {
	Root           string   `yaml:"root"`
	Quiescence     string   `yaml:"quiescence,omitempty"`
	IncludeDeletes bool     `yaml:"include_deletes,omitempty"`
	RenameTracking string   `yaml:"rename_tracking,omitempty"`
	Ignore         []string `yaml:"ignore,omitempty"`
	History        *string  `yaml:"history,omitempty"`
	Hook           []string `yaml:"hook,omitempty"`
	HealthSocket   string   `yaml:"health_socket,omitempty"`
	LogJSON        bool     `yaml:"log_json,omitempty"`
	FlushOnExit    bool     `yaml:"flush_on_exit,omitempty"`
}
