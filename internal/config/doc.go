// Package config provides local-first configuration for settle.
//
// Configuration lives in the project's .settle/ directory:
//
//	.settle/
//	├── config.json        # Main configuration (committed to git)
//	├── .gitignore         # Ignores logs and temp files
//	└── settle.log         # TUI log output
//
// The config.json file contains simple key-value settings:
//
//	{
//	  "debounce_ms": 300,
//	  "throttle_ms": 300,
//	  "theme": "dark",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "watch_ignore": ["generated"]
//	}
//
// String values may reference environment variables using $VAR or ${VAR}
// syntax. Unset variables are left as written.
//
// Command-line flags override file values; see Config.Validate for the
// accepted ranges.
package config
