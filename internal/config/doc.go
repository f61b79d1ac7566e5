// Package config loads wallfeed's configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/wallfeed/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// Files ending in .yaml or .yml are decoded with gopkg.in/yaml.v3; anything
// else is TOML.
//
// # Default Values
//
//   - Image host:    https://instimage.vercel.app/images
//   - Page size:     20 records, 1000 records total
//   - Timeout:       10s per HTTP request
//   - Downloads:     ~/Pictures/wallfeed
//   - Cache:         ~/.cache/wallfeed (staging for set-wallpaper)
//   - Logs:          ~/.local/share/wallfeed/logs/wallfeed.log
//   - Storage:       file driver in ~/.local/share/wallfeed
//   - Web API:       127.0.0.1:7490
//
// # TOML Format
//
//	base_url = "https://instimage.vercel.app/images"
//	page_size = 20
//	total = 1000
//	request_timeout = "10s"
//	download_dir = "~/Pictures/wallfeed"
//	log_level = "info"
//
//	[storage]
//	driver = "sqlite"            # file, sqlite or postgres
//	path = "~/.local/share/wallfeed/wallfeed.db"
//	dsn = ""                     # postgres only
//
//	[wallpaper]
//	command = "feh --bg-fill {file}"
//
// Every field is optional. Tilde expansion is performed for paths. An empty
// string or a zero number means "use the default": page_size = 0 loads 20
// records per page and total = 0 keeps the 1000 record ceiling. Only
// negative numbers are rejected.
//
// # Error Handling
//
// Load returns errors for unreadable files, parse failures ("parse config")
// and values that cannot work ("invalid config"): negative page size or
// total, an unparsable timeout, an unknown storage driver, or postgres
// without a DSN. A missing file is NOT an error.
package config
