// Package config loads the bridge configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/tcodebridge/config.toml (default)
//  3. If the config file doesn't exist, start from defaults
//  4. TCODEBRIDGE_RPC_URL, TCODEBRIDGE_DATA_DIR and
//     TCODEBRIDGE_PLAYER_VERSION override the file
//  5. Empty fields use defaults
//
// LoadDotEnv can populate those variables from a .env file first.
//
// # Default Values
//
//   - RPC endpoint: http://localhost:6800/xmlrpc
//   - Data directory: ~/.local/share/tcodebridge (holds tcode-player-<tag>)
//   - Player log: /tmp/tcode-player.log
//   - Player version: empty, meaning the pinned release
//   - Bridge log: ~/.local/state/tcodebridge/tcodebridge.log
//   - Device preferences: ~/.config/tcodebridge/prefs.toml
//
// # TOML Format
//
//	rpc_url = "http://localhost:6800/xmlrpc"
//	data_dir = "~/.local/share/tcodebridge"
//	player_log = "/tmp/tcode-player.log"
//	player_version = "0.0.7"
//	release_url = "https://example.com/tcode-player"
//	log_file = "~/.local/state/tcodebridge/tcodebridge.log"
//	prefs_path = "~/.config/tcodebridge/prefs.toml"
//
// Every field is optional. Path fields get tilde expansion and are made
// absolute.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors. A missing file is not an error.
package config
