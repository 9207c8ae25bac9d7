// Package config holds the runtime settings of a tfxmock server.
//
// Settings are layered: defaults, then an optional YAML or JSON file, then
// TFXMOCK_* environment variables, then command-line flags:
//
//	cfg, err := config.LoadFile("tfxmock.yaml")
//	if err != nil {
//	    return err
//	}
//	config.ApplyEnv(cfg)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// Configuration files may reference environment variables with ${VAR} or
// ${VAR:-default}.
package config
