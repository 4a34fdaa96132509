// Package config handles configuration loading for portfolio-api.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${PORTFOLIO_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  token_ttl: "24h"
//	captcha:
//	  ttl: "5m"
//	  sweep_interval: "5s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/portfolio/portfolio.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${PORTFOLIO_JWT_SECRET}"  # required, min 32 bytes
//	  token_ttl: "24h"
//
// Captcha challenges:
//
//	captcha:
//	  ttl: "5m"
//	  sweep_interval: "5s"
//
// Uploads:
//
//	uploads:
//	  path: "/var/lib/portfolio/uploads"
//	  base_url: "http://localhost:8080"
//
// CORS:
//
//	cors:
//	  allowed_origins:
//	    - "http://localhost:5173"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - JWT secret presence and minimum length (32 bytes)
//   - Server address and database path presence
//   - Upload path presence
//   - Duration format validity
//
// # Usage
//
// Load configuration from a path:
//
//	cfg, err := config.Load("/etc/portfolio/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
