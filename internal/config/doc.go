// Package config loads the codewalk run configuration.
//
// Precedence (highest to lowest):
//  1. CLI flags the user set
//  2. Environment variables (CODEWALK_MODEL, CODEWALK_TEMPERATURE,
//     CODEWALK_EXTENSIONS, CODEWALK_EXCLUDE, CODEWALK_LOG_LEVEL,
//     CODEWALK_BASE_URL or OPENAI_BASE_URL, ...)
//  3. Config file ($XDG_CONFIG_HOME/codewalk/config.yaml, or --config)
//  4. Built-in defaults
//
// The API key is read from OPENAI_API_KEY, falling back to an optional
// dotenv file. Use [Load] to obtain a validated [Config].
package config
