// Package config loads enzyme definitions.
//
// Documents are validated against their JSON schema, decoded, and compiled.
// Errors point back at the offending YAML. The built-in catalogue is
// always available through [Builtin], and user documents can be layered
// on top of it with [LoadRegistry].
package config
