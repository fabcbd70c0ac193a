// Package config defines the usercache configuration structure.
//
//   - spec.go: Config struct and its koanf tags
//   - default.go: default values
//   - verify.go: validation
//   - load.go: layered loading through confloader
package config
