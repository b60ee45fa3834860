// Package config loads and validates assocsets configuration.
//
// Configuration is read from TOML. Fields omitted from the file keep their
// defaults, so partial files are safe. The trainer section maps onto
// mot.TrainerConfig.
package config
