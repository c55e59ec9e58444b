package config

import "errors"

// ErrInvalidConfig wraps every Validate failure; ErrLoadConfig wraps file,
// env and decode failures in Load.
var (
	ErrInvalidConfig = errors.New("neuroshop config: invalid value")
	ErrLoadConfig    = errors.New("neuroshop config: cannot load")
)
