package main

import "time"

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=5000"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	// Typing indicator tuning. The expiry is how long an indicator
	// survives without a refresh; the throttle is the minimum gap
	// between accepted typing signals per user and kind.
	TypingExpiry   time.Duration `env:"TYPING_EXPIRY,default=3s"`
	TypingThrottle time.Duration `env:"TYPING_THROTTLE,default=6s"`

	// Comma-separated word list; empty disables moderation.
	ModerationWords           string `env:"MODERATION_WORDS"`
	ModerationCharReplacement string `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`

	// When set, a localhost-only debug server starts on this port.
	DebugPort *int `env:"DEBUG_PORT"`
}
