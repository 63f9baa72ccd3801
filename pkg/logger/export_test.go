package logger

import "github.com/rs/zerolog"

// reset drops the process logger so that the next Init call rebuilds it.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = zerolog.Logger{}
	initialized = false
}
