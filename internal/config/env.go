package config

import (
	"os"
	"strconv"
)

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// envInt keeps dst when the variable is unset or not an integer.
func envInt(dst *int, key string) {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = n
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func parseDurations(fields map[string]string) error {
	for name, v := range fields {
		if _, err := parseDuration(name, v); err != nil {
			return err
		}
	}
	return nil
}
