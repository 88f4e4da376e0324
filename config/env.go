package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv returns the process environment merged over the given .env files
// (default ".env"). Variables already set in the process win, as with
// godotenv.Load, but the process environment itself is not modified. Missing
// files are ignored.
func LoadEnv(files ...string) (map[string]string, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	out := make(map[string]string)
	for _, f := range files {
		values, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for k, v := range values {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			out[k] = v
		}
	}
	return out, nil
}
