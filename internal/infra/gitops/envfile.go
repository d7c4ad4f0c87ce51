package gitops

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var ErrInvalidURL = errors.New("URL must start with http(s)://")

// SaveURL stores url as GIT_URL in envFile, keeping the other keys.
func SaveURL(envFile, url string) error {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http") {
		return fmt.Errorf("%w: %q", ErrInvalidURL, url)
	}

	values, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		values = map[string]string{}
	}
	values["GIT_URL"] = url

	if err := godotenv.Write(values, envFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", envFile, err)
	}
	return nil
}
