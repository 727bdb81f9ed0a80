package cmd

import (
	"fmt"
	"os"
)

func readFile(path string) (source, filename string, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(content), path, nil
}
