package config

import (
	"bufio"
	"os"
	"strings"
)

// governanceURLKey is the key the governance config file uses for the
// platform base URL.
const governanceURLKey = "OPENMETADATA_BASE_URL"

// ReadGovernanceBaseURL parses a simple KEY=VALUE config file and extracts
// the governance platform base URL. A line holding a bare value (no '=') is
// also accepted, for files that contain just the URL. Returns "" when the
// file does not exist or holds no URL.
func ReadGovernanceBaseURL(path string) (string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, governanceURLKey+"=") {
			return strings.TrimSpace(strings.TrimPrefix(line, governanceURLKey+"=")), nil
		}
		if !strings.Contains(line, "=") {
			return line, nil
		}
	}
	return "", scanner.Err()
}
