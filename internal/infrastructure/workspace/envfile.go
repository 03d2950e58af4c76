package workspace

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// ReadEnvFile returns the raw content of an existing env file. The boolean is
// false when the file does not exist.
func ReadEnvFile(fs afero.Fs, path string) ([]byte, bool, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, true, nil
}

// ParseEnv parses dotenv content into key/value pairs. Content godotenv
// rejects, such as names outside its identifier set, is split line by line
// on the first '=' instead.
func ParseEnv(data []byte) map[string]string {
	if values, err := godotenv.Parse(bytes.NewReader(data)); err == nil {
		return values
	}
	return splitAssignments(data)
}

func splitAssignments(data []byte) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		values[line[:idx]] = line[idx+1:]
	}
	return values
}

// EnvReader reads existing env files through a filesystem abstraction
type EnvReader struct {
	fs afero.Fs
}

// NewEnvReader creates a reader over fs
func NewEnvReader(fs afero.Fs) *EnvReader {
	return &EnvReader{fs: fs}
}

// Read returns the content of the env file at path; see ReadEnvFile
func (r *EnvReader) Read(path string) (string, bool, error) {
	data, exists, err := ReadEnvFile(r.fs, path)
	return string(data), exists, err
}

// Parse parses dotenv content; see ParseEnv
func (r *EnvReader) Parse(content string) map[string]string {
	return ParseEnv([]byte(content))
}
