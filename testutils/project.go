package testutils

import (
	"os"
	"path/filepath"
)

// TestProject is a temporary directory of PHP files for testing purposes
type TestProject struct {
	Path  string
	Files map[string]string
}

// NewTestProject creates a new and empty project directory. Must call Close()
// to cleanup auxiliary files
func NewTestProject() *TestProject {
	workingDir, err := os.MkdirTemp("", "phpguard_test")
	if err != nil {
		return nil
	}
	return &TestProject{
		Path:  workingDir,
		Files: make(map[string]string),
	}
}

// AddFile writes the file below the project root, creating parent directories
func (p *TestProject) AddFile(filename, content string) error {
	full := filepath.Join(p.Path, filename)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return err
	}
	p.Files[full] = content
	return os.WriteFile(full, []byte(content), 0o600)
}

// Close will delete the project and all files in that directory
func (p *TestProject) Close() {
	if err := os.RemoveAll(p.Path); err != nil {
		panic(err)
	}
}
