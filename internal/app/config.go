package app

import (
	"path/filepath"
	"strings"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const defaultOutputDir = "DocweaveDocs"

// Config represents analysis pipeline configuration
type Config struct {
	// OutputDir is the documentation folder relative to the repository root
	OutputDir string `yaml:"output_dir" env:"DOCWEAVE_OUTPUT_DIR"`
	// Context is added to every commit analysis prompt
	Context string `yaml:"context" env:"DOCWEAVE_CONTEXT"`
}

func (c *Config) PrepareAndValidate() error {
	c.OutputDir = strings.TrimSpace(lang.Check(c.OutputDir, defaultOutputDir))
	if filepath.IsAbs(c.OutputDir) || strings.HasPrefix(filepath.Clean(c.OutputDir), "..") {
		return errm.Errorf("output dir must be relative to the repository root: %s", c.OutputDir)
	}
	return nil
}
