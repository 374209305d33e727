package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"substrate-discord-bot/config"

	"github.com/stretchr/testify/suite"
)

type nodeConfig struct {
	URL     string        `yaml:"url" env:"TEST_NODE_URL" validate:"required"`
	Timeout time.Duration `yaml:"timeout"`
}

type testConfiguration struct {
	Mode      string     `yaml:"mode" env:"TEST_BOT_MODE" validate:"omitempty,oneof=development production"`
	TestGuild string     `yaml:"testGuild" validate:"required_if=Mode development"`
	Node      nodeConfig `yaml:"node"`
}

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

// SetupTest creates a temporary directory for the
// config files of a single test.
func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ConfigTestSuite) writeFile(name string, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestUnitLoadSingleFile loads nested keys from a single file.
func (s *ConfigTestSuite) TestUnitLoadSingleFile() {
	path := s.writeFile("config.yml", `
mode: development
testGuild: 123
node:
  url: example.org
  timeout: 5s
`)
	var cfg testConfiguration
	err := config.LoadAndValidateConfiguration([]string{path}, &cfg)
	s.Require().NoError(err)
	s.Equal("development", cfg.Mode)
	s.Equal("123", cfg.TestGuild)
	s.Equal("example.org", cfg.Node.URL)
	s.Equal(5*time.Second, cfg.Node.Timeout)
}

// TestUnitLoadMergesFiles checks that later files override
// only the keys they define.
func (s *ConfigTestSuite) TestUnitLoadMergesFiles() {
	base := s.writeFile("base.yml", `
mode: production
node:
  url: example.org
  timeout: 5s
`)
	override := s.writeFile("override.yml", `
node:
  url: other.example.org
`)
	var cfg testConfiguration
	err := config.LoadAndValidateConfiguration([]string{base, override}, &cfg)
	s.Require().NoError(err)
	s.Equal("production", cfg.Mode)
	s.Equal("other.example.org", cfg.Node.URL)
	s.Equal(5*time.Second, cfg.Node.Timeout)
}

// TestUnitEnvironmentOverridesFile checks that set environment
// variables take precedence over the files.
func (s *ConfigTestSuite) TestUnitEnvironmentOverridesFile() {
	path := s.writeFile("config.yml", `
mode: development
testGuild: 123
node:
  url: example.org
`)
	s.T().Setenv("TEST_BOT_MODE", "production")
	s.T().Setenv("TEST_NODE_URL", "env.example.org")

	var cfg testConfiguration
	err := config.LoadAndValidateConfiguration([]string{path}, &cfg)
	s.Require().NoError(err)
	s.Equal("production", cfg.Mode)
	s.Equal("env.example.org", cfg.Node.URL)
	s.Equal("123", cfg.TestGuild)
}

// TestUnitValidationFails checks that a development
// configuration without a test guild is rejected.
func (s *ConfigTestSuite) TestUnitValidationFails() {
	path := s.writeFile("config.yml", `
mode: development
node:
  url: example.org
`)
	var cfg testConfiguration
	err := config.LoadAndValidateConfiguration([]string{path}, &cfg)
	s.Error(err)
	s.Contains(err.Error(), "TestGuild")
}

// TestUnitUnknownKeyFails checks that misspelled keys
// are reported instead of silently ignored.
func (s *ConfigTestSuite) TestUnitUnknownKeyFails() {
	path := s.writeFile("config.yml", `
node:
  uri: example.org
`)
	var cfg testConfiguration
	s.Error(config.LoadConfiguration([]string{path}, &cfg))
}

// TestUnitMissingFileFails checks that a missing file is
// returned as an error.
func (s *ConfigTestSuite) TestUnitMissingFileFails() {
	var cfg testConfiguration
	err := config.LoadAndValidateConfiguration(
		[]string{filepath.Join(s.dir, "missing.yml")},
		&cfg,
	)
	s.Error(err)
	s.ErrorIs(err, os.ErrNotExist)
}

// TestUnitNoFilesFails checks that at least one file
// is required.
func (s *ConfigTestSuite) TestUnitNoFilesFails() {
	var cfg testConfiguration
	s.ErrorIs(config.LoadConfiguration(nil, &cfg), config.ErrNoConfigFiles)
}

// TestConfigTestSuite runs all tests under
// the ConfigTestSuite
func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
