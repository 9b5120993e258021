// Package results serves TKO fixture data from a directory tree:
//
//	tests.yaml        test records, in wire field names
//	<job_tag>/...     result files served as raw logs
//
// The tree backs the stub server; nothing in it is ever written.
package results

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/s22625/tkoview/internal/model"
	"gopkg.in/yaml.v3"
)

const fixtureFile = "tests.yaml"

// ErrLogNotFound reports a log path with no file behind it.
var ErrLogNotFound = errors.New("log file not found")

// Store holds the fixture tests and the root of the results tree.
type Store struct {
	root  string
	tests []model.TestRecord
}

type fixtureDoc struct {
	Tests []fixtureTest `yaml:"tests"`
}

type fixtureTest struct {
	TestIdx      int            `yaml:"test_idx"`
	TestName     string         `yaml:"test_name"`
	JobTag       string         `yaml:"job_tag"`
	JobName      string         `yaml:"job_name"`
	Status       string         `yaml:"status"`
	Reason       string         `yaml:"reason"`
	StartedTime  string         `yaml:"test_started_time"`
	FinishedTime string         `yaml:"test_finished_time"`
	Hostname     string         `yaml:"hostname"`
	Platform     string         `yaml:"platform"`
	Kernel       string         `yaml:"kernel"`
	Labels       []string       `yaml:"labels"`
	Attributes   map[string]any `yaml:"attributes"`
}

// Open loads the fixture tree rooted at path. Duplicate test_idx values are
// legal; lookups return every match.
func Open(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid results path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("results path does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("results path is not a directory: %s", absPath)
	}

	content, err := os.ReadFile(filepath.Join(absPath, fixtureFile))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fixtureFile, err)
	}

	var doc fixtureDoc
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fixtureFile, err)
	}

	s := &Store{root: absPath}
	for _, t := range doc.Tests {
		s.tests = append(s.tests, model.TestRecord{
			TestIdx:      t.TestIdx,
			TestName:     t.TestName,
			JobTag:       t.JobTag,
			JobName:      t.JobName,
			Status:       model.Status(t.Status),
			Reason:       t.Reason,
			StartedTime:  t.StartedTime,
			FinishedTime: t.FinishedTime,
			Hostname:     t.Hostname,
			Platform:     t.Platform,
			Kernel:       t.Kernel,
			Labels:       t.Labels,
			Attributes:   t.Attributes,
		})
	}
	return s, nil
}

// Root returns the absolute root of the results tree.
func (s *Store) Root() string {
	return s.root
}

// TestCount returns the number of fixture tests.
func (s *Store) TestCount() int {
	return len(s.tests)
}

// FindTests returns every fixture test with the given test_idx, in file
// order.
func (s *Store) FindTests(testIdx int) []model.TestRecord {
	var matches []model.TestRecord
	for _, t := range s.tests {
		if t.TestIdx == testIdx {
			matches = append(matches, t)
		}
	}
	return matches
}

// ReadLog returns the contents of one result file, addressed relative to
// the tree root with forward slashes. Rooting the path before cleaning
// strips any traversal segments.
func (s *Store) ReadLog(relPath string) (string, error) {
	cleaned := filepath.Clean("/" + filepath.FromSlash(relPath))
	content, err := os.ReadFile(filepath.Join(s.root, cleaned))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrLogNotFound
		}
		return "", fmt.Errorf("reading log %s: %w", relPath, err)
	}
	return string(content), nil
}
