package shell

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/retest/internal/core/domain"
)

// jsonReport is the subset of the Jest/Vitest JSON reporter output that is understood.
type jsonReport struct {
	TestResults []jsonFileResult         `json:"testResults"`
	CoverageMap map[string]jsonFileCover `json:"coverageMap"`
}

type jsonFileResult struct {
	Name             string                `json:"name"`
	Status           string                `json:"status"`
	StartTime        int64                 `json:"startTime"`
	EndTime          int64                 `json:"endTime"`
	Message          string                `json:"message"`
	AssertionResults []jsonAssertionResult `json:"assertionResults"`
}

type jsonAssertionResult struct {
	Status          string   `json:"status"`
	FailureMessages []string `json:"failureMessages"`
}

type jsonFileCover struct {
	Statements map[string]int `json:"s"`
}

// parseReport extracts a structured report from runner stdout. Runners often print banners
// before the JSON document, so every line starting with '{' is tried as the document start.
func parseReport(stdout []byte, root string) (*domain.StructuredReport, bool) {
	for offset := 0; offset < len(stdout); {
		line := stdout[offset:]
		if next := bytes.IndexByte(line, '\n'); next >= 0 {
			line = line[:next]
		}

		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("{")) {
			var doc jsonReport
			dec := json.NewDecoder(bytes.NewReader(stdout[offset:]))
			if err := dec.Decode(&doc); err == nil && doc.TestResults != nil {
				return convertReport(&doc, root), true
			}
		}

		offset += len(line) + 1
	}
	return nil, false
}

func convertReport(doc *jsonReport, root string) *domain.StructuredReport {
	coverage := convertCoverage(doc.CoverageMap, root)

	report := &domain.StructuredReport{Files: make([]domain.FileReport, 0, len(doc.TestResults))}
	for i := range doc.TestResults {
		res := &doc.TestResults[i]

		file := domain.FileReport{
			Path:     relPath(root, res.Name),
			Status:   fileStatus(res),
			Message:  res.Message,
			Coverage: coverage,
		}
		if res.EndTime > res.StartTime {
			file.Duration = time.Duration(res.EndTime-res.StartTime) * time.Millisecond
		}

		var failures []string
		for _, a := range res.AssertionResults {
			switch a.Status {
			case "passed":
				file.Assertions.Passed++
			case "failed":
				file.Assertions.Failed++
				failures = append(failures, a.FailureMessages...)
			default:
				file.Assertions.Skipped++
			}
		}
		if file.Message == "" && len(failures) > 0 {
			file.Message = strings.Join(failures, "\n")
		}

		report.Files = append(report.Files, file)
	}

	slices.SortFunc(report.Files, func(a, b domain.FileReport) int {
		return strings.Compare(a.Path, b.Path)
	})
	return report
}

func fileStatus(res *jsonFileResult) domain.TestStatus {
	switch res.Status {
	case "passed":
		return domain.StatusPassed
	case "failed":
		return domain.StatusFailed
	case "skipped", "pending", "todo":
		return domain.StatusSkipped
	}
	for _, a := range res.AssertionResults {
		if a.Status == "failed" {
			return domain.StatusFailed
		}
	}
	if res.Message != "" {
		return domain.StatusFailed
	}
	return domain.StatusPassed
}

// convertCoverage reduces an istanbul coverage map to statement coverage per file.
func convertCoverage(cov map[string]jsonFileCover, root string) map[string]float64 {
	if len(cov) == 0 {
		return nil
	}
	out := make(map[string]float64, len(cov))
	for name, fc := range cov {
		if len(fc.Statements) == 0 {
			out[relPath(root, name)] = 0
			continue
		}
		covered := 0
		for _, hits := range fc.Statements {
			if hits > 0 {
				covered++
			}
		}
		out[relPath(root, name)] = float64(covered) / float64(len(fc.Statements))
	}
	return out
}

// relPath converts a runner reported path into a root-relative slash path.
func relPath(root, name string) string {
	if filepath.IsAbs(name) {
		if rel, err := filepath.Rel(root, name); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(name))
}
