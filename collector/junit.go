package collector

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type junitSuites struct {
	XMLName xml.Name     `xml:"testsuites"`
	Suites  []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name   string          `xml:"name,attr"`
	Suites []junitSuite    `xml:"testsuite"`
	Cases  []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string         `xml:"name,attr"`
	ClassName string         `xml:"classname,attr"`
	Time      string         `xml:"time,attr"`
	Failures  []junitProblem `xml:"failure"`
	Errors    []junitProblem `xml:"error"`
	Skipped   *struct{}      `xml:"skipped"`
}

type junitProblem struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

func (p junitProblem) text() string {
	if p.Message != "" {
		return p.Message
	}
	return strings.TrimSpace(p.Body)
}

// JUnitCollector turns JUnit XML reports into execution logs.
// Skipped test cases produce no log.
type JUnitCollector struct {
	files *fileSource
}

// CollectLogs turns every test case in the matching reports into a Log.
func (c *JUnitCollector) CollectLogs(ctx context.Context) ([]Log, error) {
	paths, err := c.files.paths()
	if err != nil {
		return nil, err
	}

	var out []Log
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		suites, err := readJUnit(p)
		if err != nil {
			c.files.log.Warn(ctx, "Skipping unreadable junit report", map[string]interface{}{
				"file":  p,
				"error": err.Error(),
			})
			continue
		}
		for _, s := range suites {
			out = appendSuiteLogs(out, s)
		}
	}
	return out, nil
}

func readJUnit(path string) ([]junitSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid xml: %w", err)
	}

	switch root.XMLName.Local {
	case "testsuites":
		var doc junitSuites
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Suites, nil
	case "testsuite":
		var doc junitSuite
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return []junitSuite{doc}, nil
	default:
		return nil, fmt.Errorf("unexpected root element %q", root.XMLName.Local)
	}
}

func appendSuiteLogs(out []Log, s junitSuite) []Log {
	for _, tc := range s.Cases {
		if tc.Skipped != nil {
			continue
		}
		out = append(out, tc.log())
	}
	for _, nested := range s.Suites {
		out = appendSuiteLogs(out, nested)
	}
	return out
}

func (tc junitTestCase) log() Log {
	id := tc.Name
	if tc.ClassName != "" {
		id = tc.ClassName + "." + tc.Name
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(tc.Time), 64)
	if err != nil || seconds < 0 {
		seconds = 0
	}

	l := Log{
		TestID:     id,
		Status:     "passed",
		DurationMS: seconds * 1000,
	}
	for _, p := range tc.Failures {
		l.Failures = append(l.Failures, p.text())
	}
	for _, p := range tc.Errors {
		l.Failures = append(l.Failures, p.text())
	}
	if len(l.Failures) > 0 {
		l.Status = "failed"
	}
	return l
}
