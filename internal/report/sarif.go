package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/1homsi/jarcheck/internal/checker"
	"github.com/1homsi/jarcheck/internal/typename"
)

const (
	ruleMissing     = "JARCHECK001"
	ruleNotFound    = "JARCHECK002"
	ruleUndecodable = "JARCHECK003"
)

type sarifOutput struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Results           []sarifResult          `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	ShortDescription sarifMessage      `json:"shortDescription"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

func classLocation(name string) []sarifLocation {
	return []sarifLocation{{PhysicalLocation: sarifPhysicalLocation{
		ArtifactLocation: sarifArtifactLocation{URI: typename.ToEntry(name)},
	}}}
}

// WriteCheckSARIF writes one SARIF run covering every result. Missing
// dependencies are reported at the class that references them.
func WriteCheckSARIF(w io.Writer, results []*checker.Result, version string) error {
	rules := []sarifRule{
		{ID: ruleMissing, Name: "MissingDependency", ShortDescription: sarifMessage{Text: "Referenced class is not on the classpath"}},
		{ID: ruleNotFound, Name: "EntryPointNotFound", ShortDescription: sarifMessage{Text: "Entry class is not on the classpath"}},
		{ID: ruleUndecodable, Name: "UndecodableClass", ShortDescription: sarifMessage{Text: "Class file on the classpath cannot be decoded"}},
	}

	sarifResults := []sarifResult{}
	for _, r := range results {
		if r.Reason == checker.ReasonEntryNotFound {
			sarifResults = append(sarifResults, sarifResult{
				RuleID:  ruleNotFound,
				Level:   "error",
				Message: sarifMessage{Text: fmt.Sprintf("Entry point %s not found in the provided containers", r.Entry)},
			})
			continue
		}
		for _, m := range r.Missing {
			referrer := r.Entry
			if path := r.MissingPaths[m]; len(path) > 1 {
				referrer = path[len(path)-2]
			}
			sarifResults = append(sarifResults, sarifResult{
				RuleID:    ruleMissing,
				Level:     "error",
				Message:   sarifMessage{Text: fmt.Sprintf("%s requires %s, which is not on the classpath (entry point %s)", referrer, m, r.Entry)},
				Locations: classLocation(referrer),
			})
		}
		names := make([]string, 0, len(r.Undecodable))
		for n := range r.Undecodable {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			sarifResults = append(sarifResults, sarifResult{
				RuleID:    ruleUndecodable,
				Level:     "warning",
				Message:   sarifMessage{Text: fmt.Sprintf("%s cannot be decoded: %s", n, r.Undecodable[n])},
				Locations: classLocation(n),
			})
		}
	}

	out := sarifOutput{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "jarcheck",
						Version:        version,
						InformationURI: "https://github.com/1homsi/jarcheck",
						Rules:          rules,
					},
				},
				AutomationDetails: sarifAutomationDetails{GUID: uuid.NewString()},
				Results:           sarifResults,
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
