package harness

import (
	"regexp"
	"strings"
)

// LineKind classifies one execution log line.
type LineKind int

const (
	LineOther LineKind = iota
	LineInvoke
	LineProgramLog
	LineProgramData
	LineComputeSummary
	LineProgramSuccess
	LineProgramFailed
)

// LogLine is one classified line.
type LogLine struct {
	Kind    LineKind
	Program string // base58 program id for program-scoped lines
	Text    string // raw line
	Payload string // log message, base64 event data or failure reason
	Units   uint64
	Budget  uint64
}

// LogScan is the result of a single classification pass over an outcome's
// log stream, in log order.
type LogScan struct {
	Lines []LogLine

	// ComputeUnits sums the top-level compute summaries.
	ComputeUnits      uint64
	HasComputeSummary bool

	// AnchorError holds the decoded AnchorError diagnostic line, if any.
	AnchorError *AnchorErrorInfo
}

// AnchorErrorInfo is the structured content of Anchor's error diagnostic
// log line.
type AnchorErrorInfo struct {
	Name    string
	Code    uint32
	Message string
}

var (
	invokeRe      = regexp.MustCompile(`^Program (\S+) invoke \[(\d+)\]$`)
	consumedRe    = regexp.MustCompile(`^Program (\S+) consumed (\d+) of (\d+) compute units$`)
	successRe     = regexp.MustCompile(`^Program (\S+) success$`)
	failedRe      = regexp.MustCompile(`^Program (\S+) failed: (.*)$`)
	anchorErrRe   = regexp.MustCompile(`AnchorError (?:occurred|thrown|caused)[^.]*\. Error Code: (\w+)\. Error Number: (\d+)\. Error Message: (.*)\.$`)
	customCodeRe  = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)
	logPrefix     = "Program log: "
	dataPrefix    = "Program data: "
)

// ScanLogs classifies every line exactly once. Classification is
// deterministic: each line matches the first applicable rule.
func ScanLogs(logs []string) *LogScan {
	scan := &LogScan{Lines: make([]LogLine, 0, len(logs))}

	for _, raw := range logs {
		line := LogLine{Kind: LineOther, Text: raw}

		switch {
		case strings.HasPrefix(raw, logPrefix):
			line.Kind = LineProgramLog
			line.Payload = strings.TrimPrefix(raw, logPrefix)
			if m := anchorErrRe.FindStringSubmatch(line.Payload); m != nil && scan.AnchorError == nil {
				scan.AnchorError = &AnchorErrorInfo{
					Name:    m[1],
					Code:    parseUint32(m[2]),
					Message: m[3],
				}
			}
		case strings.HasPrefix(raw, dataPrefix):
			line.Kind = LineProgramData
			line.Payload = strings.TrimPrefix(raw, dataPrefix)
		default:
			if m := consumedRe.FindStringSubmatch(raw); m != nil {
				line.Kind = LineComputeSummary
				line.Program = m[1]
				line.Units = parseUint64(m[2])
				line.Budget = parseUint64(m[3])
				scan.ComputeUnits += line.Units
				scan.HasComputeSummary = true
			} else if m := invokeRe.FindStringSubmatch(raw); m != nil {
				line.Kind = LineInvoke
				line.Program = m[1]
			} else if m := successRe.FindStringSubmatch(raw); m != nil {
				line.Kind = LineProgramSuccess
				line.Program = m[1]
			} else if m := failedRe.FindStringSubmatch(raw); m != nil {
				line.Kind = LineProgramFailed
				line.Program = m[1]
				line.Payload = m[2]
			}
		}

		scan.Lines = append(scan.Lines, line)
	}

	return scan
}

// EventPayloads returns the base64 payloads of every program-data line, in
// log order.
func (s *LogScan) EventPayloads() []string {
	var payloads []string
	for _, line := range s.Lines {
		if line.Kind == LineProgramData {
			payloads = append(payloads, line.Payload)
		}
	}
	return payloads
}

// FailureReason returns the first program-failed payload, if any.
func (s *LogScan) FailureReason() (string, bool) {
	for _, line := range s.Lines {
		if line.Kind == LineProgramFailed {
			return line.Payload, true
		}
	}
	return "", false
}

func parseUint64(s string) uint64 {
	var v uint64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		v = v*10 + uint64(c-'0')
	}
	return v
}

func parseUint32(s string) uint32 {
	return uint32(parseUint64(s))
}
