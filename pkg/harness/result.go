package harness

import (
	"errors"
	"strconv"
	"strings"

	"github.com/brimigs/anchor-litesvm/pkg/anchor"
	"github.com/brimigs/anchor-litesvm/pkg/idl"
	"github.com/brimigs/anchor-litesvm/pkg/ledger"
)

// ErrorTier distinguishes how much structure a failure carries.
type ErrorTier int

const (
	// TierNone: the execution succeeded.
	TierNone ErrorTier = iota
	// TierLedger: generic ledger-level failure with no numeric code.
	TierLedger
	// TierFramework: numeric code inside Anchor's reserved range, usually
	// with a resolvable name.
	TierFramework
	// TierCustom: program-defined code at or above the reserved range.
	TierCustom
)

// ExecError is the resolved classification of a failed outcome.
type ExecError struct {
	Tier    ErrorTier
	Code    uint32
	HasCode bool
	Name    string
	Message string
}

// Result is the analyzed view over one execution outcome. The outcome is
// an immutable snapshot; all analysis is derived from it once.
type Result struct {
	outcome *ledger.Outcome
	scan    *LogScan
	label   string
}

// NewResult wraps a raw outcome for analysis. The label names the
// originating instruction for diagnostics and may be empty.
func NewResult(outcome *ledger.Outcome, label string) *Result {
	return &Result{
		outcome: outcome,
		scan:    ScanLogs(outcome.Logs),
		label:   label,
	}
}

func (r *Result) Success() bool {
	return r.outcome.Success
}

func (r *Result) Logs() []string {
	return r.outcome.Logs
}

// RawError returns the unclassified execution error, nil on success.
func (r *Result) RawError() error {
	return r.outcome.Err
}

func (r *Result) Label() string {
	return r.label
}

// Scan exposes the classified log lines.
func (r *Result) Scan() *LogScan {
	return r.scan
}

// ComputeUnits reports the consumed units parsed from the compute summary
// lines. When the outcome reports units directly the two agree by
// construction of the ledger's log format.
func (r *Result) ComputeUnits() uint64 {
	if r.scan.HasComputeSummary {
		return r.scan.ComputeUnits
	}
	return r.outcome.ComputeUnits
}

// MissingComputeSummary flags a successful outcome whose log stream carried
// no compute summary line. Treated as zero units, not as a failure.
func (r *Result) MissingComputeSummary() bool {
	return r.outcome.Success && !r.scan.HasComputeSummary
}

func (r *Result) HasLog(substr string) bool {
	for _, log := range r.outcome.Logs {
		if strings.Contains(log, substr) {
			return true
		}
	}
	return false
}

// FindLog returns the first log line containing the substring.
func (r *Result) FindLog(substr string) (string, bool) {
	for _, log := range r.outcome.Logs {
		if strings.Contains(log, substr) {
			return log, true
		}
	}
	return "", false
}

// ResolveError classifies the failure into its tier. Name resolution tries
// the Anchor diagnostic line first, then the framework code table, then the
// program's own IDL error table; named and numeric views always agree on
// the resolved code. Returns nil on success.
func (r *Result) ResolveError(spec *idl.Idl) *ExecError {
	if r.outcome.Success {
		return nil
	}

	resolved := &ExecError{Tier: TierLedger}
	if r.outcome.Err != nil {
		resolved.Message = r.outcome.Err.Error()
	}

	var custom *ledger.CustomError
	if errors.As(r.outcome.Err, &custom) {
		resolved.Code = custom.Code
		resolved.HasCode = true
	} else if reason, ok := r.scan.FailureReason(); ok {
		if m := customCodeRe.FindStringSubmatch(reason); m != nil {
			code, err := strconv.ParseUint(m[1], 16, 32)
			if err == nil {
				resolved.Code = uint32(code)
				resolved.HasCode = true
			}
		}
	}

	if info := r.scan.AnchorError; info != nil {
		if !resolved.HasCode {
			resolved.Code = info.Code
			resolved.HasCode = true
		}
		resolved.Name = info.Name
		resolved.Message = info.Message
	}

	if !resolved.HasCode {
		return resolved
	}

	if anchor.IsCustomError(resolved.Code) {
		resolved.Tier = TierCustom
		if resolved.Name == "" && spec != nil {
			if def, ok := spec.ErrorByCode(resolved.Code); ok {
				resolved.Name = def.Name
				resolved.Message = def.Msg
			}
		}
	} else {
		resolved.Tier = TierFramework
		if resolved.Name == "" {
			if name, ok := anchor.ErrorName(resolved.Code); ok {
				resolved.Name = name
			}
		}
	}

	return resolved
}
