// Package gate implements the go/no-go pre-trade risk gate. It evaluates a
// set of named checks against a trading-mode-aware policy and produces an
// aggregate PASS/FAIL verdict. Evaluation is a pure function over its inputs:
// the gate reads nothing and mutates nothing.
package gate

import (
	"fmt"
	"strings"
	"time"

	"github.com/hmasato/trader/internal/core"
)

// Verdict is the outcome of a single gate check.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
	VerdictSkip Verdict = "SKIP"
)

// CheckRiskGuard is the name of the built-in risk guard check. Extra checks
// supplied by the caller must not reuse it.
const CheckRiskGuard = "risk_guard"

// CheckResult is a named check with its verdict and an optional message.
type CheckResult struct {
	Name    string  `json:"name"`
	Verdict Verdict `json:"verdict"`
	Message string  `json:"message,omitempty"`
}

// SummaryReading is the risk_guard field extracted from the most recent live
// summary. A nil *SummaryReading means the summary itself was missing.
type SummaryReading struct {
	// Field is the raw risk_guard value as found in the summary.
	Field string
	// Present reports whether a risk_guard line existed at all.
	Present bool
}

// Report is the result of one gate evaluation: the ordered checks, the
// aggregate verdict, and when the evaluation happened.
type Report struct {
	Mode        core.Mode     `json:"mode"`
	Checks      []CheckResult `json:"checks"`
	Aggregate   Verdict       `json:"aggregate"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
}

// Allowed reports whether trading may proceed.
func (r Report) Allowed() bool { return r.Aggregate == VerdictPass }

// ParseSummary extracts the risk_guard reading from live summary text.
// The summary format is line-oriented; the reading comes from the first line
// of the form "risk_guard: <value>".
func ParseSummary(text string) SummaryReading {
	for _, line := range strings.Split(text, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), CheckRiskGuard+":")
		if !ok {
			continue
		}
		return SummaryReading{Field: strings.TrimSpace(rest), Present: true}
	}
	return SummaryReading{}
}

// Evaluate runs the mode-aware policy over the risk guard reading and any
// caller-supplied extra checks. It never fails: missing or unparseable
// readings resolve to the most conservative verdict the policy allows.
//
// Paper mode trades no capital, so an absent or inconclusive risk guard does
// not block a dry run; an explicit FAIL still does. Testnet and live require
// an explicit PASS, and any ambiguity fails. Only the risk guard check gets
// the paper leniency: extra checks aggregate strictly in every mode.
func Evaluate(mode core.Mode, riskGuard *SummaryReading, extra []CheckResult) Report {
	checks := make([]CheckResult, 0, len(extra)+1)
	checks = append(checks, riskGuardCheck(mode, riskGuard))
	checks = append(checks, extra...)

	aggregate := VerdictPass
	for _, c := range checks {
		if c.Verdict == VerdictFail {
			aggregate = VerdictFail
			break
		}
	}

	return Report{
		Mode:        mode,
		Checks:      checks,
		Aggregate:   aggregate,
		EvaluatedAt: time.Now().UTC(),
	}
}

func riskGuardCheck(mode core.Mode, reading *SummaryReading) CheckResult {
	check := CheckResult{Name: CheckRiskGuard}

	var field string
	present := reading != nil && reading.Present
	if present {
		field = strings.ToUpper(strings.TrimSpace(reading.Field))
	}

	if mode == core.ModePaper {
		// Paper mode blocks only on an explicit FAIL.
		if field == string(VerdictFail) {
			check.Verdict = VerdictFail
			check.Message = "risk guard reported FAIL"
			return check
		}
		check.Verdict = VerdictPass
		switch {
		case reading == nil:
			check.Message = "no live summary; paper mode proceeds"
		case !present:
			check.Message = "risk_guard absent from summary; paper mode proceeds"
		}
		return check
	}

	// Testnet and live require an affirmative PASS.
	if field == string(VerdictPass) {
		check.Verdict = VerdictPass
		return check
	}
	check.Verdict = VerdictFail
	switch {
	case reading == nil:
		check.Message = fmt.Sprintf("no live summary; %s mode requires an explicit PASS", mode)
	case !present:
		check.Message = fmt.Sprintf("risk_guard absent from summary; %s mode requires an explicit PASS", mode)
	default:
		check.Message = fmt.Sprintf("risk guard reported %q; %s mode requires an explicit PASS", reading.Field, mode)
	}
	return check
}
