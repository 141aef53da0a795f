package harness

import (
	"strings"
	"testing"

	"github.com/brimigs/anchor-litesvm/pkg/anchor"
	"github.com/brimigs/anchor-litesvm/pkg/idl"
	"github.com/gagliardetto/solana-go"
)

// Assertion helpers convert analysis failures into immediate, descriptive
// test failures with the relevant expected-vs-actual values and the full
// log stream.

// AssertSuccess fails the test when the execution did not succeed.
func (r *Result) AssertSuccess(t testing.TB) *Result {
	t.Helper()
	if !r.Success() {
		t.Fatalf("transaction failed: %v\nLogs:\n%s", r.RawError(), strings.Join(r.Logs(), "\n"))
	}
	return r
}

// AssertFailure fails the test when the execution unexpectedly succeeded.
func (r *Result) AssertFailure(t testing.TB) *Result {
	t.Helper()
	if r.Success() {
		t.Fatalf("expected transaction to fail, but it succeeded\nLogs:\n%s", strings.Join(r.Logs(), "\n"))
	}
	return r
}

// AssertErrorCode fails unless the execution failed with the given numeric
// code, whatever tier it resolves to.
func (r *Result) AssertErrorCode(t testing.TB, spec *idl.Idl, code uint32) *Result {
	t.Helper()
	r.AssertFailure(t)
	resolved := r.ResolveError(spec)
	if !resolved.HasCode {
		t.Fatalf("expected error code %d, but failure carries no code (tier %d): %s\nLogs:\n%s",
			code, resolved.Tier, resolved.Message, strings.Join(r.Logs(), "\n"))
	}
	if resolved.Code != code {
		t.Fatalf("error code mismatch: expected %d, got %d (%s)\nLogs:\n%s",
			code, resolved.Code, resolved.Name, strings.Join(r.Logs(), "\n"))
	}
	return r
}

// AssertAnchorError fails unless the execution failed with the named
// error. The name is resolved to its numeric code (framework table first,
// then the program's IDL error table) and compared against the resolved
// code of the outcome, so a named assertion and its numeric twin succeed or
// fail together even when the raw log text differs.
func (r *Result) AssertAnchorError(t testing.TB, spec *idl.Idl, name string) *Result {
	t.Helper()
	r.AssertFailure(t)

	expected, ok := anchorCodeForName(spec, name)
	resolved := r.ResolveError(spec)
	if ok && resolved.HasCode {
		if resolved.Code != expected {
			t.Fatalf("anchor error mismatch: expected %s (%d), got code %d (%s)\nLogs:\n%s",
				name, expected, resolved.Code, resolved.Name, strings.Join(r.Logs(), "\n"))
		}
		return r
	}

	// no numeric resolution on either side; fall back to the name itself
	if resolved.Name != name && !r.HasLog(name) {
		t.Fatalf("expected anchor error %q, got %q (%s)\nLogs:\n%s",
			name, resolved.Name, resolved.Message, strings.Join(r.Logs(), "\n"))
	}
	return r
}

// AssertLog fails unless some log line contains the substring.
func (r *Result) AssertLog(t testing.TB, substr string) *Result {
	t.Helper()
	if !r.HasLog(substr) {
		t.Fatalf("expected log containing %q\nLogs:\n%s", substr, strings.Join(r.Logs(), "\n"))
	}
	return r
}

// AssertEventEmitted fails unless at least one event with the named type's
// discriminator was emitted.
func (r *Result) AssertEventEmitted(t testing.TB, name string) *Result {
	t.Helper()
	if !r.HasEvent(name) {
		t.Fatalf("expected at least one %q event\nLogs:\n%s", name, strings.Join(r.Logs(), "\n"))
	}
	return r
}

func anchorCodeForName(spec *idl.Idl, name string) (uint32, bool) {
	if code, ok := anchor.ErrorCodeByName(name); ok {
		return code, true
	}
	if spec != nil {
		if def, ok := spec.ErrorByName(name); ok {
			return def.Code, true
		}
	}
	return 0, false
}

// AssertAccountExists fails unless an account lives at the address.
func (c *Context) AssertAccountExists(t testing.TB, address solana.PublicKey) {
	t.Helper()
	if !c.AccountExists(address) {
		t.Fatalf("expected account %s to exist", address)
	}
}

// AssertAccountClosed fails unless the address holds no live account.
func (c *Context) AssertAccountClosed(t testing.TB, address solana.PublicKey) {
	t.Helper()
	acct, ok := c.Ledger.GetAccount(address)
	if ok && (acct.Lamports != 0 || len(acct.Data) != 0) {
		t.Fatalf("expected account %s to be closed, but it has %d lamports and %d bytes of data",
			address, acct.Lamports, len(acct.Data))
	}
}

// AssertBalance fails unless the address holds exactly the expected
// lamports.
func (c *Context) AssertBalance(t testing.TB, address solana.PublicKey, expected uint64) {
	t.Helper()
	actual := c.Balance(address)
	if actual != expected {
		t.Fatalf("balance mismatch for %s: expected %d, got %d", address, expected, actual)
	}
}

// AssertAccountOwner fails unless the account is owned by the expected
// program.
func (c *Context) AssertAccountOwner(t testing.TB, address solana.PublicKey, owner solana.PublicKey) {
	t.Helper()
	acct, ok := c.Ledger.GetAccount(address)
	if !ok {
		t.Fatalf("account %s not found", address)
	}
	if acct.Owner != owner {
		t.Fatalf("owner mismatch for %s: expected %s, got %s", address, owner, acct.Owner)
	}
}

// AssertDataLen fails unless the account data has the expected length.
func (c *Context) AssertDataLen(t testing.TB, address solana.PublicKey, expected int) {
	t.Helper()
	acct, ok := c.Ledger.GetAccount(address)
	if !ok {
		t.Fatalf("account %s not found", address)
	}
	if len(acct.Data) != expected {
		t.Fatalf("data length mismatch for %s: expected %d, got %d", address, expected, len(acct.Data))
	}
}
