package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Register(ctx context.Context) error    { return f.record("register", nil) }
func (f *fakeExec) WalletLogin(ctx context.Context) error { return f.record("wallet-login", nil) }
func (f *fakeExec) ForgotPassword(ctx context.Context) error {
	return f.record("forgot-password", nil)
}
func (f *fakeExec) ResetPassword(ctx context.Context) error { return f.record("reset-password", nil) }
func (f *fakeExec) List(ctx context.Context, args []string) error {
	return f.record("list", args)
}
func (f *fakeExec) Show(ctx context.Context, args []string) error {
	return f.record("show", args)
}
func (f *fakeExec) Create(ctx context.Context) error { return f.record("create", nil) }
func (f *fakeExec) Release(ctx context.Context, args []string) error {
	return f.record("release", args)
}
func (f *fakeExec) Refund(ctx context.Context, args []string) error {
	return f.record("refund", args)
}
func (f *fakeExec) Dispute(ctx context.Context, args []string) error {
	return f.record("dispute", args)
}
func (f *fakeExec) SubmitProof(ctx context.Context, args []string) error {
	return f.record("submit-proof", args)
}
func (f *fakeExec) ConfirmReceipt(ctx context.Context, args []string) error {
	return f.record("confirm-receipt", args)
}
func (f *fakeExec) ResubmitReceipt(ctx context.Context, args []string) error {
	return f.record("resubmit-receipt", args)
}
func (f *fakeExec) Users(ctx context.Context, args []string) error {
	return f.record("users", args)
}
func (f *fakeExec) Suggestions(ctx context.Context) error   { return f.record("suggestions", nil) }
func (f *fakeExec) Profile(ctx context.Context) error       { return f.record("profile", nil) }
func (f *fakeExec) UpdateProfile(ctx context.Context) error { return f.record("update-profile", nil) }
func (f *fakeExec) Whoami(ctx context.Context) error        { return f.record("whoami", nil) }
func (f *fakeExec) Connect(ctx context.Context) error       { return f.record("connect", nil) }
func (f *fakeExec) SwitchChain(ctx context.Context, args []string) error {
	return f.record("switch-chain", args)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}

func runScript(t *testing.T, exec *fakeExec, lines ...string) {
	t.Helper()

	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, sc)
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	exec := &fakeExec{}
	runScript(t, exec,
		"help",
		"login",
		"help",
		"list funded 2",
		"show 7",
		"confirm-receipt 7",
		"foobar",
		"exit",
	)

	wantOrder := []string{"login", "list", "show", "confirm-receipt"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_ArgumentsArePassed(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runScript(t, exec,
		"release 42",
		"resubmit-receipt 7 0xfeed",
		"quit",
	)

	if len(exec.calls) != 2 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	if got := exec.args[0]; len(got) != 1 || got[0] != "42" {
		t.Fatalf("release args: %v", got)
	}
	if got := exec.args[1]; len(got) != 2 || got[0] != "7" || got[1] != "0xfeed" {
		t.Fatalf("resubmit args: %v", got)
	}
}

func TestRunREPL_EmptyLinesAndQuit(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runScript(t, exec, "", "   ", "quit")

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_ShortListAlias(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runScript(t, exec, "l", "exit")

	if len(exec.calls) != 1 || exec.calls[0] != "list" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
