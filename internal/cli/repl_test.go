package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string
}

func (f *fakeExec) record(name string, args ...string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args...)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) RegisterParty(ctx context.Context) error {
	return f.record("register-party")
}
func (f *fakeExec) Join(ctx context.Context) error { return f.record("join") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Folders(ctx context.Context) error { return f.record("folders") }
func (f *fakeExec) SelectFolder(ctx context.Context, name string) error {
	return f.record("select", name)
}
func (f *fakeExec) AddFolder(ctx context.Context, name string) error {
	return f.record("folder-add", name)
}
func (f *fakeExec) RenameFolder(ctx context.Context) error { return f.record("folder-rename") }
func (f *fakeExec) DeleteFolder(ctx context.Context, name string) error {
	return f.record("folder-delete", name)
}
func (f *fakeExec) List(ctx context.Context) error { return f.record("list") }
func (f *fakeExec) Post(ctx context.Context) error { return f.record("post") }
func (f *fakeExec) Edit(ctx context.Context, ref string) error {
	return f.record("edit", ref)
}
func (f *fakeExec) Delete(ctx context.Context, ref string) error {
	return f.record("delete", ref)
}
func (f *fakeExec) Pin(ctx context.Context, ref string) error {
	return f.record("pin", ref)
}
func (f *fakeExec) Visit(ctx context.Context, ref, slot string) error {
	return f.record("visit", ref, slot)
}
func (f *fakeExec) Follow(ctx context.Context, ref string) error {
	return f.record("follow", ref)
}
func (f *fakeExec) Unfollow(ctx context.Context, ref string) error {
	return f.record("unfollow", ref)
}
func (f *fakeExec) Notifications(ctx context.Context) error { return f.record("notifications") }
func (f *fakeExec) ReadNotification(ctx context.Context, ref string) error {
	return f.record("read", ref)
}
func (f *fakeExec) Board(ctx context.Context) error { return f.record("board") }
func (f *fakeExec) Timezone(ctx context.Context, tz string) error {
	return f.record("timezone", tz)
}
func (f *fakeExec) Instruct(ctx context.Context) error { return f.record("instruct") }
func (f *fakeExec) DeleteParty(ctx context.Context, id string) error {
	return f.record("delete-party", id)
}
func (f *fakeExec) DeleteUser(ctx context.Context, id string) error {
	return f.record("delete-user", id)
}
func (f *fakeExec) Pause(ctx context.Context) error  { return f.record("pause") }
func (f *fakeExec) Resume(ctx context.Context) error { return f.record("resume") }
func (f *fakeExec) Status(ctx context.Context) error { return f.record("status") }

func muteOutput(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	muteOutput(t)

	input := strings.Join([]string{
		"login",
		"folders",
		"folder-add Projects",
		"select General",
		"list",
		"visit 2 1",
		"follow 2",
		"unfollow 2",
		"notifications",
		"read 1",
		"board",
		"timezone Europe/Riga",
		"logout",
		"exit",
	}, "\n")

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(strings.NewReader(input)))

	require.Equal(t, []string{
		"login", "folders", "folder-add", "select", "list", "visit", "follow", "unfollow",
		"notifications", "read", "board", "timezone", "logout",
	}, f.calls)
	require.Contains(t, f.args, "General")
	require.Contains(t, f.args, "Europe/Riga")
}

func TestRunREPL_UnknownAndEmptyLines(t *testing.T) {
	muteOutput(t)

	input := "\nnothere\nexit\n"
	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(strings.NewReader(input)))

	require.Empty(t, f.calls)
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	muteOutput(t)

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(strings.NewReader("list\n")))

	require.Equal(t, []string{"list"}, f.calls)
}
