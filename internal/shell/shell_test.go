package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/vosh/internal/app"
	"github.com/MKhiriev/vosh/internal/config"
	"github.com/MKhiriev/vosh/internal/crypto"
	"github.com/MKhiriev/vosh/internal/logger"
	"github.com/MKhiriev/vosh/internal/mock"
	"github.com/MKhiriev/vosh/internal/policy"
	"github.com/MKhiriev/vosh/internal/service"
	"github.com/MKhiriev/vosh/internal/session"
	"github.com/MKhiriev/vosh/models"
)

// replayCollector feeds canned answers to the shell. Text answers double as
// command lines; running out of answers reads as a closed console, which
// ends the run.
type replayCollector struct {
	texts   []string
	secrets []string
	answers []bool
	out     *bytes.Buffer
}

func (c *replayCollector) Text(prompt string) (string, error) {
	if len(c.texts) == 0 {
		return "", errors.New("replay exhausted")
	}
	v := c.texts[0]
	c.texts = c.texts[1:]
	return v, nil
}

func (c *replayCollector) Secret(prompt string) (string, error) {
	if len(c.secrets) == 0 {
		return "", errors.New("replay exhausted")
	}
	v := c.secrets[0]
	c.secrets = c.secrets[1:]
	return v, nil
}

func (c *replayCollector) Confirmed(prompt string) (string, error) {
	return c.Secret(prompt)
}

func (c *replayCollector) YesNo(prompt string) (bool, error) {
	if len(c.answers) == 0 {
		return false, errors.New("replay exhausted")
	}
	v := c.answers[0]
	c.answers = c.answers[1:]
	return v, nil
}

func (c *replayCollector) Notice(message string) {
	fmt.Fprintln(c.out, message)
}

type shellFixture struct {
	shell  *Shell
	repo   *mock.MockUserRepository
	hasher crypto.Hasher
	policy *policy.Engine
	col    *replayCollector
	out    *bytes.Buffer
	home   string
}

func newShellFixture(t *testing.T) *shellFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	hasher := crypto.NewHasher("test-passphrase")
	log := logger.Nop()

	dir := t.TempDir()
	cfg := config.StructuredConfig{
		Auth:    config.Auth{MaxAttempts: 5},
		Storage: config.Storage{Home: config.Home{Root: filepath.Join(dir, "home")}},
	}

	eng := policy.New(filepath.Join(dir, "policy.yaml"), log)
	require.NoError(t, eng.Reset())

	services := service.NewServices(repo, hasher, cfg, log)

	out := &bytes.Buffer{}
	col := &replayCollector{out: out}

	sh := New(Deps{
		Session:   session.New(),
		Auth:      services.AuthService,
		Accounts:  services.AccountService,
		Users:     repo,
		Policy:    eng,
		Hasher:    hasher,
		Collector: col,
		Out:       out,
		BuildInfo: models.NewAppBuildInfo("test", "today", "none"),
		Logger:    log,
	})

	return &shellFixture{
		shell:  sh,
		repo:   repo,
		hasher: hasher,
		policy: eng,
		col:    col,
		out:    out,
		home:   cfg.Storage.Home.Root,
	}
}

func (f *shellFixture) user(name string, admin bool) models.UserRecord {
	return models.UserRecord{
		HashedUsername: f.hasher.Digest(name),
		DisplayName:    name,
		HashedPassword: f.hasher.Digest("password123"),
		HashedPIN:      f.hasher.Digest("4321"),
		IsAdmin:        admin,
	}
}

func (f *shellFixture) expectLogin(rec models.UserRecord) {
	f.repo.EXPECT().FindUser(gomock.Any(), rec.HashedUsername).Return(rec, nil)
}

func TestShell_LoginDirExit(t *testing.T) {
	f := newShellFixture(t)
	rec := f.user("alice", false)
	f.expectLogin(rec)

	f.col.texts = []string{"alice", "mkdir notes", "dir", "exit"}
	f.col.secrets = []string{"password123", ""}

	code := f.shell.Run(context.Background())
	assert.Equal(t, app.ExitOK, code)
	assert.Contains(t, f.out.String(), "notes")
	assert.Contains(t, f.out.String(), "1 entries")

	info, err := os.Stat(filepath.Join(f.home, rec.HashedUsername, "notes"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestShell_BadLoginThenSuccess(t *testing.T) {
	f := newShellFixture(t)
	rec := f.user("alice", false)

	f.repo.EXPECT().FindUser(gomock.Any(), rec.HashedUsername).Return(rec, nil).Times(2)

	f.col.texts = []string{"alice", "alice", "exit"}
	f.col.secrets = []string{"wrong-password", "", "password123", ""}

	code := f.shell.Run(context.Background())
	assert.Equal(t, app.ExitOK, code)
	assert.Contains(t, f.out.String(), app.MsgInvalidCredentials)
}

func TestShell_UnknownCommand(t *testing.T) {
	f := newShellFixture(t)
	f.expectLogin(f.user("alice", false))

	f.col.texts = []string{"alice", "frobnicate", "exit"}
	f.col.secrets = []string{"password123", ""}

	f.shell.Run(context.Background())
	assert.Contains(t, f.out.String(), app.MsgCommandNotFound)
}

func TestShell_UsageHint(t *testing.T) {
	f := newShellFixture(t)
	f.expectLogin(f.user("alice", false))

	f.col.texts = []string{"alice", "copy only-one-arg", "exit"}
	f.col.secrets = []string{"password123", ""}

	f.shell.Run(context.Background())
	assert.Contains(t, f.out.String(), "usage: copy <src> <dst>")
}

func TestShell_AliasesDispatchSameCommand(t *testing.T) {
	f := newShellFixture(t)
	rec := f.user("alice", false)
	f.expectLogin(rec)

	f.col.texts = []string{"alice", "mkdir a", "LS", "exit"}
	f.col.secrets = []string{"password123", ""}

	f.shell.Run(context.Background())
	assert.Contains(t, f.out.String(), "1 entries")
}

func TestShell_AdminOnlyDenied(t *testing.T) {
	f := newShellFixture(t)
	f.expectLogin(f.user("alice", false))

	f.col.texts = []string{"alice", "users", "exit"}
	f.col.secrets = []string{"password123", ""}

	f.shell.Run(context.Background())
	assert.Contains(t, f.out.String(), app.MsgAdminOnly)
}

func TestShell_PolicyDeniesStandardAllowsAdmin(t *testing.T) {
	f := newShellFixture(t)
	require.NoError(t, f.policy.Set(policy.KeyFileMgmt, policy.ValueOff))

	alice := f.user("alice", false)
	f.expectLogin(alice)
	f.col.texts = []string{"alice", "mkdir blocked", "exit"}
	f.col.secrets = []string{"password123", ""}
	f.shell.Run(context.Background())
	assert.Contains(t, f.out.String(), app.MsgAccessDenied)
	_, err := os.Stat(filepath.Join(f.home, alice.HashedUsername, "blocked"))
	assert.True(t, os.IsNotExist(err))

	// Administrators bypass every policy gate.
	g := newShellFixture(t)
	require.NoError(t, g.policy.Set(policy.KeyFileMgmt, policy.ValueOff))
	root := g.user("root", true)
	g.expectLogin(root)
	g.col.texts = []string{"root", "mkdir allowed", "exit"}
	g.col.secrets = []string{"password123", ""}
	g.shell.Run(context.Background())
	_, err = os.Stat(filepath.Join(g.home, root.HashedUsername, "allowed"))
	assert.NoError(t, err)
}

func TestShell_CdEscapeForcedHome(t *testing.T) {
	f := newShellFixture(t)
	f.expectLogin(f.user("alice", false))

	f.col.texts = []string{"alice", "cd ..", "exit"}
	f.col.secrets = []string{"password123", ""}

	f.shell.Run(context.Background())
	assert.Contains(t, f.out.String(), app.MsgPathOutsideHome)
}

func TestShell_HomeAndJoinedCdUp(t *testing.T) {
	f := newShellFixture(t)
	rec := f.user("alice", false)
	f.expectLogin(rec)

	f.col.texts = []string{
		"alice",
		"mkdir notes", "cd notes",
		"mkdir inner", "cd inner",
		"cd..", "mkdir sibling",
		"home", "mkdir top",
		"exit",
	}
	f.col.secrets = []string{"password123", ""}

	code := f.shell.Run(context.Background())
	assert.Equal(t, app.ExitOK, code)
	assert.NotContains(t, f.out.String(), app.MsgCommandNotFound)

	home := filepath.Join(f.home, rec.HashedUsername)
	_, err := os.Stat(filepath.Join(home, "notes", "sibling"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, "top"))
	assert.NoError(t, err)
}

func TestShell_RefreshReturnsRestartCode(t *testing.T) {
	f := newShellFixture(t)
	f.expectLogin(f.user("root", true))

	f.col.texts = []string{"root", "refresh"}
	f.col.secrets = []string{"password123", ""}

	code := f.shell.Run(context.Background())
	assert.Equal(t, app.ExitRestart, code)
}

func TestShell_SelfDeleteReturnsCode(t *testing.T) {
	f := newShellFixture(t)
	rec := f.user("alice", false)
	f.expectLogin(rec)
	f.repo.EXPECT().FindUser(gomock.Any(), rec.HashedUsername).Return(rec, nil)
	f.repo.EXPECT().DeleteUser(gomock.Any(), rec.HashedUsername).Return(nil)

	f.col.texts = []string{"alice", "usermgmt delete"}
	f.col.secrets = []string{"password123", ""}
	f.col.answers = []bool{true}

	code := f.shell.Run(context.Background())
	assert.Equal(t, app.ExitSelfDeleted, code)

	_, err := os.Stat(filepath.Join(f.home, rec.HashedUsername))
	assert.True(t, os.IsNotExist(err))
}

func TestShell_LogoutReturnsToLogin(t *testing.T) {
	f := newShellFixture(t)
	alice := f.user("alice", false)
	bob := f.user("bob", false)
	f.expectLogin(alice)
	f.expectLogin(bob)

	f.col.texts = []string{"alice", "logout", "bob", "exit"}
	f.col.secrets = []string{"password123", "", "password123", ""}

	code := f.shell.Run(context.Background())
	assert.Equal(t, app.ExitOK, code)
}

func TestShell_LockUnlock(t *testing.T) {
	f := newShellFixture(t)
	f.expectLogin(f.user("alice", false))

	f.col.texts = []string{"alice", "lock", "exit"}
	f.col.secrets = []string{"password123", "", "0000", "4321"}

	code := f.shell.Run(context.Background())
	assert.Equal(t, app.ExitOK, code)
	assert.Contains(t, f.out.String(), "locked")
	assert.Contains(t, f.out.String(), app.MsgInvalidCredentials)
}

func TestShell_PolicyCommand(t *testing.T) {
	f := newShellFixture(t)
	f.expectLogin(f.user("root", true))

	f.col.texts = []string{"root", "policy read off", "policy read", "exit"}
	f.col.secrets = []string{"password123", ""}

	f.shell.Run(context.Background())
	assert.Contains(t, f.out.String(), "read = off")
	assert.Equal(t, policy.ValueOff, f.policy.Get(policy.KeyRead))
}

func TestShell_UnclassifiedErrorIsLoggedNotEchoed(t *testing.T) {
	f := newShellFixture(t)
	logBuf := &bytes.Buffer{}
	f.shell.logger = &logger.Logger{Logger: zerolog.New(logBuf)}

	rec := f.user("alice", false)
	f.expectLogin(rec)
	// The modify flow hits the collector after it has run dry, which surfaces
	// as a bare error with no classification.
	f.repo.EXPECT().FindUser(gomock.Any(), rec.HashedUsername).Return(rec, nil)

	f.col.texts = []string{"alice", "usermgmt modify"}
	f.col.secrets = []string{"password123", ""}

	code := f.shell.Run(context.Background())
	assert.Equal(t, app.ExitOK, code)

	assert.Contains(t, f.out.String(), app.MsgInternalError)
	assert.NotContains(t, f.out.String(), "replay exhausted")
	assert.Contains(t, logBuf.String(), "unclassified command failure")
	assert.Contains(t, logBuf.String(), "replay exhausted")
}

func TestShell_ScriptReplay(t *testing.T) {
	f := newShellFixture(t)
	rec := f.user("alice", false)
	f.expectLogin(rec)

	home := filepath.Join(f.home, rec.HashedUsername)
	require.NoError(t, os.MkdirAll(home, 0o700))
	script := "# set up working folders\nmkdir made\n\nmkdir made\n@end\nmkdir ignored\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "setup.txt"), []byte(script), 0o644))

	f.col.texts = []string{"alice", "script setup.txt", "exit"}
	f.col.secrets = []string{"password123", ""}

	code := f.shell.Run(context.Background())
	assert.Equal(t, app.ExitOK, code)

	// First mkdir ran, duplicate was reported, sentinel stopped replay.
	_, err := os.Stat(filepath.Join(home, "made"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, "ignored"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, f.out.String(), "line 4")
}

func TestShell_ScriptMissingEnd(t *testing.T) {
	f := newShellFixture(t)
	rec := f.user("alice", false)
	f.expectLogin(rec)

	home := filepath.Join(f.home, rec.HashedUsername)
	require.NoError(t, os.MkdirAll(home, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, "open.txt"), []byte("mkdir x\n"), 0o644))

	f.col.texts = []string{"alice", "script open.txt", "exit"}
	f.col.secrets = []string{"password123", ""}

	f.shell.Run(context.Background())
	assert.Contains(t, f.out.String(), ErrScriptMissingEnd.Error())
}

func TestShell_ScriptCannotNest(t *testing.T) {
	f := newShellFixture(t)
	rec := f.user("alice", false)
	f.expectLogin(rec)

	home := filepath.Join(f.home, rec.HashedUsername)
	require.NoError(t, os.MkdirAll(home, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, "outer.txt"), []byte("script inner.txt\n@end\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(home, "inner.txt"), []byte("mkdir nested\n@end\n"), 0o644))

	f.col.texts = []string{"alice", "script outer.txt", "exit"}
	f.col.secrets = []string{"password123", ""}

	f.shell.Run(context.Background())
	assert.Contains(t, f.out.String(), ErrNestedScript.Error())

	_, err := os.Stat(filepath.Join(home, "nested"))
	assert.True(t, os.IsNotExist(err))
}
