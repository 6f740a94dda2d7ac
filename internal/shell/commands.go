// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/vosh/internal/app"
	"github.com/MKhiriev/vosh/internal/fault"
	"github.com/MKhiriev/vosh/internal/policy"
	"github.com/MKhiriev/vosh/internal/vfs"
)

// command describes one dispatchable shell command. Arg counts are checked
// before the handler runs; policyKey and adminOnly gate access.
type command struct {
	name      string
	aliases   []string
	usage     string
	minArgs   int
	maxArgs   int
	policyKey string
	adminOnly bool
	run       func(ctx context.Context, s *Shell, args []string) error
}

// commandTable lists every command in help order. Alias sets mirror the
// historical command names so old habits keep working.
func commandTable() []*command {
	return []*command{
		{name: "help", usage: "help", run: cmdHelp},
		{name: "dir", aliases: []string{"ls"}, usage: "dir [path]", maxArgs: 1, policyKey: policy.KeyRead, run: cmdDir},
		{name: "tree", usage: "tree [path]", maxArgs: 1, policyKey: policy.KeyRead, run: cmdTree},
		{name: "cd", usage: "cd [path]", maxArgs: 1, policyKey: policy.KeyRead, run: cmdCd},
		{name: "cd..", usage: "cd..", policyKey: policy.KeyRead, run: cmdCdUp},
		{name: "home", usage: "home", policyKey: policy.KeyRead, run: cmdHome},
		{name: "mkdir", usage: "mkdir <name>", minArgs: 1, maxArgs: 1, policyKey: policy.KeyFileMgmt, run: cmdMkdir},
		{name: "copy", aliases: []string{"cp"}, usage: "copy <src> <dst>", minArgs: 2, maxArgs: 2, policyKey: policy.KeyFileMgmt, run: cmdCopy},
		{name: "move", aliases: []string{"mov", "mv", "cut"}, usage: "move <src> <dst>", minArgs: 2, maxArgs: 2, policyKey: policy.KeyUpdate, run: cmdMove},
		{name: "rename", aliases: []string{"ren"}, usage: "rename <old> <new>", minArgs: 2, maxArgs: 2, policyKey: policy.KeyUpdate, run: cmdRename},
		{name: "delete", aliases: []string{"del", "rm"}, usage: "delete <path>", minArgs: 1, maxArgs: 1, policyKey: policy.KeyFileMgmt, run: cmdDelete},
		{name: "zip", usage: "zip <src> <archive>", minArgs: 2, maxArgs: 2, policyKey: policy.KeyFileMgmt, run: cmdZip},
		{name: "unzip", usage: "unzip <archive> <dir>", minArgs: 2, maxArgs: 2, policyKey: policy.KeyFileMgmt, run: cmdUnzip},
		{name: "script", usage: "script <file>", minArgs: 1, maxArgs: 1, policyKey: policy.KeyScript, run: cmdScript},
		{name: "usermgmt", usage: "usermgmt <create|modify|delete>", minArgs: 1, maxArgs: 1, run: cmdUsermgmt},
		{name: "promote", usage: "promote <username>", minArgs: 1, maxArgs: 1, adminOnly: true, run: cmdPromote},
		{name: "demote", usage: "demote <username>", minArgs: 1, maxArgs: 1, adminOnly: true, run: cmdDemote},
		{name: "userinfo", usage: "userinfo <username>", minArgs: 1, maxArgs: 1, adminOnly: true, run: cmdUserinfo},
		{name: "users", usage: "users", adminOnly: true, run: cmdUsers},
		{name: "policy", usage: "policy <key> [on|off] | policy reset", minArgs: 1, maxArgs: 2, policyKey: policy.KeyPolicy, run: cmdPolicy},
		{name: "modinfo", usage: "modinfo", policyKey: policy.KeyModule, run: cmdModinfo},
		{name: "lock", usage: "lock", run: cmdLock},
		{name: "refresh", usage: "refresh", policyKey: policy.KeyAuth, run: cmdRefresh},
		{name: "logout", usage: "logout", run: cmdLogout},
		{name: "exit", aliases: []string{"quit"}, usage: "exit", run: cmdExit},
	}
}

func cmdHelp(_ context.Context, s *Shell, _ []string) error {
	s.println(styleHeader.Render("Commands"))
	for _, cmd := range s.order {
		line := "  " + cmd.usage
		if len(cmd.aliases) > 0 {
			line += "  (also: " + strings.Join(cmd.aliases, ", ") + ")"
		}
		s.println(line)
	}
	return nil
}

func cmdDir(ctx context.Context, s *Shell, args []string) error {
	entries, err := s.files.List(ctx, s.session.CurrentDir(), optionalArg(args))
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.IsDir {
			s.println(fmt.Sprintf("%12s  %s", "<DIR>", styleDir.Render(e.Name)))
			continue
		}
		s.println(fmt.Sprintf("%12d  %s  %s", e.Size, shortDigest(e.Digest), e.Name))
	}
	s.println(fmt.Sprintf("%d entries", len(entries)))
	return nil
}

func cmdTree(ctx context.Context, s *Shell, args []string) error {
	lines, err := s.files.Tree(ctx, s.session.CurrentDir(), optionalArg(args))
	if err != nil {
		return err
	}
	for _, line := range lines {
		s.println(line)
	}
	return nil
}

func cmdCd(ctx context.Context, s *Shell, args []string) error {
	dir, err := s.files.ChangeDirectory(ctx, s.session.CurrentDir(), optionalArg(args))
	// Even a denied change reports a directory to land in, so the session
	// never dangles outside the jail.
	s.session.SetCurrentDir(dir)
	return err
}

// cmdCdUp is the joined spelling of "cd ..".
func cmdCdUp(ctx context.Context, s *Shell, _ []string) error {
	dir, err := s.files.ChangeDirectory(ctx, s.session.CurrentDir(), "..")
	s.session.SetCurrentDir(dir)
	return err
}

func cmdHome(_ context.Context, s *Shell, _ []string) error {
	s.session.SetCurrentDir(s.files.Home())
	return nil
}

func cmdMkdir(ctx context.Context, s *Shell, args []string) error {
	return s.files.MakeDirectory(ctx, s.session.CurrentDir(), args[0])
}

func cmdCopy(ctx context.Context, s *Shell, args []string) error {
	results, err := s.files.Copy(ctx, s.session.CurrentDir(), args[0], args[1])
	if err != nil {
		return err
	}
	s.reportResults(results)
	return nil
}

func cmdMove(ctx context.Context, s *Shell, args []string) error {
	results, err := s.files.Move(ctx, s.session.CurrentDir(), args[0], args[1])
	s.reportResults(results)
	return err
}

func cmdRename(ctx context.Context, s *Shell, args []string) error {
	return s.files.Rename(ctx, s.session.CurrentDir(), args[0], args[1])
}

func cmdDelete(ctx context.Context, s *Shell, args []string) error {
	results, err := s.files.Delete(ctx, s.session.CurrentDir(), args[0])
	s.reportResults(results)
	return err
}

func cmdZip(ctx context.Context, s *Shell, args []string) error {
	return s.files.Zip(ctx, s.session.CurrentDir(), args[0], args[1])
}

func cmdUnzip(ctx context.Context, s *Shell, args []string) error {
	return s.files.Unzip(ctx, s.session.CurrentDir(), args[0], args[1])
}

func cmdScript(ctx context.Context, s *Shell, args []string) error {
	return s.runScript(ctx, args[0])
}

// cmdUsermgmt fans out to the account lifecycle operations. The policy gate
// depends on the subcommand, so it is checked here rather than in dispatch.
func cmdUsermgmt(ctx context.Context, s *Shell, args []string) error {
	var key string
	switch strings.ToLower(args[0]) {
	case "create":
		key = policy.KeyAccountCreate
	case "modify":
		key = policy.KeyAccountModify
	case "delete":
		key = policy.KeyAccountDelete
	default:
		return fault.Newf(fault.Validation, "%w: usage: usermgmt <create|modify|delete>", ErrBadUsage)
	}

	if !s.policy.Allowed(key, s.session.IsAdmin()) {
		s.logger.Info().Str("func", "cmdUsermgmt").Str("key", key).Msg("denied by policy")
		return fault.New(fault.Authorization, app.MsgAccessDenied)
	}

	switch key {
	case policy.KeyAccountCreate:
		return s.accounts.Create(ctx, s.actor(), s.col)
	case policy.KeyAccountModify:
		return s.accounts.Modify(ctx, s.actor(), s.col)
	default:
		return s.accounts.Delete(ctx, s.actor(), s.col)
	}
}

func cmdPromote(ctx context.Context, s *Shell, args []string) error {
	if err := s.accounts.Promote(ctx, s.actor(), args[0]); err != nil {
		return err
	}
	s.println(fmt.Sprintf("%s now has administrator privileges", args[0]))
	return nil
}

func cmdDemote(ctx context.Context, s *Shell, args []string) error {
	if err := s.accounts.Demote(ctx, s.actor(), args[0]); err != nil {
		return err
	}
	s.println(fmt.Sprintf("%s no longer has administrator privileges", args[0]))
	return nil
}

func cmdUserinfo(ctx context.Context, s *Shell, args []string) error {
	rec, err := s.accounts.Inspect(ctx, s.actor(), args[0])
	if err != nil {
		return err
	}

	s.println("name:         " + rec.DisplayName)
	s.println("privileges:   " + rec.Privileges())
	s.println("security key: " + yesNo(rec.HashedSecurityKey != ""))
	s.println("record key:   " + shortDigest(rec.HashedUsername))
	return nil
}

func cmdUsers(ctx context.Context, s *Shell, _ []string) error {
	records, err := s.users.ListUsers(ctx)
	if err != nil {
		return fault.Wrap(fault.Resource, err)
	}

	s.println(styleHeader.Render(fmt.Sprintf("%-20s %s", "NAME", "PRIVILEGES")))
	for _, rec := range records {
		s.println(fmt.Sprintf("%-20s %s", rec.DisplayName, rec.Privileges()))
	}
	return nil
}

func cmdPolicy(_ context.Context, s *Shell, args []string) error {
	if len(args) == 1 {
		if args[0] == "reset" {
			if err := s.policy.Reset(); err != nil {
				return fault.Wrap(fault.Resource, err)
			}
			s.println("policy store reset to defaults")
			return nil
		}
		s.println(fmt.Sprintf("%s = %s", args[0], s.policy.Get(args[0])))
		return nil
	}

	value := strings.ToLower(args[1])
	if value != policy.ValueOn && value != policy.ValueOff {
		return fault.Newf(fault.Validation, "%w: policy values are %q and %q", ErrBadUsage, policy.ValueOn, policy.ValueOff)
	}
	if err := s.policy.Set(args[0], value); err != nil {
		return fault.Wrap(fault.Resource, err)
	}
	s.println(fmt.Sprintf("%s = %s", args[0], value))
	return nil
}

func cmdModinfo(_ context.Context, s *Shell, _ []string) error {
	s.println("system:  " + s.policy.SystemName())
	s.println("version: " + s.build.BuildVersion())
	s.println("date:    " + s.build.BuildDate())
	s.println("commit:  " + s.build.BuildCommit())
	return nil
}

// cmdLock blanks the session until the unlock PIN cached at login is
// re-entered. EOF ends the process instead of bypassing the lock.
func cmdLock(_ context.Context, s *Shell, _ []string) error {
	s.println(styleNotice.Render("locked"))
	for {
		pin, err := s.col.Secret("PIN: ")
		if err != nil {
			return errQuit
		}
		if s.auth.ChallengePIN(pin, s.session.UnlockPIN()) {
			return nil
		}
		s.printError(fault.New(fault.Authentication, app.MsgInvalidCredentials))
	}
}

func cmdRefresh(_ context.Context, _ *Shell, _ []string) error {
	return errRestart
}

func cmdLogout(_ context.Context, _ *Shell, _ []string) error {
	return errLogout
}

func cmdExit(_ context.Context, _ *Shell, _ []string) error {
	return errQuit
}

// reportResults prints the per-entry outcome of a bulk file operation.
func (s *Shell) reportResults(results []vfs.EntryResult) {
	failed := 0
	for _, r := range results {
		if !r.Ok() {
			failed++
			s.println(styleError.Render(fmt.Sprintf("failed: %s: %v", r.Path, r.Err)))
		}
	}
	s.println(fmt.Sprintf("%d entries processed, %d failed", len(results), failed))
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func shortDigest(digest string) string {
	if len(digest) <= 16 {
		return digest
	}
	return digest[:16]
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
