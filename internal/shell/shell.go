// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/vosh/internal/app"
	"github.com/MKhiriev/vosh/internal/crypto"
	"github.com/MKhiriev/vosh/internal/fault"
	"github.com/MKhiriev/vosh/internal/logger"
	"github.com/MKhiriev/vosh/internal/policy"
	"github.com/MKhiriev/vosh/internal/service"
	"github.com/MKhiriev/vosh/internal/session"
	"github.com/MKhiriev/vosh/internal/store"
	"github.com/MKhiriev/vosh/internal/vfs"
	"github.com/MKhiriev/vosh/models"
)

// Deps carries everything the shell needs wired in.
type Deps struct {
	Session   *session.Session
	Auth      service.AuthService
	Accounts  service.AccountService
	Users     store.UserRepository
	Policy    *policy.Engine
	Hasher    crypto.Hasher
	Collector service.Collector
	Out       io.Writer
	BuildInfo models.AppBuildInfo
	Logger    *logger.Logger
}

// Shell is the interactive command interpreter. It owns the login loop, the
// command loop and the dispatch table, and decides the process exit code.
type Shell struct {
	session  *session.Session
	auth     service.AuthService
	accounts service.AccountService
	users    store.UserRepository
	policy   *policy.Engine
	hasher   crypto.Hasher
	col      service.Collector
	out      io.Writer
	build    models.AppBuildInfo
	logger   *logger.Logger

	// files is rebuilt on every login because the jail root is per user.
	files *vfs.Manager

	commands map[string]*command
	order    []*command

	// inScript blocks nested script replay.
	inScript bool
}

// New wires a Shell from its dependencies.
func New(deps Deps) *Shell {
	s := &Shell{
		session:  deps.Session,
		auth:     deps.Auth,
		accounts: deps.Accounts,
		users:    deps.Users,
		policy:   deps.Policy,
		hasher:   deps.Hasher,
		col:      deps.Collector,
		out:      deps.Out,
		build:    deps.BuildInfo,
		logger:   deps.Logger,
	}

	s.order = commandTable()
	s.commands = make(map[string]*command)
	for _, cmd := range s.order {
		s.commands[cmd.name] = cmd
		for _, alias := range cmd.aliases {
			s.commands[alias] = cmd
		}
	}
	return s
}

// Run drives login and command handling until the process should end, and
// returns the exit code the operator contract promises.
func (s *Shell) Run(ctx context.Context) int {
	for {
		rec, code, ok := s.loginLoop(ctx)
		if !ok {
			return code
		}

		home, err := s.accounts.EnsureHome(rec)
		if err != nil {
			s.logger.Error().Err(err).Str("func", "Run").Msg("home directory unavailable")
			s.printError(err)
			return app.ExitFatal
		}

		s.session.Begin(rec, home, s.policy.SystemName())
		s.files = vfs.NewManager(vfs.NewJail(home), s.hasher, s.logger)

		code, again := s.commandLoop(ctx)
		s.session.Clear()
		if !again {
			return code
		}
	}
}

// loginLoop collects credentials until a login succeeds. EOF on any prompt
// ends the process cleanly.
func (s *Shell) loginLoop(ctx context.Context) (rec models.UserRecord, code int, ok bool) {
	for {
		username, err := s.col.Text(s.session.Prompt())
		if err != nil {
			return rec, app.ExitOK, false
		}
		password, err := s.col.Secret("Password: ")
		if err != nil {
			return rec, app.ExitOK, false
		}
		securityKey, err := s.col.Secret("Security key (enter to skip): ")
		if err != nil {
			return rec, app.ExitOK, false
		}

		got, loginErr := s.auth.Login(ctx, username, password, securityKey)
		if loginErr != nil {
			s.printError(loginErr)
			continue
		}
		return got, 0, true
	}
}

// commandLoop reads, tokenizes and dispatches command lines. The second
// return value reports whether control should go back to the login loop.
func (s *Shell) commandLoop(ctx context.Context) (code int, loginAgain bool) {
	for {
		line, err := s.col.Text(s.session.Prompt())
		if err != nil {
			return app.ExitOK, false
		}

		if err = s.execute(ctx, line); err != nil {
			switch {
			case errors.Is(err, errQuit):
				return app.ExitOK, false
			case errors.Is(err, errRestart):
				return app.ExitRestart, false
			case errors.Is(err, errLogout):
				return 0, true
			case errors.Is(err, service.ErrSelfDeleted):
				return app.ExitSelfDeleted, false
			default:
				if !fault.IsRecoverable(err) {
					s.logger.Error().Err(err).Str("func", "commandLoop").Str("line", line).Msg("unclassified command failure")
				}
				s.printError(err)
			}
		}
	}
}

// execute tokenizes one line and dispatches it. Empty lines are no-ops.
func (s *Shell) execute(ctx context.Context, line string) error {
	tokens, err := Tokenize(line)
	if err != nil {
		return fault.Wrap(fault.Validation, err)
	}
	if len(tokens) == 0 {
		return nil
	}
	return s.dispatch(ctx, tokens[0], tokens[1:])
}

// dispatch resolves the command word and runs the handler behind the
// privilege and policy gates.
func (s *Shell) dispatch(ctx context.Context, name string, args []string) error {
	cmd, found := s.commands[strings.ToLower(name)]
	if !found {
		return fault.Newf(fault.Validation, "%s: %s", app.MsgCommandNotFound, name)
	}

	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		return fault.Newf(fault.Validation, "%w: usage: %s", ErrBadUsage, cmd.usage)
	}
	if cmd.adminOnly && !s.session.IsAdmin() {
		return fault.New(fault.Authorization, app.MsgAdminOnly)
	}
	if cmd.policyKey != "" && !s.policy.Allowed(cmd.policyKey, s.session.IsAdmin()) {
		s.logger.Info().Str("func", "dispatch").Str("command", cmd.name).Str("key", cmd.policyKey).Msg("denied by policy")
		return fault.New(fault.Authorization, app.MsgAccessDenied)
	}

	return cmd.run(ctx, s, args)
}

// actor snapshots the session identity for a service call.
func (s *Shell) actor() service.Actor {
	return service.Actor{HashedUsername: s.session.Username(), IsAdmin: s.session.IsAdmin()}
}

func (s *Shell) printError(err error) {
	fmt.Fprintln(s.out, styleError.Render(operatorMessage(err)))
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}
