// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/MKhiriev/vosh/internal/app"
	"github.com/MKhiriev/vosh/internal/config"
	"github.com/MKhiriev/vosh/internal/crypto"
	"github.com/MKhiriev/vosh/internal/logger"
	"github.com/MKhiriev/vosh/internal/policy"
	"github.com/MKhiriev/vosh/internal/service"
	"github.com/MKhiriev/vosh/internal/session"
	"github.com/MKhiriev/vosh/internal/shell"
	"github.com/MKhiriev/vosh/internal/store"
	"github.com/MKhiriev/vosh/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	os.Exit(run())
}

// run wires the whole shell and returns its exit code. Anything that fails
// before the command loop starts is fatal: it is logged, summarized to the
// operator and mapped to the fatal exit code.
func run() int {
	printBuildInfo()

	log := logger.NewShellLogger("vosh")
	ctx := log.WithContext(context.Background())

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		return fatal(log, err, "error getting configs")
	}

	hasher := crypto.NewHasher(cfg.App.HashPassphrase)

	db, err := store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		return fatal(log, err, "error connecting to record store")
	}
	defer func() { _ = db.Close() }()

	if err = db.Migrate(); err != nil {
		return fatal(log, err, "error migrating record store")
	}

	users := store.NewUserRepository(db, log)
	if err = seedAdministrator(ctx, users, hasher, log); err != nil {
		return fatal(log, err, "error seeding the Administrator account")
	}

	policyEngine := policy.New(cfg.Storage.Policy.Path, log)
	if err = ensurePolicyStore(cfg.Storage.Policy.Path, policyEngine); err != nil {
		return fatal(log, err, "error initializing policy store")
	}

	services := service.NewServices(users, hasher, *cfg, log)

	sh := shell.New(shell.Deps{
		Session:   session.New(),
		Auth:      services.AuthService,
		Accounts:  services.AccountService,
		Users:     users,
		Policy:    policyEngine,
		Hasher:    hasher,
		Collector: shell.NewCollector(bufio.NewReader(os.Stdin), os.Stdout),
		Out:       os.Stdout,
		BuildInfo: models.NewAppBuildInfo(buildVersion, buildDate, buildCommit),
		Logger:    log,
	})

	code := sh.Run(ctx)
	log.Info().Int("code", code).Msg("shell finished")
	return code
}

// ensurePolicyStore writes the default policy file on first launch so gated
// operations do not all fail safe to "deny" on a fresh install.
func ensurePolicyStore(path string, eng *policy.Engine) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return eng.Reset()
}

// seedAdministrator enrolls the canonical Administrator record on first
// launch with well-known bootstrap credentials the operator is expected to
// change immediately.
func seedAdministrator(ctx context.Context, users store.UserRepository, hasher crypto.Hasher, log *logger.Logger) error {
	hashed := hasher.Digest(models.AdministratorName)
	exists, err := users.UserExists(ctx, hashed)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	log.Info().Str("func", "seedAdministrator").Msg("first launch, enrolling the Administrator account")
	return users.CreateUser(ctx, models.UserRecord{
		HashedUsername: hashed,
		DisplayName:    models.AdministratorName,
		HashedPassword: hasher.Digest("administrator"),
		HashedPIN:      hasher.Digest("0000"),
		IsAdmin:        true,
	})
}

// fatal is the top-level failure handler: full detail to the log, one plain
// line to the operator, and an optional operator comment captured alongside
// the failure before the process ends.
func fatal(log *logger.Logger, err error, msg string) int {
	log.Error().Err(err).Msg(msg)
	fmt.Fprintln(os.Stderr, app.MsgInternalError+": "+msg)

	fmt.Fprint(os.Stderr, "Add a comment for the log, or press Enter to close: ")
	if comment, readErr := bufio.NewReader(os.Stdin).ReadString('\n'); readErr == nil {
		if comment = strings.TrimSpace(comment); comment != "" {
			log.Error().Str("operator_comment", comment).Msg(msg)
		}
	}
	return app.ExitFatal
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
