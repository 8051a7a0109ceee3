package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/koshinokanbai330/oof-cli/internal/adapters/driven/auth"
	"github.com/koshinokanbai330/oof-cli/internal/adapters/driven/config/file"
	"github.com/koshinokanbai330/oof-cli/internal/adapters/driven/signature"
	storagefile "github.com/koshinokanbai330/oof-cli/internal/adapters/driven/storage/file"
	"github.com/koshinokanbai330/oof-cli/internal/adapters/driven/storage/sqlite"
	"github.com/koshinokanbai330/oof-cli/internal/adapters/driving/cli"
	"github.com/koshinokanbai330/oof-cli/internal/allowance"
	"github.com/koshinokanbai330/oof-cli/internal/connectors/microsoft"
	"github.com/koshinokanbai330/oof-cli/internal/connectors/microsoft/calendar"
	"github.com/koshinokanbai330/oof-cli/internal/connectors/microsoft/mailbox"
	"github.com/koshinokanbai330/oof-cli/internal/connectors/microsoft/onedrive"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
	"github.com/koshinokanbai330/oof-cli/internal/core/services"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)

	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("failed to get home directory: %v", err)
		return 1
	}
	dataDir := filepath.Join(home, ".oof")

	configStore, err := file.NewStore("")
	if err != nil {
		log.Printf("failed to create config store: %v", err)
		return 1
	}
	cfg, err := configStore.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	sqliteStore, err := sqlite.NewStore("")
	if err != nil {
		log.Printf("failed to create credential store: %v", err)
		return 1
	}
	defer sqliteStore.Close()
	credentials := sqliteStore.CredentialStore()

	authConfig := auth.Config{
		ClientID:     cfg.Azure.ClientID,
		TenantID:     cfg.Azure.TenantID,
		RedirectPort: cfg.Azure.RedirectPort,
		Scopes:       cfg.Azure.Scopes,
	}
	authenticator := auth.NewAuthenticator(authConfig, credentials)
	tokens := auth.NewTokenProvider(authConfig, credentials)

	// One Graph client per service so rate limits apply independently.
	calendarAdapter := calendar.New(
		microsoft.NewClient(tokens, microsoft.ServiceCalendar), cfg.ReplyTimeZone)
	mailboxAdapter := mailbox.New(
		microsoft.NewClient(tokens, microsoft.ServiceMailbox), cfg.ReplyTimeZone)

	var allowanceAdapter driven.AllowanceSheetAdapter
	if cfg.AllowanceMode == file.AllowanceModeDrive {
		allowanceAdapter = onedrive.New(
			microsoft.NewClient(tokens, microsoft.ServiceOneDrive), cfg.TemplatePath, "")
	} else {
		allowanceAdapter = allowance.New(cfg.TemplatePath)
	}

	mailingList := storagefile.NewMailingListStore(filepath.Join(dataDir, "mailinglist.json"))
	signatures := signature.New(cfg.SignatureDir)

	profile := profileProvider{
		configured: cfg.FamilyName,
		service: microsoft.NewProfileService(
			microsoft.NewClient(tokens, microsoft.ServiceMailbox)),
	}

	submitSvc := services.NewSubmitOrchestrator(
		calendarAdapter, mailboxAdapter, allowanceAdapter,
		mailingList, signatures, profile,
	)

	cli.SetServices(&cli.Services{
		Submit: submitSvc,
		Auth:   authenticator,
		Config: configStore,
	})

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// profileProvider prefers the configured family name and falls back to the
// Graph profile.
type profileProvider struct {
	configured string
	service    *microsoft.ProfileService
}

func (p profileProvider) FamilyName(ctx context.Context) (string, error) {
	if p.configured != "" {
		return p.configured, nil
	}
	return p.service.FamilyName(ctx)
}
