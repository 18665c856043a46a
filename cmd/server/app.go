package main

import (
	"fmt"
	"log/slog"

	"reqgen/internal/auth"
	"reqgen/internal/config"
	"reqgen/internal/domain/services"
	"reqgen/internal/handler"
	"reqgen/internal/mail"
	"reqgen/internal/repository"
	"reqgen/internal/service"
	authsvc "reqgen/internal/service/auth"
	"reqgen/internal/service/docsystem"
	"reqgen/internal/service/export"
	"reqgen/internal/service/llm"
	"reqgen/internal/templates"
)

// devJWTSecret signs tokens outside production when JWT_SECRET is unset
const devJWTSecret = "reqgen-development-secret"

// app holds the wired services of the server
type app struct {
	handlers   *handler.Handlers
	authorizer services.Authorizer
	verifier   auth.JWTVerifier
}

func newApp(cfg *config.Config, repos *repository.Set, logger *slog.Logger) (*app, error) {
	// Tokens: HS256 issued at login, plus an optional external identity provider
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.Environment == "prod" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		logger.Warn("JWT_SECRET not set, using development secret")
		secret = devJWTSecret
	}
	tokens, err := auth.NewHMACTokens(secret, cfg.JWTTTL, logger)
	if err != nil {
		return nil, err
	}

	verifiers := auth.ChainVerifier{tokens}
	if cfg.JWKSURL != "" {
		jwks, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
		if err != nil {
			return nil, fmt.Errorf("create JWKS verifier: %w", err)
		}
		verifiers = append(verifiers, jwks)
	}

	if cfg.AllowHeaderIdentity {
		logger.Warn("X-User-* identity headers accepted (never enable in production)")
	}

	registry, err := templates.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("load document templates: %w", err)
	}

	// Document services
	contentAnalyzer := docsystem.NewContentAnalyzer()
	notifService := docsystem.NewNotificationService(repos.Notifications, repos.Users, repos.Tx, logger)
	docService := docsystem.NewDocumentService(repos.Documents, notifService, repos.Tx, logger)
	settingsService := service.NewSettingsService(repos.Settings, logger)
	loginService := authsvc.NewLoginService(repos.Users, tokens, logger)

	// AI collaborators, tried in order
	chains := llm.Chains{}
	if cfg.PythonBackendURL != "" {
		python := llm.NewPythonBackend(cfg.PythonBackendURL, logger)
		chains.Summarizers = append(chains.Summarizers, python)
		chains.Generators = append(chains.Generators, python)
		chains.Transcribers = append(chains.Transcribers, python)
	}
	if cfg.AnthropicAPIKey != "" {
		claude, err := llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, registry, contentAnalyzer, logger)
		if err != nil {
			return nil, err
		}
		chains.Summarizers = append(chains.Summarizers, claude)
		chains.Generators = append(chains.Generators, claude)
	}
	logger.Info("ai collaborators configured",
		"summarizers", len(chains.Summarizers),
		"generators", len(chains.Generators),
		"transcribers", len(chains.Transcribers),
	)
	aiService := llm.NewAIService(chains, contentAnalyzer, logger)

	// Export and email
	var mailer services.Mailer
	if cfg.SMTPHost != "" {
		sender, err := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFromEmail,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("configure SMTP: %w", err)
		}
		mailer = sender
	} else {
		logger.Warn("SMTP_HOST not set, email delivery disabled")
	}
	markdown := export.NewMarkdownExporter()
	exportService := export.NewExportService(repos.Documents, repos.Settings,
		export.NewPDFRenderer(markdown), markdown, mailer, logger)

	return &app{
		handlers: &handler.Handlers{
			Storage:       repos.Driver,
			Auth:          handler.NewAuthHandler(loginService, logger),
			Documents:     handler.NewDocumentHandler(docService, logger),
			Notifications: handler.NewNotificationHandler(notifService, logger),
			Settings:      handler.NewSettingsHandler(settingsService, logger),
			Export:        handler.NewExportHandler(exportService, logger),
			AI:            handler.NewAIHandler(aiService, registry, logger),
		},
		authorizer: authsvc.NewRoleAuthorizer(authsvc.DefaultGrants()),
		verifier:   verifiers,
	}, nil
}
