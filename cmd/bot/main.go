package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"surveybot/internal/adapters/discord"
	"surveybot/internal/application"
	"surveybot/internal/config"
	"surveybot/internal/infrastructure/crypto"
	"surveybot/internal/infrastructure/database"
	"surveybot/internal/infrastructure/i18n"
	"surveybot/internal/infrastructure/memory"
	"surveybot/internal/ports/output"
	"surveybot/pkg/tz"
)

type repositories struct {
	meetings  output.MeetingRepository
	responses output.ResponseRepository
	users     output.UserRepository
	roles     output.RoleRepository
	sessions  output.AuthSessionRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}
	tz.Set(cfg.Location)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Erreur lors de l'initialisation du stockage: %v", err)
	}
	defer closeStore()

	verifier := crypto.NewBcryptVerifier(bcrypt.DefaultCost)
	locks := application.NewIdentityLocks()

	authSvc := application.NewAuthService(repos.users, repos.sessions, verifier, locks)
	gate := application.NewGate(authSvc)
	flowSvc := application.NewFlowService(repos.meetings, repos.responses, repos.users, authSvc, application.NewFillSessionStore(), locks)
	meetingSvc := application.NewMeetingService(repos.meetings, repos.responses, repos.users)
	roleSvc := application.NewRoleService(repos.roles, repos.users, verifier)

	var adminID uint
	if cfg.AdminUsername != "" {
		admin, err := roleSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			log.Fatalf("❌ Création du compte administrateur impossible: %v", err)
		}
		adminID = admin.ID
		log.Printf("✅ Compte administrateur %q prêt.", cfg.AdminUsername)
	}
	if cfg.SeedDemo {
		seeded, err := meetingSvc.SeedDemo(ctx, adminID)
		if err != nil {
			log.Fatalf("❌ Création des réunions de démonstration impossible: %v", err)
		}
		log.Printf("🌱 %d réunion(s) de démonstration ouverte(s).", len(seeded))
	}

	translator := i18n.NewTranslator(cfg.DefaultLocale)
	log.Printf("🌐 Langues chargées: %v (défaut %s)", translator.Languages(), cfg.DefaultLocale)
	handler := discord.NewHandler(flowSvc, authSvc, gate, meetingSvc, roleSvc, translator, cfg.DefaultLocale)

	bot, err := discord.NewBot(cfg.Token, handler)
	if err != nil {
		log.Fatalf("❌ Erreur lors de la création de la session Discord: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Run(gctx) })
	g.Go(func() error {
		return handler.RunScheduledTasks(gctx, bot, cfg.SweepInterval, cfg.FillIdleTimeout)
	})
	if err := g.Wait(); err != nil {
		log.Printf("❌ Arrêt sur erreur: %v", err)
		os.Exit(1)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (*repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Println("⚠️ Stockage en mémoire: les données seront perdues à l'arrêt.")
		meetings, responses, users, roles, sessions := memory.NewStore().Repositories()
		return &repositories{meetings, responses, users, roles, sessions}, func() {}, nil
	}

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return nil, nil, err
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	r := database.NewRepositories(pool)
	return &repositories{r.Meetings, r.Responses, r.Users, r.Roles, r.Sessions}, pool.Close, nil
}
