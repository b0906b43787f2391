package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/handler"
	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/adapters/repository/memory"
	"github.com/ogurasousui/engineer-admin/internal/adapters/repository/postgres"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/invoice"
	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
	"github.com/ogurasousui/engineer-admin/internal/platform/config"
	pg "github.com/ogurasousui/engineer-admin/internal/platform/db/postgres"
	"github.com/ogurasousui/engineer-admin/internal/platform/logger"
	"github.com/ogurasousui/engineer-admin/internal/platform/server"
	"github.com/rs/zerolog/log"
)

// sessionPurger は期限切れセッションを削除できるセッションストアです。
type sessionPurger interface {
	auth.SessionRepository
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type stores struct {
	people   personnel.Repository
	company  transfer.PersonStore
	invoices invoice.Repository
	records  transfer.Repository
	accounts auth.AccountRepository
	sessions sessionPurger

	// tx は postgres の場合のみ設定されます。
	tx *pg.TransactionManager
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	lg := logger.New(logger.Config{Env: cfg.Logging.Env, Level: cfg.Logging.Level})

	st, closeStore, err := openStores(ctx, cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer closeStore()

	if purged, err := st.sessions.DeleteExpired(ctx, time.Now().UTC()); err != nil {
		lg.Warn().Err(err).Msg("failed to purge expired sessions")
	} else if purged > 0 {
		lg.Info().Int64("sessions", purged).Msg("purged expired sessions")
	}

	var personnelTx personnel.TransactionManager
	var invoiceTx invoice.TransactionManager
	if st.tx != nil {
		personnelTx = st.tx
		invoiceTx = st.tx
	}

	var transferTx transfer.TransactionManager
	var transferOpts []transfer.Option
	if st.tx != nil && cfg.Server.Atomic() {
		transferTx = st.tx
	}
	if cfg.Server.TransferCompensation {
		transferOpts = append(transferOpts, transfer.WithCompensation())
	}

	personnelSvc := personnel.NewService(st.people, personnelTx)
	invoiceSvc := invoice.NewService(st.invoices, invoiceTx)
	transferSvc := transfer.NewService(st.records, st.company, transferTx, transferOpts...)
	authSvc := auth.NewService(st.accounts, st.sessions, auth.Config{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.JWTIssuer,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, nil)

	grpcServer := server.New(cfg.Server.ListenAddr, server.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		Authenticator:  authSvc,
		Logger:         lg.Named("grpc"),
	},
		server.Service{Name: rpc.PersonnelService, Methods: handler.NewPersonnelGrpcHandler(personnelSvc).Methods()},
		server.Service{Name: rpc.InvoiceService, Methods: handler.NewInvoiceGrpcHandler(invoiceSvc).Methods()},
		server.Service{Name: rpc.TransferService, Methods: handler.NewTransferGrpcHandler(transferSvc).Methods()},
		server.Service{Name: rpc.AuthService, Methods: handler.NewAuthGrpcHandler(authSvc).Methods()},
	)

	lg.Info().
		Str("addr", cfg.Server.ListenAddr).
		Str("store", cfg.Server.Store).
		Bool("transfer_atomic", transferSvc.Atomic()).
		Msg("gRPC server listening")

	if err := grpcServer.Run(ctx); err != nil {
		lg.Fatal().Err(err).Msg("server stopped with error")
	}
}

func openStores(ctx context.Context, cfg *config.Config, lg *logger.Logger) (*stores, func(), error) {
	if cfg.Server.Store == config.StoreMemory {
		mem := memory.NewStore(nil)
		people := mem.Personnel()
		return &stores{
			people:   people,
			company:  people,
			invoices: mem.Invoices(),
			records:  mem.Transfers(),
			accounts: mem.Accounts(),
			sessions: mem.Sessions(),
		}, func() {}, nil
	}

	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	people := postgres.NewPersonnelRepository(pool)
	return &stores{
		people:   people,
		company:  people,
		invoices: postgres.NewInvoiceRepository(pool),
		records:  postgres.NewTransferRepository(pool),
		accounts: postgres.NewAccountRepository(pool),
		sessions: postgres.NewSessionRepository(pool),
		tx:       pg.NewTransactionManager(pool, lg.Named("tx")),
	}, pool.Close, nil
}
