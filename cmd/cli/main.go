package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/client"
	"github.com/ogurasousui/engineer-admin/internal/client/cli"
	"github.com/ogurasousui/engineer-admin/internal/client/session"
	"github.com/ogurasousui/engineer-admin/internal/client/view"
	"github.com/ogurasousui/engineer-admin/internal/core/drive"
	"github.com/ogurasousui/engineer-admin/internal/platform/config"
	"github.com/ogurasousui/engineer-admin/internal/platform/logger"
	"github.com/rs/zerolog/log"
)

// gateTokens は Gate の生成前に接続を作るための TokenSource です。
type gateTokens struct {
	gate *session.Gate
}

func (t *gateTokens) Token() string {
	if t.gate == nil {
		return ""
	}
	return t.gate.Token()
}

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadClient(effectiveConfigPath(*configPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// メニューと混ざらないよう、ログは標準エラーへ出力します。
	lg := logger.NewWithWriter(os.Stderr, cfg.Logging.Level)

	tokens := &gateTokens{}
	conn, err := client.Dial(cfg.Client.ServerAddr, tokens, cfg.Client.RequestTimeout)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect")
	}
	defer conn.Close()

	api := client.New(conn)
	gate := session.NewGate(api, session.NewFileTokenStore(cfg.Client.TokenFile), lg.Named("session"))
	tokens.gate = gate

	if err := gate.Restore(ctx); err != nil {
		lg.Warn().Err(err).Msg("could not restore the previous session")
	}

	people := view.NewPersonnelView(api, drive.NewLinker(cfg.Drive.SharedFolderID))
	app := cli.New(cli.Deps{
		Gate:      gate,
		Personnel: people,
		Invoices:  view.NewInvoiceView(api),
		Transfers: view.NewTransferView(api, people),
		Logger:    lg.Named("cli"),
	}, os.Stdin, os.Stdout)

	if err := app.Run(ctx); err != nil {
		lg.Fatal().Err(err).Msg("cli stopped with error")
	}
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}
