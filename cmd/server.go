package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tipjar/internal/chain"
	"tipjar/internal/config"
	"tipjar/internal/core"
	"tipjar/internal/db"
	"tipjar/internal/http/handler"
	"tipjar/internal/http/handler/middleware"
	"tipjar/internal/http/payload"
	"tipjar/internal/http/server"
	"tipjar/internal/repository"
	"tipjar/internal/verify"
	"tipjar/pkg/jwt"
	"tipjar/pkg/log"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap/zapcore"
)

func Start() error {
	logger := log.NewZapLogger("tipjar", zapcore.InfoLevel)

	config, err := config.NewApp()
	if err != nil {
		logger.Errorw("failed to create config", "error", err)
		return err
	}

	dbConn, err := db.NewPostgresDB(config.DBConnectionURL)
	if err != nil {
		logger.Errorw("failed to connect to database", "error", err)
		return err
	}

	// repository
	repo := repository.NewWalletRepository(dbConn)

	if err := repo.MigrateTables(); err != nil {
		logger.Errorw("failed to migrate tables to database", "error", err)
		return err
	}

	// jwt service
	jwtService := jwt.NewJWTService([]byte(config.JWTSecret))

	ethClient, err := ethclient.Dial(config.EthRPCURL)
	if err != nil {
		logger.Errorw("ethereum rpc connection failed", "error", err)
		return err
	}

	// chain registry
	site := chain.Site{
		Name: config.SiteName,
		URI:  config.SiteURI,
	}
	ethChain := chain.NewEthereumChain(site, ethClient)
	solChain := chain.NewSolanaChain(site, config.SolRPCURL)

	chains := chain.NewRegistry()
	chains.Register(chain.Ethereum, ethChain, ethChain)
	chains.Register(chain.Solana, solChain, solChain)

	// background tip verification
	verifyPool := verify.NewPool(logger, repo, chains, config.TipVerifyQueueLen, config.TipVerifyTimeout)
	if err := verifyPool.Start(config.TipVerifyWorkers); err != nil {
		logger.Errorw("failed to start verification pool", "error", err)
		return err
	}
	defer verifyPool.Stop()

	// tipjar
	tipJar := core.NewTipJar(
		logger,
		repo,
		chains,
		jwtService,
		verifyPool,
		config.TipRecipients)

	// handler
	walletHlr := handler.NewWalletHandler(
		logger,
		payload.DecodeValidator{},
		tipJar)

	// middleware
	mux := http.NewServeMux()
	hdlr := middleware.NewLoggingMiddleware(logger).Logging(mux)
	hdlr = middleware.NewRequestIDMiddleware().RequestID(hdlr)

	// register routes
	mux.HandleFunc(handler.RequestNonce, walletHlr.HandleNonce)
	mux.HandleFunc(handler.VerifyWallet, walletHlr.HandleVerify)
	mux.HandleFunc(handler.SubmitTip, walletHlr.HandleSubmitTip)
	mux.HandleFunc(handler.ListTips, walletHlr.HandleListTips)
	mux.HandleFunc(handler.TipStatus, walletHlr.HandleTipStatus)

	srv := server.NewHTTP(logger, hdlr, config.Port)
	return run(srv)
}

func run(server *server.HTTPServer) error {
	// expect a signal to gracefully shutdown the server
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	errChan := server.Run()

	var err error
	select {
	case <-sig:
	case err = <-errChan:
	}

	sdErr := server.Shutdown()
	if err == http.ErrServerClosed && sdErr != nil {
		return fmt.Errorf("server shutdown: %w", sdErr)
	}

	return err
}
