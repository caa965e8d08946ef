package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var errEnvVarNotFound error = errors.New("environment variable not found")

const (
	apiPortEnvKey   = "API_PORT"
	dbConnEnvKey    = "DB_CONNECTION_URL"
	jwtSecretEnvKey = "JWT_SECRET"

	ethRPCEnvKey       = "ETH_RPC_URL"
	solRPCEnvKey       = "SOL_RPC_URL"
	ethRecipientEnvKey = "AUTHOR_ETH_ADDRESS"
	solRecipientEnvKey = "AUTHOR_SOL_ADDRESS"

	siteNameEnvKey = "SITE_NAME"
	siteURIEnvKey  = "SITE_URI"

	verifyTimeoutEnvKey = "TIP_VERIFY_TIMEOUT_SECONDS"
	verifyWorkersEnvKey = "TIP_VERIFY_WORKERS"
	verifyQueueEnvKey   = "TIP_VERIFY_QUEUE_SIZE"
)

const (
	defaultEthRPC        = "https://eth.llamarpc.com"
	defaultSolRPC        = "https://api.mainnet-beta.solana.com"
	defaultSiteName      = "Web3 Blog"
	defaultSiteURI       = "http://localhost:3000"
	defaultVerifyTimeout = 10 * time.Second
	defaultVerifyWorkers = 4
	defaultVerifyQueue   = 64
)

type App struct {
	Port              string
	DBConnectionURL   string
	JWTSecret         string
	EthRPCURL         string
	SolRPCURL         string
	TipRecipients     map[string]string // chain name -> author wallet address
	SiteName          string
	SiteURI           string
	TipVerifyTimeout  time.Duration
	TipVerifyWorkers  int
	TipVerifyQueueLen int
}

func NewApp() (App, error) {
	// missing .env is fine, the environment may be set directly
	_ = godotenv.Load()

	port, ok := os.LookupEnv(apiPortEnvKey)
	if !ok {
		return App{}, fmt.Errorf("%w: %s", errEnvVarNotFound, apiPortEnvKey)
	}

	dbConn, ok := os.LookupEnv(dbConnEnvKey)
	if !ok {
		return App{}, fmt.Errorf("%w: %s", errEnvVarNotFound, dbConnEnvKey)
	}

	jwtSecret, ok := os.LookupEnv(jwtSecretEnvKey)
	if !ok {
		return App{}, fmt.Errorf("%w: %s", errEnvVarNotFound, jwtSecretEnvKey)
	}

	timeoutSeconds, err := intEnvOrDefault(verifyTimeoutEnvKey, int(defaultVerifyTimeout/time.Second))
	if err != nil {
		return App{}, err
	}

	workers, err := intEnvOrDefault(verifyWorkersEnvKey, defaultVerifyWorkers)
	if err != nil {
		return App{}, err
	}

	queueLen, err := intEnvOrDefault(verifyQueueEnvKey, defaultVerifyQueue)
	if err != nil {
		return App{}, err
	}

	return App{
		Port:            port,
		DBConnectionURL: dbConn,
		JWTSecret:       jwtSecret,
		EthRPCURL:       envOrDefault(ethRPCEnvKey, defaultEthRPC),
		SolRPCURL:       envOrDefault(solRPCEnvKey, defaultSolRPC),
		TipRecipients: map[string]string{
			"ethereum": os.Getenv(ethRecipientEnvKey),
			"solana":   os.Getenv(solRecipientEnvKey),
		},
		SiteName:          envOrDefault(siteNameEnvKey, defaultSiteName),
		SiteURI:           envOrDefault(siteURIEnvKey, defaultSiteURI),
		TipVerifyTimeout:  time.Duration(timeoutSeconds) * time.Second,
		TipVerifyWorkers:  workers,
		TipVerifyQueueLen: queueLen,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func intEnvOrDefault(key string, fallback int) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}
