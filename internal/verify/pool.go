package verify

import (
	"context"
	"time"

	"tipjar/internal/chain"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Job asks for one tip to be checked against its chain's ledger.
type Job struct {
	TipID     uint64
	Chain     string
	TxHash    string
	Recipient string
}

type TipStore interface {
	MarkTipVerified(ctx context.Context, tipID uint64) error
}

type VerifierSource interface {
	TransactionVerifier(name string) (chain.TransactionVerifier, bool)
}

// Pool consumes verification jobs detached from the requests that produced
// them. A job runs at most once: if the verifier says no, the RPC is down, or
// the process stops first, the tip simply stays unverified. Queued jobs are
// abandoned on Stop.
type Pool struct {
	logs    *zap.SugaredLogger
	tips    TipStore
	chains  VerifierSource
	timeout time.Duration
	jobs    chan Job
	quit    chan struct{}
	workers *ants.Pool
}

func NewPool(logger *zap.SugaredLogger, tips TipStore, chains VerifierSource, queueLen int, timeout time.Duration) *Pool {
	if queueLen <= 0 {
		queueLen = 1
	}
	return &Pool{
		logs:    logger,
		tips:    tips,
		chains:  chains,
		timeout: timeout,
		jobs:    make(chan Job, queueLen),
		quit:    make(chan struct{}),
	}
}

func (p *Pool) Start(workers int) error {
	if workers <= 0 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return err
	}
	p.workers = pool

	for i := 0; i < workers; i++ {
		if err := p.workers.Submit(p.consume); err != nil {
			return err
		}
	}

	return nil
}

// Enqueue never blocks the caller. A full queue drops the job; the tip is
// left unverified and resubmission is the client's recourse.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		p.logs.Warnw("verification queue full, dropping job",
			"tip_id", job.TipID,
			"chain", job.Chain)
		return false
	}
}

func (p *Pool) Stop() {
	close(p.quit)
	if p.workers != nil {
		p.workers.Release()
	}
}

func (p *Pool) consume() {
	for {
		select {
		case <-p.quit:
			return
		case job := <-p.jobs:
			p.process(job)
		}
	}
}

func (p *Pool) process(job Job) {
	verifier, ok := p.chains.TransactionVerifier(job.Chain)
	if !ok {
		p.logs.Errorw("no transaction verifier for chain", "chain", job.Chain, "tip_id", job.TipID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if !verifier.VerifyTransaction(ctx, job.TxHash, job.Recipient) {
		p.logs.Infow("transaction not confirmed, tip stays unverified",
			"tip_id", job.TipID,
			"chain", job.Chain,
			"tx_hash", job.TxHash)
		return
	}

	if err := p.tips.MarkTipVerified(ctx, job.TipID); err != nil {
		p.logs.Errorw("failed to mark tip verified", "error", err, "tip_id", job.TipID)
		return
	}

	p.logs.Infow("tip verified", "tip_id", job.TipID, "chain", job.Chain)
}
