package core_test

import (
	"context"
	"errors"

	"tipjar/internal/chain"
	"tipjar/internal/core"
	"tipjar/internal/repository"

	"github.com/golang-jwt/jwt"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("TipJar", func() {
	var (
		tipjar      *core.TipJar
		fakeRepo    *fakeRepository
		fakeEth     *fakeSignatureVerifier
		registry    *fakeRegistry
		fakeIssuer  *fakeJWTIssuer
		fakeVerify  *fakeTipVerifier
		ctx         context.Context
		walletAddr  string
		currentUser repository.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		walletAddr = "0x360091e9e692b7775543da956b7ca6cc39bae86c"
		currentUser = repository.User{
			ID:            42,
			WalletAddress: walletAddr,
			WalletType:    chain.Ethereum,
			Nonce:         "stored-nonce",
			LoginCount:    3,
		}

		fakeRepo = &fakeRepository{
			GetOrCreateUserStub: func(ctx context.Context, walletAddress, walletType string) (repository.User, error) {
				return currentUser, nil
			},
			CreateTipStub: func(ctx context.Context, tip repository.Tip) (uint64, error) {
				return 7, nil
			},
		}
		fakeEth = &fakeSignatureVerifier{}
		registry = &fakeRegistry{verifiers: map[string]chain.SignatureVerifier{
			chain.Ethereum: fakeEth,
		}}
		fakeIssuer = &fakeJWTIssuer{}
		fakeVerify = &fakeTipVerifier{EnqueueReturns: true}

		recipients := map[string]string{
			chain.Ethereum: "0x00000000000000000000000000000000000000aa",
			chain.Solana:   "",
		}
		tipjar = core.NewTipJar(zap.NewNop().Sugar(), fakeRepo, registry, fakeIssuer, fakeVerify, recipients)
	})

	Describe("IssueNonce", func() {
		It("should rotate the nonce and return the challenge", func() {
			challenge, err := tipjar.IssueNonce(ctx, walletAddr, chain.Ethereum)

			Expect(err).NotTo(HaveOccurred())
			Expect(challenge.Nonce).NotTo(BeEmpty())
			Expect(challenge.Nonce).NotTo(Equal("stored-nonce"))
			Expect(challenge.Message).To(ContainSubstring("Nonce: " + challenge.Nonce))
			Expect(fakeRepo.UpdateUserNonceCallCount).To(Equal(1))
			Expect(fakeRepo.UpdatedNonces[0]).To(Equal(challenge.Nonce))
		})

		It("should issue a fresh nonce on every request", func() {
			first, err := tipjar.IssueNonce(ctx, walletAddr, chain.Ethereum)
			Expect(err).NotTo(HaveOccurred())
			second, err := tipjar.IssueNonce(ctx, walletAddr, chain.Ethereum)
			Expect(err).NotTo(HaveOccurred())

			Expect(first.Nonce).NotTo(Equal(second.Nonce))
		})

		When("the wallet type is not registered", func() {
			It("should return ErrUnsupportedChain without touching storage", func() {
				_, err := tipjar.IssueNonce(ctx, walletAddr, "bitcoin")

				Expect(err).To(MatchError(core.ErrUnsupportedChain))
				Expect(fakeRepo.GetOrCreateUserCallCount).To(Equal(0))
			})
		})

		When("persisting the nonce fails", func() {
			It("should return the error", func() {
				expErr := errors.New("db gone")
				fakeRepo.UpdateUserNonceStub = func(ctx context.Context, userID uint64, nonce string) error {
					return expErr
				}

				_, err := tipjar.IssueNonce(ctx, walletAddr, chain.Ethereum)

				Expect(err).To(MatchError(expErr))
			})
		})
	})

	Describe("VerifyLogin", func() {
		var msg core.LoginMessage

		BeforeEach(func() {
			msg = core.LoginMessage{
				WalletAddress: walletAddr,
				WalletType:    chain.Ethereum,
				Signature:     "0xsigned",
				Message:       "Sign in\n\nNonce: stored-nonce\nAddress: " + walletAddr,
			}
		})

		When("the signature checks out", func() {
			BeforeEach(func() {
				fakeEth.VerifySignatureStub = func(claimedAddress, message, signature string) bool {
					return true
				}
			})

			It("should record the login and return a session token", func() {
				result, err := tipjar.VerifyLogin(ctx, msg)

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Success).To(BeTrue())
				Expect(result.Message).To(Equal("Authentication successful"))
				Expect(result.SessionToken).To(Equal("session-token"))
				Expect(fakeRepo.RecordUserLoginCallCount).To(Equal(1))
				Expect(fakeIssuer.GeneratedInfo.WalletAddress).To(Equal(walletAddr))
				Expect(fakeIssuer.GeneratedInfo.Subject).To(Equal("42"))
			})
		})

		When("the message carries a stale nonce", func() {
			It("should reject without running the verifier", func() {
				msg.Message = "Sign in\n\nNonce: old-nonce\nAddress: " + walletAddr

				result, err := tipjar.VerifyLogin(ctx, msg)

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Success).To(BeFalse())
				Expect(result.Message).To(Equal("Invalid or expired nonce"))
				Expect(result.SessionToken).To(BeEmpty())
				Expect(fakeEth.VerifySignatureCallCount).To(Equal(0))
				Expect(fakeRepo.RecordUserLoginCallCount).To(Equal(0))
			})
		})

		When("the message has no nonce line at all", func() {
			It("should reject", func() {
				msg.Message = "free-form text the wallet was tricked into signing"

				result, err := tipjar.VerifyLogin(ctx, msg)

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Success).To(BeFalse())
				Expect(result.Message).To(Equal("Invalid or expired nonce"))
			})
		})

		When("the signature does not verify", func() {
			It("should reject without issuing a token", func() {
				fakeEth.VerifySignatureStub = func(claimedAddress, message, signature string) bool {
					return false
				}

				result, err := tipjar.VerifyLogin(ctx, msg)

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Success).To(BeFalse())
				Expect(result.Message).To(Equal("Invalid signature"))
				Expect(result.SessionToken).To(BeEmpty())
				Expect(fakeIssuer.GenerateCallCount).To(Equal(0))
				Expect(fakeRepo.RecordUserLoginCallCount).To(Equal(0))
			})
		})

		When("the wallet type is not registered", func() {
			It("should return ErrUnsupportedChain", func() {
				msg.WalletType = "bitcoin"

				_, err := tipjar.VerifyLogin(ctx, msg)

				Expect(err).To(MatchError(core.ErrUnsupportedChain))
			})
		})

		When("signing the token fails", func() {
			It("should return the error", func() {
				fakeEth.VerifySignatureStub = func(claimedAddress, message, signature string) bool {
					return true
				}
				expErr := errors.New("bad key")
				fakeIssuer.SignStub = func(token *jwt.Token) (string, error) {
					return "", expErr
				}

				_, err := tipjar.VerifyLogin(ctx, msg)

				Expect(err).To(MatchError(expErr))
			})
		})
	})

	Describe("SubmitTip", func() {
		var sub core.TipSubmission

		BeforeEach(func() {
			postID := int64(11)
			sub = core.TipSubmission{
				PostID:      &postID,
				FromAddress: walletAddr,
				Amount:      "0.05",
				Currency:    "ETH",
				Chain:       chain.Ethereum,
				TxHash:      "0xdeadbeef",
			}
		})

		It("should persist the tip unverified and enqueue a verification job", func() {
			tipID, err := tipjar.SubmitTip(ctx, sub)

			Expect(err).NotTo(HaveOccurred())
			Expect(tipID).To(Equal(uint64(7)))

			Expect(fakeRepo.CreatedTips).To(HaveLen(1))
			created := fakeRepo.CreatedTips[0]
			Expect(created.Verified).To(BeFalse())
			Expect(created.ToAddress).To(Equal("0x00000000000000000000000000000000000000aa"))
			Expect(created.FromAddress).To(Equal(walletAddr))
			Expect(created.TxHash).To(Equal("0xdeadbeef"))

			Expect(fakeVerify.EnqueuedJobs).To(HaveLen(1))
			job := fakeVerify.EnqueuedJobs[0]
			Expect(job.TipID).To(Equal(uint64(7)))
			Expect(job.Chain).To(Equal(chain.Ethereum))
			Expect(job.TxHash).To(Equal("0xdeadbeef"))
			Expect(job.Recipient).To(Equal("0x00000000000000000000000000000000000000aa"))
		})

		It("should still succeed when the verification queue is full", func() {
			fakeVerify.EnqueueReturns = false

			tipID, err := tipjar.SubmitTip(ctx, sub)

			Expect(err).NotTo(HaveOccurred())
			Expect(tipID).To(Equal(uint64(7)))
		})

		When("no recipient is configured for the chain", func() {
			It("should return ErrUnsupportedChain for an unknown chain", func() {
				sub.Chain = "bitcoin"

				_, err := tipjar.SubmitTip(ctx, sub)

				Expect(err).To(MatchError(core.ErrUnsupportedChain))
				Expect(fakeRepo.CreateTipCallCount).To(Equal(0))
				Expect(fakeVerify.EnqueuedJobs).To(BeEmpty())
			})

			It("should return ErrUnsupportedChain for a chain with an empty recipient", func() {
				sub.Chain = chain.Solana

				_, err := tipjar.SubmitTip(ctx, sub)

				Expect(err).To(MatchError(core.ErrUnsupportedChain))
				Expect(fakeRepo.CreateTipCallCount).To(Equal(0))
			})
		})

		When("persisting the tip fails", func() {
			It("should return the error without enqueueing", func() {
				expErr := errors.New("db gone")
				fakeRepo.CreateTipStub = func(ctx context.Context, tip repository.Tip) (uint64, error) {
					return 0, expErr
				}

				_, err := tipjar.SubmitTip(ctx, sub)

				Expect(err).To(MatchError(expErr))
				Expect(fakeVerify.EnqueuedJobs).To(BeEmpty())
			})
		})
	})

	Describe("VerifiedTips", func() {
		It("should page through verified tips newest first", func() {
			fakeRepo.GetVerifiedTipsStub = func(ctx context.Context, postID *int64, limit int) ([]repository.Tip, error) {
				return []repository.Tip{
					{ID: 2, Amount: "0.2", Verified: true},
					{ID: 1, Amount: "0.1", Verified: true},
				}, nil
			}

			records, err := tipjar.VerifiedTips(ctx, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].ID).To(Equal(uint64(2)))
			Expect(records[1].ID).To(Equal(uint64(1)))
			Expect(fakeRepo.GetVerifiedTipsLimit).To(Equal(50))
			Expect(fakeRepo.GetVerifiedTipsPostID).To(BeNil())
		})

		It("should pass the post filter through", func() {
			postID := int64(9)

			_, err := tipjar.VerifiedTips(ctx, &postID)

			Expect(err).NotTo(HaveOccurred())
			Expect(fakeRepo.GetVerifiedTipsPostID).To(Equal(&postID))
		})
	})

	Describe("TipByID", func() {
		It("should return the tip whatever its verification state", func() {
			fakeRepo.GetTipByIDStub = func(ctx context.Context, tipID uint64) (repository.Tip, error) {
				return repository.Tip{ID: tipID, Verified: false}, nil
			}

			record, err := tipjar.TipByID(ctx, 7)

			Expect(err).NotTo(HaveOccurred())
			Expect(record.ID).To(Equal(uint64(7)))
			Expect(record.Verified).To(BeFalse())
		})

		When("the tip does not exist", func() {
			It("should return ErrTipNotFound", func() {
				fakeRepo.GetTipByIDStub = func(ctx context.Context, tipID uint64) (repository.Tip, error) {
					return repository.Tip{}, repository.ErrTipNotFound
				}

				_, err := tipjar.TipByID(ctx, 404)

				Expect(err).To(MatchError(core.ErrTipNotFound))
			})
		})
	})
})
