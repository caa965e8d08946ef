package chain_test

import (
	"tipjar/internal/chain"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registry", func() {
	var registry *chain.Registry

	BeforeEach(func() {
		registry = chain.NewRegistry()
		site := chain.Site{Name: "Web3 Blog", URI: "http://localhost:3000"}
		eth := chain.NewEthereumChain(site, nil)
		sol := chain.NewSolanaChain(site, "")

		registry.Register(chain.Ethereum, eth, eth)
		registry.Register(chain.Solana, sol, sol)
	})

	It("should resolve registered chains", func() {
		sv, ok := registry.SignatureVerifier(chain.Ethereum)
		Expect(ok).To(BeTrue())
		Expect(sv).NotTo(BeNil())

		tv, ok := registry.TransactionVerifier(chain.Solana)
		Expect(ok).To(BeTrue())
		Expect(tv).NotTo(BeNil())

		Expect(registry.Supported(chain.Ethereum)).To(BeTrue())
		Expect(registry.Supported(chain.Solana)).To(BeTrue())
	})

	It("should report unknown chains as unsupported", func() {
		_, ok := registry.SignatureVerifier("bitcoin")
		Expect(ok).To(BeFalse())

		_, ok = registry.TransactionVerifier("bitcoin")
		Expect(ok).To(BeFalse())

		Expect(registry.Supported("bitcoin")).To(BeFalse())
	})
})
