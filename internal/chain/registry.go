package chain

// Registry dispatches by chain name. Adding a chain family is a Register call
// at wiring time; nothing else in the service enumerates chains.
type Registry struct {
	signatures   map[string]SignatureVerifier
	transactions map[string]TransactionVerifier
}

func NewRegistry() *Registry {
	return &Registry{
		signatures:   make(map[string]SignatureVerifier),
		transactions: make(map[string]TransactionVerifier),
	}
}

func (r *Registry) Register(name string, sig SignatureVerifier, tx TransactionVerifier) {
	r.signatures[name] = sig
	r.transactions[name] = tx
}

func (r *Registry) SignatureVerifier(name string) (SignatureVerifier, bool) {
	sv, ok := r.signatures[name]
	return sv, ok
}

func (r *Registry) TransactionVerifier(name string) (TransactionVerifier, bool) {
	tv, ok := r.transactions[name]
	return tv, ok
}

func (r *Registry) Supported(name string) bool {
	_, ok := r.signatures[name]
	return ok
}
