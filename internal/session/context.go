package session

import "context"

type walletContextKey struct{}

// WithWallet returns a context carrying the authenticated wallet address
func WithWallet(ctx context.Context, wallet string) context.Context {
	return context.WithValue(ctx, walletContextKey{}, wallet)
}

// WalletFromContext extracts the authenticated wallet address, if any
func WalletFromContext(ctx context.Context) (string, bool) {
	wallet, ok := ctx.Value(walletContextKey{}).(string)
	return wallet, ok && wallet != ""
}
