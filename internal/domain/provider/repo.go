package provider

import "context"

// Repository is the storage interface for the provider dimension.
type Repository interface {
	Insert(ctx context.Context, p *Provider) error
	ListAll(ctx context.Context) ([]*Provider, error)
	Count(ctx context.Context) (int64, error)
}
