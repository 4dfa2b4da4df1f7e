package medcode

import "context"

// Repository is the storage interface for the medical-code dimension.
type Repository interface {
	Insert(ctx context.Context, m *MedicalCode) error
	ListActive(ctx context.Context) ([]*MedicalCode, error)
	Count(ctx context.Context) (int64, error)
}
