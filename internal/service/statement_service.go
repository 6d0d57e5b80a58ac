package service

import (
	"context"
	"io"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-import/internal/staging"
	"github.com/carson-networks/budget-import/internal/statement"
)

// StatementService turns uploaded statements into previewable rows.
type StatementService struct {
	accounts accountReader
}

func NewStatementService(accounts accountReader) *StatementService {
	return &StatementService{accounts: accounts}
}

// Preview parses a statement for an existing account. Nothing is stored.
func (s *StatementService) Preview(ctx context.Context, accountID uuid.UUID, file io.Reader) ([]staging.RawRow, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return nil, err
	}
	return statement.Parse(file)
}
