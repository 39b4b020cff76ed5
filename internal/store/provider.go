package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/verityhealth/verity/internal/domain"
)

type ProviderStore struct {
	db *pgxpool.Pool
}

func NewProviderStore(db *pgxpool.Pool) *ProviderStore {
	return &ProviderStore{db: db}
}

const providerColumns = `id, identifier, name, address, input_source, specialties, status,
	security_check, address_verification, evidence, scoring, enrichment, audit_log,
	created_at, last_updated`

func (s *ProviderStore) Create(ctx context.Context, p *domain.ProviderState) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = domain.StatusProcessing
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO providers (id, identifier, name, address, input_source, specialties, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, last_updated`,
		p.ID, p.Record.Identifier, p.Record.Name, p.Record.Address, p.Record.InputSource, p.Record.Specialties, p.Status,
	).Scan(&p.CreatedAt, &p.LastUpdated)
}

func (s *ProviderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProviderState, error) {
	p := &domain.ProviderState{}
	err := s.db.QueryRow(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE id = $1`, id,
	).Scan(
		&p.ID, &p.Record.Identifier, &p.Record.Name, &p.Record.Address, &p.Record.InputSource, &p.Record.Specialties, &p.Status,
		&p.SecurityCheck, &p.AddressVerification, &p.Evidence, &p.Scoring, &p.Enrichment, &p.AuditLog,
		&p.CreatedAt, &p.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProviderStore) List(ctx context.Context) ([]domain.ProviderState, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+providerColumns+` FROM providers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []domain.ProviderState
	for rows.Next() {
		var p domain.ProviderState
		if err := rows.Scan(
			&p.ID, &p.Record.Identifier, &p.Record.Name, &p.Record.Address, &p.Record.InputSource, &p.Record.Specialties, &p.Status,
			&p.SecurityCheck, &p.AddressVerification, &p.Evidence, &p.Scoring, &p.Enrichment, &p.AuditLog,
			&p.CreatedAt, &p.LastUpdated,
		); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// UpdateState applies a partial stage update. Only non-nil patch fields are
// written; last_updated always advances.
func (s *ProviderStore) UpdateState(ctx context.Context, id uuid.UUID, patch domain.StatePatch) error {
	sets := []string{"last_updated = NOW()"}
	var args []any

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		addSet("status", *patch.Status)
	}
	if patch.SecurityCheck != nil {
		addSet("security_check", patch.SecurityCheck)
	}
	if patch.AddressVerification != nil {
		addSet("address_verification", patch.AddressVerification)
	}
	if patch.Evidence != nil {
		addSet("evidence", patch.Evidence)
	}
	if patch.Scoring != nil {
		addSet("scoring", patch.Scoring)
	}
	if patch.Enrichment != nil {
		addSet("enrichment", patch.Enrichment)
	}
	if patch.AuditLog != nil {
		addSet("audit_log", patch.AuditLog)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE providers SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProviderStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM providers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
