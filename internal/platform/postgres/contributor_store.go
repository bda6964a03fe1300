package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// contributorColumns is the select list shared by contributor queries.
// The join to users provides the display name and email.
const contributorColumns = `
	c.id, c.user_id, u.name, u.email, c.skills, c.joined_on, c.created_at, c.updated_at
`

// PostgresContributorStore implements the store.ContributorStore
// interface using a PostgreSQL database as the storage backend.
// Contributor writes that also touch the backing user account run in
// one transaction through the embedded user store.
type PostgresContributorStore struct {
	db        *sql.DB
	userStore *PostgresUserStore
	logger    *slog.Logger
}

// NewPostgresContributorStore creates a new PostgreSQL implementation of
// the ContributorStore interface. If logger is nil, a default logger
// will be used.
func NewPostgresContributorStore(db *sql.DB, userStore *PostgresUserStore, logger *slog.Logger) *PostgresContributorStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if userStore == nil {
		panic("userStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContributorStore{
		db:        db,
		userStore: userStore,
		logger:    logger.With(slog.String("component", "contributor_store")),
	}
}

// Ensure PostgresContributorStore implements store.ContributorStore interface
var _ store.ContributorStore = (*PostgresContributorStore)(nil)

// Create implements store.ContributorStore.Create
// The backing user and the contributor profile are inserted in one
// transaction; neither exists without the other.
func (s *PostgresContributorStore) Create(ctx context.Context, contributor *domain.Contributor, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	contributor.UserID = user.ID
	if err := contributor.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		skills, err := marshalSkills(contributor.Skills)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		contributor.CreatedAt = now
		contributor.UpdatedAt = now

		query := `
			INSERT INTO contributors (id, user_id, skills, joined_on, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		_, err = tx.ExecContext(ctx, query,
			contributor.ID,
			contributor.UserID,
			skills,
			dueDateArg(contributor.JoinedOn),
			contributor.CreatedAt,
			contributor.UpdatedAt,
		)
		if err != nil {
			s.logger.Error("failed to create contributor",
				"contributor_id", contributor.ID, "error", err)
			return MapError(err)
		}

		contributor.Name = user.Name
		contributor.Email = user.Email
		return nil
	})
}

// GetByID implements store.ContributorStore.GetByID
func (s *PostgresContributorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contributor, error) {
	query := `
		SELECT ` + contributorColumns + `
		FROM contributors c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`

	contributor, err := scanContributor(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrContributorNotFound
		}
		s.logger.Error("failed to get contributor", "contributor_id", id, "error", err)
		return nil, fmt.Errorf("failed to get contributor: %w", err)
	}

	return contributor, nil
}

// List implements store.ContributorStore.List
func (s *PostgresContributorStore) List(ctx context.Context) ([]*domain.Contributor, error) {
	query := `
		SELECT ` + contributorColumns + `
		FROM contributors c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Error("failed to list contributors", "error", err)
		return nil, fmt.Errorf("failed to list contributors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var contributors []*domain.Contributor
	for rows.Next() {
		contributor, err := scanContributor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contributor row: %w", err)
		}
		contributors = append(contributors, contributor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributor rows: %w", err)
	}

	return contributors, nil
}

// Update implements store.ContributorStore.Update
func (s *PostgresContributorStore) Update(ctx context.Context, contributor *domain.Contributor, newPassword string) error {
	if err := contributor.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		skills, err := marshalSkills(contributor.Skills)
		if err != nil {
			return err
		}

		contributor.UpdatedAt = time.Now().UTC()

		query := `
			UPDATE contributors
			SET skills = $1, joined_on = $2, updated_at = $3
			WHERE id = $4
		`

		result, err := tx.ExecContext(ctx, query,
			skills,
			dueDateArg(contributor.JoinedOn),
			contributor.UpdatedAt,
			contributor.ID,
		)
		if err != nil {
			s.logger.Error("failed to update contributor",
				"contributor_id", contributor.ID, "error", err)
			return MapError(err)
		}

		if err := CheckRowsAffected(result, "contributor"); err != nil {
			return store.ErrContributorNotFound
		}

		return s.updateBackingUser(ctx, tx, contributor, newPassword)
	})
}

// updateBackingUser applies name, email and password changes to the
// contributor's user account inside the caller's transaction. Fields
// left empty are preserved.
func (s *PostgresContributorStore) updateBackingUser(ctx context.Context, tx *sql.Tx, contributor *domain.Contributor, newPassword string) error {
	if contributor.Name == "" && contributor.Email == "" && newPassword == "" {
		return nil
	}

	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($1, ''), name),
			email = COALESCE(NULLIF($2, ''), email),
			updated_at = $3
		WHERE id = $4
	`

	if _, err := tx.ExecContext(ctx, query,
		contributor.Name,
		contributor.Email,
		time.Now().UTC(),
		contributor.UserID,
	); err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return MapError(err)
	}

	if newPassword == "" {
		return nil
	}

	if len(newPassword) < 8 {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrPasswordTooShort)
	}

	hash, err := s.userStore.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET hashed_password = $1, updated_at = $2 WHERE id = $3`,
		hash, time.Now().UTC(), contributor.UserID)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// Delete implements store.ContributorStore.Delete
// Task assignments referencing the contributor are removed by the
// ON DELETE CASCADE on task_assignees.
func (s *PostgresContributorStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM contributors WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete contributor", "contributor_id", id, "error", err)
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "contributor"); err != nil {
		return store.ErrContributorNotFound
	}

	return nil
}

// scanContributor reads one contributor row in contributorColumns order.
func scanContributor(row scanner) (*domain.Contributor, error) {
	var contributor domain.Contributor
	var skills []byte
	var joinedOn sql.NullTime

	err := row.Scan(
		&contributor.ID,
		&contributor.UserID,
		&contributor.Name,
		&contributor.Email,
		&skills,
		&joinedOn,
		&contributor.CreatedAt,
		&contributor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &contributor.Skills); err != nil {
			return nil, fmt.Errorf("failed to decode contributor skills: %w", err)
		}
	}

	if joinedOn.Valid {
		d := joinedOn.Time
		contributor.JoinedOn = &d
	}

	return &contributor, nil
}

// marshalSkills encodes the skills list for the JSONB column. A nil
// list is stored as an empty array.
func marshalSkills(skills []string) ([]byte, error) {
	if skills == nil {
		skills = []string{}
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contributor skills: %w", err)
	}
	return data, nil
}
