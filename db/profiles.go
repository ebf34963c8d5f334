package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"simquiz_backend/models"
)

const profileColumns = `id, email, full_name, role, institution, subscription_status, subscription_id, trial_ends_at, created_at`

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.Institution,
		&p.SubscriptionStatus, &p.SubscriptionID, &p.TrialEndsAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	return &p, nil
}

func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return scanProfile(s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID))
}

// EnsureProfile returns the user's profile, creating a free-tier row on
// first sight.
func (s *Store) EnsureProfile(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, userID, email)
	if err != nil {
		return nil, fmt.Errorf("error creating profile: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

// ApplyProfileUpdate writes billing fields from a payment event. The row is
// selected by user id when present, otherwise by subscription id. Updates
// that match no row are not an error; the event may precede the profile.
func (s *Store) ApplyProfileUpdate(ctx context.Context, u models.ProfileUpdate) (int64, error) {
	sets := []string{"subscription_status = $1"}
	args := []any{u.Status}
	if u.SetSubscriptionID {
		args = append(args, u.NewSubscriptionID)
		sets = append(sets, fmt.Sprintf("subscription_id = $%d", len(args)))
	}
	if u.SetTrialEndsAt {
		args = append(args, u.TrialEndsAt)
		sets = append(sets, fmt.Sprintf("trial_ends_at = $%d", len(args)))
	}

	var where string
	switch {
	case u.UserID != nil:
		args = append(args, *u.UserID)
		where = fmt.Sprintf("id = $%d", len(args))
	case u.SubscriptionID != "":
		args = append(args, u.SubscriptionID)
		where = fmt.Sprintf("subscription_id = $%d", len(args))
	default:
		return 0, errors.New("profile update has no selector")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET `+strings.Join(sets, ", ")+` WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("error updating profile: %w", err)
	}
	return res.RowsAffected()
}
