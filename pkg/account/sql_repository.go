package account

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/msulikowski96-cmd/newcvtoai/pkg/storage"
)

const accountColumns = `id, email, password_hash, name, bio, avatar, theme,
	target_role, experience_level, linkedin_url, github_url, preferences, created_at`

// SQLRepository implements Repository on top of the storage adapter. The same
// code serves both backends; all queries use `?` placeholders.
type SQLRepository struct {
	db storage.DB
}

func NewSQLRepository(db storage.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, a Account) (Account, error) {
	prefs, err := json.Marshal(a.Preferences)
	if err != nil {
		return Account{}, err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.Run(ctx, `
		INSERT INTO accounts (email, password_hash, name, bio, avatar, theme,
			target_role, experience_level, linkedin_url, github_url, preferences, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Email, a.PasswordHash, a.Name, a.Bio, a.Avatar, a.Theme,
		a.TargetRole, a.ExperienceLevel, a.LinkedInURL, a.GitHubURL, string(prefs), a.CreatedAt)
	if err != nil {
		return Account{}, err
	}
	a.ID = res.InsertedID
	return a, nil
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (Account, error) {
	row, err := r.db.Get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	if err != nil {
		return Account{}, err
	}
	if row == nil {
		return Account{}, ErrNotFound
	}
	return scanAccount(row), nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (Account, error) {
	row, err := r.db.Get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	if err != nil {
		return Account{}, err
	}
	if row == nil {
		return Account{}, ErrNotFound
	}
	return scanAccount(row), nil
}

// UpdateProfile applies a partial update as a single statement; fields left
// nil keep their stored values.
func (r *SQLRepository) UpdateProfile(ctx context.Context, id int64, u ProfileUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("name", u.Name)
	add("bio", u.Bio)
	add("theme", u.Theme)
	add("target_role", u.TargetRole)
	add("experience_level", u.ExperienceLevel)
	add("linkedin_url", u.LinkedInURL)
	add("github_url", u.GitHubURL)
	if u.Preferences != nil {
		prefs, err := json.Marshal(u.Preferences)
		if err != nil {
			return err
		}
		sets = append(sets, "preferences = ?")
		args = append(args, string(prefs))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.db.Run(ctx, `UPDATE accounts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return err
}

func (r *SQLRepository) SetAvatar(ctx context.Context, id int64, ref string) error {
	_, err := r.db.Run(ctx, `UPDATE accounts SET avatar = ? WHERE id = ?`, ref, id)
	return err
}

func scanAccount(row storage.Row) Account {
	a := Account{
		ID:              row.Int64("id"),
		Email:           row.String("email"),
		PasswordHash:    row.String("password_hash"),
		Name:            row.String("name"),
		Bio:             row.String("bio"),
		Avatar:          row.String("avatar"),
		Theme:           row.String("theme"),
		TargetRole:      row.String("target_role"),
		ExperienceLevel: row.String("experience_level"),
		LinkedInURL:     row.String("linkedin_url"),
		GitHubURL:       row.String("github_url"),
		Preferences:     DefaultPreferences(),
		CreatedAt:       row.Time("created_at"),
	}
	if raw := row.String("preferences"); raw != "" && raw != "{}" {
		_ = json.Unmarshal([]byte(raw), &a.Preferences)
	}
	if a.Preferences.Keywords == nil {
		a.Preferences.Keywords = []string{}
	}
	if a.Preferences.Sections == nil {
		a.Preferences.Sections = []string{}
	}
	return a
}
