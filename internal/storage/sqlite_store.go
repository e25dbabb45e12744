package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mayatruitt/habitpal/internal/migration"
	"github.com/mayatruitt/habitpal/internal/models"
	"github.com/mayatruitt/habitpal/migrations"
)

// SQLiteStore is the default backend. Timestamps are stored as RFC3339
// text; the weekly bucket day array, companion status and settings are
// stored as JSON documents.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seed default settings if not present
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitpal init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchemaVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.Apply(nil)
	return err
}

func (s *SQLiteStore) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// DB exposes the underlying handle for diagnostics.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	var raw string
	if err := s.db.QueryRow(`SELECT data FROM settings WHERE id = 1`).Scan(&raw); err != nil {
		return models.Settings{}, err
	}
	var settings models.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO settings (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data`, string(data))
	return err
}

func (s *SQLiteStore) GetAllGoals() ([]models.Goal, error) {
	rows, err := s.db.Query(`
		SELECT id, title, category, target_count, interval_seconds, start_time,
		       is_active, is_default, requires_session, reminder_time, created_at
		FROM goals ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		var startTime, createdAt string
		if err := rows.Scan(&g.ID, &g.Title, &g.Category, &g.TargetCount, &g.IntervalSeconds,
			&startTime, &g.IsActive, &g.IsDefault, &g.RequiresSession, &g.ReminderTime, &createdAt); err != nil {
			return nil, err
		}
		if g.StartTime, err = time.Parse(time.RFC3339, startTime); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if g.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *SQLiteStore) SaveGoal(goal models.Goal) error {
	_, err := s.db.Exec(`
		INSERT INTO goals (id, title, category, target_count, interval_seconds, start_time,
		                   is_active, is_default, requires_session, reminder_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			target_count = excluded.target_count,
			interval_seconds = excluded.interval_seconds,
			start_time = excluded.start_time,
			is_active = excluded.is_active,
			is_default = excluded.is_default,
			requires_session = excluded.requires_session,
			reminder_time = excluded.reminder_time`,
		goal.ID, goal.Title, goal.Category, goal.TargetCount, goal.IntervalSeconds,
		goal.StartTime.Format(time.RFC3339), goal.IsActive, goal.IsDefault,
		goal.RequiresSession, goal.ReminderTime, goal.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) DeleteGoal(id string) error {
	if _, err := s.db.Exec(`DELETE FROM entries WHERE goal_id = ?`, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM subtype_cooldowns WHERE goal_id = ?`, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM weekly_buckets WHERE goal_id = ?`, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM streaks WHERE goal_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) GetEntries(goalID string) ([]models.GoalEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, goal_id, scheduled_time, completed, timestamp, next_available_time, subtype
		FROM entries WHERE goal_id = ? ORDER BY scheduled_time`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.GoalEntry
	for rows.Next() {
		var e models.GoalEntry
		var scheduled string
		var ts, next sql.NullString
		if err := rows.Scan(&e.ID, &e.GoalID, &scheduled, &e.Completed, &ts, &next, &e.Subtype); err != nil {
			return nil, err
		}
		if e.ScheduledTime, err = time.Parse(time.RFC3339, scheduled); err != nil {
			return nil, fmt.Errorf("failed to parse scheduled_time: %w", err)
		}
		if ts.Valid {
			t, err := time.Parse(time.RFC3339, ts.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse timestamp: %w", err)
			}
			e.Timestamp = &t
		}
		if next.Valid {
			t, err := time.Parse(time.RFC3339, next.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse next_available_time: %w", err)
			}
			e.NextAvailableTime = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) SaveEntry(entry models.GoalEntry) error {
	var ts, next interface{}
	if entry.Timestamp != nil {
		ts = entry.Timestamp.Format(time.RFC3339)
	}
	if entry.NextAvailableTime != nil {
		next = entry.NextAvailableTime.Format(time.RFC3339)
	}
	_, err := s.db.Exec(`
		INSERT INTO entries (id, goal_id, scheduled_time, completed, timestamp, next_available_time, subtype)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			completed = excluded.completed,
			timestamp = excluded.timestamp,
			next_available_time = excluded.next_available_time,
			subtype = excluded.subtype`,
		entry.ID, entry.GoalID, entry.ScheduledTime.Format(time.RFC3339),
		entry.Completed, ts, next, entry.Subtype)
	return err
}

func (s *SQLiteStore) ReplaceEntries(goalID string, entries []models.GoalEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM entries WHERE goal_id = ?`, goalID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, entry := range entries {
		var ts, next interface{}
		if entry.Timestamp != nil {
			ts = entry.Timestamp.Format(time.RFC3339)
		}
		if entry.NextAvailableTime != nil {
			next = entry.NextAvailableTime.Format(time.RFC3339)
		}
		if _, err := tx.Exec(`
			INSERT INTO entries (id, goal_id, scheduled_time, completed, timestamp, next_available_time, subtype)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.GoalID, entry.ScheduledTime.Format(time.RFC3339),
			entry.Completed, ts, next, entry.Subtype); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetSubtypeCooldowns(goalID string) (map[string]time.Time, error) {
	rows, err := s.db.Query(`SELECT subtype, until FROM subtype_cooldowns WHERE goal_id = ?`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var subtype, until string
		if err := rows.Scan(&subtype, &until); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			continue // drop unparseable records, never fail the load
		}
		out[subtype] = t
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveSubtypeCooldowns(goalID string, cooldowns map[string]time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM subtype_cooldowns WHERE goal_id = ?`, goalID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for subtype, until := range cooldowns {
		if _, err := tx.Exec(`
			INSERT INTO subtype_cooldowns (goal_id, subtype, until) VALUES (?, ?, ?)`,
			goalID, subtype, until.Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetWeeklyBuckets() ([]models.WeeklyBucket, error) {
	rows, err := s.db.Query(`SELECT goal_id, week_start_date, days FROM weekly_buckets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []models.WeeklyBucket
	for rows.Next() {
		var b models.WeeklyBucket
		var days string
		if err := rows.Scan(&b.GoalID, &b.WeekStartDate, &days); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(days), &b.Days); err != nil {
			continue // corrupt day data is dropped, not fatal
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (s *SQLiteStore) SaveWeeklyBucket(bucket models.WeeklyBucket) error {
	days, err := json.Marshal(bucket.Days)
	if err != nil {
		return fmt.Errorf("failed to serialize day buckets: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO weekly_buckets (goal_id, week_start_date, days) VALUES (?, ?, ?)
		ON CONFLICT(goal_id, week_start_date) DO UPDATE SET days = excluded.days`,
		bucket.GoalID, bucket.WeekStartDate, string(days))
	return err
}

func (s *SQLiteStore) DeleteWeeklyBuckets(goalID string) error {
	_, err := s.db.Exec(`DELETE FROM weekly_buckets WHERE goal_id = ?`, goalID)
	return err
}

func (s *SQLiteStore) GetCompanionStatus() (models.CompanionStatus, error) {
	var raw string
	if err := s.db.QueryRow(`SELECT data FROM companion_status WHERE id = 1`).Scan(&raw); err != nil {
		return models.CompanionStatus{}, err
	}
	var status models.CompanionStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return models.CompanionStatus{}, fmt.Errorf("failed to parse companion status: %w", err)
	}
	return status, nil
}

func (s *SQLiteStore) SaveCompanionStatus(status models.CompanionStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to serialize companion status: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO companion_status (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data`, string(data))
	return err
}

func (s *SQLiteStore) GetStreaks() ([]models.GoalStreak, error) {
	rows, err := s.db.Query(`
		SELECT goal_id, current_streak, best_streak, last_completion_date, total_completions, perfect_weeks
		FROM streaks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streaks []models.GoalStreak
	for rows.Next() {
		var st models.GoalStreak
		if err := rows.Scan(&st.GoalID, &st.CurrentStreak, &st.BestStreak,
			&st.LastCompletionDate, &st.TotalCompletions, &st.PerfectWeeks); err != nil {
			return nil, err
		}
		streaks = append(streaks, st)
	}
	return streaks, rows.Err()
}

func (s *SQLiteStore) SaveStreak(streak models.GoalStreak) error {
	_, err := s.db.Exec(`
		INSERT INTO streaks (goal_id, current_streak, best_streak, last_completion_date, total_completions, perfect_weeks)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(goal_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			best_streak = excluded.best_streak,
			last_completion_date = excluded.last_completion_date,
			total_completions = excluded.total_completions,
			perfect_weeks = excluded.perfect_weeks`,
		streak.GoalID, streak.CurrentStreak, streak.BestStreak,
		streak.LastCompletionDate, streak.TotalCompletions, streak.PerfectWeeks)
	return err
}

func (s *SQLiteStore) GetAchievements() ([]models.Achievement, error) {
	rows, err := s.db.Query(`
		SELECT id, type, level, progress, is_completed, date_earned FROM achievements`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		var earned sql.NullString
		if err := rows.Scan(&a.ID, &a.Type, &a.Level, &a.Progress, &a.IsCompleted, &earned); err != nil {
			return nil, err
		}
		if earned.Valid {
			t, err := time.Parse(time.RFC3339, earned.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse date_earned: %w", err)
			}
			a.DateEarned = &t
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func (s *SQLiteStore) SaveAchievements(achievements []models.Achievement) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, a := range achievements {
		var earned interface{}
		if a.DateEarned != nil {
			earned = a.DateEarned.Format(time.RFC3339)
		}
		if _, err := tx.Exec(`
			INSERT INTO achievements (id, type, level, progress, is_completed, date_earned)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				progress = excluded.progress,
				is_completed = excluded.is_completed,
				date_earned = excluded.date_earned`,
			a.ID, a.Type, a.Level, a.Progress, a.IsCompleted, earned); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
