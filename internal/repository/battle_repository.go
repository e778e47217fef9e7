package repository

import (
	"context"
	"fmt"
	"time"

	"vv-api/internal/domain"
	"vv-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

type battleRepository struct {
	db *database.PostgresDB
}

// NewBattleRepository creates a Postgres-backed battle repository
func NewBattleRepository(db *database.PostgresDB) BattleRepository {
	return &battleRepository{db: db}
}

// Create inserts a new battle with no participants or votes
func (r *battleRepository) Create(ctx context.Context, battle *domain.Battle) error {
	query := `
		INSERT INTO battles (id, title, description, format, time_limit, max_participants, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		battle.ID,
		battle.Title,
		battle.Description,
		battle.Format,
		battle.TimeLimit,
		battle.MaxParticipants,
		battle.Status,
		battle.CreatedBy,
	).Scan(&battle.CreatedAt, &battle.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create battle: %w", err)
	}
	return nil
}

// GetByID loads a full battle document outside a transaction
func (r *battleRepository) GetByID(ctx context.Context, id string) (*domain.Battle, error) {
	return r.loadBattle(ctx, r.db.Pool, id, false)
}

// List returns battle summaries ordered by creation time descending.
// An empty status returns battles in every phase.
func (r *battleRepository) List(ctx context.Context, status domain.BattleStatus, limit int) ([]domain.BattleSummary, error) {
	query := `
		SELECT b.id, b.title, b.description, b.format, b.time_limit, b.max_participants,
		       b.status, b.created_by, COALESCE(b.winner_id, ''), b.created_at,
		       (SELECT COUNT(*) FROM battle_participants p WHERE p.battle_id = b.id),
		       (SELECT COUNT(*) FROM battle_votes v WHERE v.battle_id = b.id)
		FROM battles b
		WHERE ($1 = '' OR b.status = $1)
		ORDER BY b.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list battles: %w", err)
	}
	defer rows.Close()

	var battles []domain.BattleSummary
	for rows.Next() {
		var b domain.BattleSummary
		err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Description,
			&b.Format,
			&b.TimeLimit,
			&b.MaxParticipants,
			&b.Status,
			&b.CreatedBy,
			&b.Winner,
			&b.CreatedAt,
			&b.ParticipantCount,
			&b.VoteCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan battle: %w", err)
		}
		battles = append(battles, b)
	}

	return battles, rows.Err()
}

// Join adds a participant inside a transaction with the battle row
// locked, so concurrent joiners cannot overshoot capacity or double-join
func (r *battleRepository) Join(ctx context.Context, battleID string, participant domain.Participant) (*domain.Battle, error) {
	var battle *domain.Battle

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		b, err := r.loadBattle(ctx, tx, battleID, true)
		if err != nil {
			return err
		}

		participant.JoinedAt = time.Now().UTC()
		if err := b.Join(participant); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO battle_participants (battle_id, user_id, display_name, photo_url, joined_at)
			VALUES ($1, $2, $3, $4, $5)`,
			battleID, participant.UserID, participant.DisplayName, participant.PhotoURL, participant.JoinedAt)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}

		if err := r.saveStatus(ctx, tx, b); err != nil {
			return err
		}

		battle = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return battle, nil
}

// SubmitPerformance attaches a performance to the caller's participant
// row, moving the battle to voting once every participant has submitted
func (r *battleRepository) SubmitPerformance(ctx context.Context, battleID, userID, content string) (*domain.Battle, error) {
	var battle *domain.Battle

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		b, err := r.loadBattle(ctx, tx, battleID, true)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := b.SubmitPerformance(userID, content, now); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE battle_participants
			SET performance_content = $1, performance_submitted_at = $2
			WHERE battle_id = $3 AND user_id = $4`,
			content, now, battleID, userID)
		if err != nil {
			return fmt.Errorf("failed to record performance: %w", err)
		}

		if err := r.saveStatus(ctx, tx, b); err != nil {
			return err
		}

		battle = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return battle, nil
}

// CastVote records a spectator vote with the battle row locked
func (r *battleRepository) CastVote(ctx context.Context, battleID, voterID, participantID string) (*domain.Battle, error) {
	var battle *domain.Battle

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		b, err := r.loadBattle(ctx, tx, battleID, true)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := b.CastVote(voterID, participantID, now); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO battle_votes (battle_id, voter_id, participant_id, created_at)
			VALUES ($1, $2, $3, $4)`,
			battleID, voterID, participantID, now)
		if err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE battle_participants
			SET performance_votes = performance_votes + 1
			WHERE battle_id = $1 AND user_id = $2`,
			battleID, participantID)
		if err != nil {
			return fmt.Errorf("failed to update vote tally: %w", err)
		}

		battle = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return battle, nil
}

// Finalize tallies the votes, sets the winner and completes the battle,
// bumping the win/loss counters of every participant
func (r *battleRepository) Finalize(ctx context.Context, battleID, callerID string) (*domain.Battle, error) {
	var battle *domain.Battle

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		b, err := r.loadBattle(ctx, tx, battleID, true)
		if err != nil {
			return err
		}

		if err := b.Finalize(callerID); err != nil {
			return err
		}

		var winner interface{}
		if b.Winner != "" {
			winner = b.Winner
		}
		_, err = tx.Exec(ctx, `
			UPDATE battles SET status = $1, winner_id = $2, updated_at = NOW()
			WHERE id = $3`,
			b.Status, winner, battleID)
		if err != nil {
			return fmt.Errorf("failed to finalize battle: %w", err)
		}

		for i := range b.Participants {
			p := &b.Participants[i]
			won := b.Winner != "" && p.UserID == b.Winner
			_, err = tx.Exec(ctx, `
				UPDATE users
				SET wins = wins + $1, losses = losses + $2, total_battles = total_battles + 1,
				    updated_at = NOW()
				WHERE id = $3`,
				boolToInt(won), boolToInt(b.Winner != "" && !won), p.UserID)
			if err != nil {
				return fmt.Errorf("failed to update battle stats: %w", err)
			}
		}

		battle = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return battle, nil
}

// loadBattle reconstructs the full battle document. With forUpdate set
// the battle row is locked for the duration of the transaction.
func (r *battleRepository) loadBattle(ctx context.Context, q queryer, id string, forUpdate bool) (*domain.Battle, error) {
	query := `
		SELECT id, title, description, format, time_limit, max_participants, status,
		       created_by, COALESCE(winner_id, ''), created_at, updated_at
		FROM battles
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var b domain.Battle
	err := q.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Title,
		&b.Description,
		&b.Format,
		&b.TimeLimit,
		&b.MaxParticipants,
		&b.Status,
		&b.CreatedBy,
		&b.Winner,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrBattleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get battle: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT user_id, display_name, photo_url, joined_at,
		       performance_content, performance_submitted_at, performance_votes
		FROM battle_participants
		WHERE battle_id = $1
		ORDER BY joined_at ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Participant
		var content *string
		var submittedAt *time.Time
		var votes int
		if err := rows.Scan(&p.UserID, &p.DisplayName, &p.PhotoURL, &p.JoinedAt,
			&content, &submittedAt, &votes); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if content != nil && submittedAt != nil {
			p.Performance = &domain.Performance{
				Content:     *content,
				SubmittedAt: *submittedAt,
				Votes:       votes,
			}
		}
		b.Participants = append(b.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	voteRows, err := q.Query(ctx, `
		SELECT voter_id, participant_id, created_at
		FROM battle_votes
		WHERE battle_id = $1
		ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}
	defer voteRows.Close()

	for voteRows.Next() {
		var v domain.Vote
		if err := voteRows.Scan(&v.VoterID, &v.ParticipantID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		b.Votes = append(b.Votes, v)
	}
	return &b, voteRows.Err()
}

// saveStatus persists the battle's status after a lifecycle transition
func (r *battleRepository) saveStatus(ctx context.Context, tx pgx.Tx, b *domain.Battle) error {
	_, err := tx.Exec(ctx, `UPDATE battles SET status = $1, updated_at = NOW() WHERE id = $2`,
		b.Status, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update battle status: %w", err)
	}
	return nil
}

// queryer is satisfied by both the pool and a transaction
type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
