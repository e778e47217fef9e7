package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS chat_messages CASCADE`,
		`DROP TABLE IF EXISTS moderation_items CASCADE`,
		`DROP TABLE IF EXISTS media CASCADE`,
		`DROP TABLE IF EXISTS battle_votes CASCADE`,
		`DROP TABLE IF EXISTS battle_participants CASCADE`,
		`DROP TABLE IF EXISTS battles CASCADE`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			username VARCHAR(30) NOT NULL,
			display_name VARCHAR(50) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			bio TEXT,
			avatar_url TEXT,
			social_links JSONB NOT NULL DEFAULT '{}',
			wins INTEGER NOT NULL DEFAULT 0,
			losses INTEGER NOT NULL DEFAULT 0,
			total_battles INTEGER NOT NULL DEFAULT 0,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT users_email_key UNIQUE (email),
			CONSTRAINT users_username_key UNIQUE (username),
			CONSTRAINT users_username_length CHECK (char_length(username) >= 3)
		)`,

		`CREATE TABLE IF NOT EXISTS battles (
			id UUID PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			description VARCHAR(500) NOT NULL DEFAULT '',
			format VARCHAR(20) NOT NULL,
			time_limit INTEGER NOT NULL,
			max_participants INTEGER NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'waiting',
			created_by UUID NOT NULL REFERENCES users(id),
			winner_id UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT battles_format_check CHECK (format IN ('freestyle', 'written', 'cypher')),
			CONSTRAINT battles_status_check CHECK (status IN ('waiting', 'active', 'voting', 'completed')),
			CONSTRAINT battles_time_limit_check CHECK (time_limit BETWEEN 30 AND 600),
			CONSTRAINT battles_max_participants_check CHECK (max_participants BETWEEN 2 AND 10)
		)`,

		`CREATE TABLE IF NOT EXISTS battle_participants (
			battle_id UUID NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id),
			display_name VARCHAR(50) NOT NULL,
			photo_url TEXT NOT NULL DEFAULT '',
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			performance_content TEXT,
			performance_submitted_at TIMESTAMPTZ,
			performance_votes INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (battle_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS battle_votes (
			battle_id UUID NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
			voter_id UUID NOT NULL REFERENCES users(id),
			participant_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (battle_id, voter_id)
		)`,

		`CREATE TABLE IF NOT EXISTS media (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			title VARCHAR(100) NOT NULL,
			description VARCHAR(500),
			type VARCHAR(10) NOT NULL,
			category VARCHAR(20) NOT NULL,
			url TEXT NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			privacy VARCHAR(10) NOT NULL DEFAULT 'public',
			views BIGINT NOT NULL DEFAULT 0,
			likes BIGINT NOT NULL DEFAULT 0,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT media_type_check CHECK (type IN ('video', 'audio')),
			CONSTRAINT media_category_check CHECK (category IN ('freestyle', 'battle', 'cypher', 'beat', 'interview')),
			CONSTRAINT media_privacy_check CHECK (privacy IN ('public', 'private', 'unlisted')),
			CONSTRAINT media_status_check CHECK (status IN ('pending', 'approved', 'rejected'))
		)`,

		`CREATE TABLE IF NOT EXISTS moderation_items (
			id UUID PRIMARY KEY,
			content_type VARCHAR(20) NOT NULL,
			content_ref TEXT NOT NULL,
			content_excerpt TEXT NOT NULL,
			reported_by UUID REFERENCES users(id),
			ai_safety_score DOUBLE PRECISION,
			ai_recommendation TEXT,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			reviewed_by UUID REFERENCES users(id),
			reviewed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT moderation_content_type_check CHECK (content_type IN ('media', 'battle_performance', 'chat')),
			CONSTRAINT moderation_status_check CHECK (status IN ('pending', 'approved', 'rejected', 'flagged'))
		)`,

		`CREATE TABLE IF NOT EXISTS chat_messages (
			id UUID PRIMARY KEY,
			battle_id UUID NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id),
			username VARCHAR(30) NOT NULL,
			message VARCHAR(500) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_battles_status_created ON battles(status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_media_feed ON media(privacy, status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_media_owner ON media(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_moderation_pending ON moderation_items(status, created_at ASC)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_battle ON chat_messages(battle_id, created_at DESC)`,
	}

	for i, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query %d: %w", i+1, err)
		}
	}
	fmt.Printf("  Created %d tables and indexes\n", len(queries))

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	// bcrypt hash of "changeme123" for local development accounts
	const devHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

	users := []struct {
		id, email, username, displayName string
	}{
		{"11111111-1111-1111-1111-111111111111", "mc.flow@example.com", "mc_flow", "MC Flow"},
		{"22222222-2222-2222-2222-222222222222", "lyric.queen@example.com", "lyric_queen", "Lyric Queen"},
		{"33333333-3333-3333-3333-333333333333", "spectator@example.com", "beat_lover", "Beat Lover"},
	}

	for _, u := range users {
		_, err := conn.Exec(ctx, `
			INSERT INTO users (id, email, username, display_name, password_hash)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			u.id, u.email, u.username, u.displayName, devHash)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.username, err)
		}
	}

	_, err := conn.Exec(ctx, `
		INSERT INTO battles (id, title, description, format, time_limit, max_participants, status, created_by)
		VALUES ('aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa',
		        'Friday Night Cypher', 'Open freestyle session, all levels welcome',
		        'freestyle', 120, 4, 'waiting', '11111111-1111-1111-1111-111111111111')
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to seed battle: %w", err)
	}

	fmt.Printf("  Seeded %d users and 1 battle\n", len(users))
	return nil
}
