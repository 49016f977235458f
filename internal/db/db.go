package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Conn *pgxpool.Pool

// Init connects to Postgres
func Init() {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	log.Println("Connected to Postgres successfully")

	// Base tables
	ensureUsersTable()
	ensureOfferingsTable()
	ensureCreditTables()

	// Matching & trade lifecycle
	ensureMatchIntentsTable()
	ensureTradeTables()
	ensureReviewsTable()

	// In-app notifications and loop chat
	ensureNotificationsTable()
	ensureLoopMessagesTable()
}

// ensureUsersTable creates users with the scoring-view columns the match
// engine reads (trust, verification flags, trade statistics).
func ensureUsersTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('member','admin')),
            city TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            bio TEXT,
            avatar_url TEXT,
            trust_score DOUBLE PRECISION NOT NULL DEFAULT 50,
            phone_verified BOOLEAN NOT NULL DEFAULT FALSE,
            email_verified BOOLEAN NOT NULL DEFAULT FALSE,
            business_verified BOOLEAN NOT NULL DEFAULT FALSE,
            response_time_hours DOUBLE PRECISION NOT NULL DEFAULT 24,
            completion_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
            cancellation_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_trades INTEGER NOT NULL DEFAULT 0,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		log.Printf("failed to create users table: %v", err)
	}
}

func ensureOfferingsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS offerings (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            category TEXT NOT NULL,
            title TEXT NOT NULL,
            description TEXT,
            skill_level TEXT NOT NULL DEFAULT 'intermediate' CHECK (skill_level IN ('beginner','intermediate','expert')),
            avg_delivery_days DOUBLE PRECISION NOT NULL DEFAULT 7,
            success_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','paused','removed')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_offerings_user ON offerings(user_id);
        CREATE INDEX IF NOT EXISTS idx_offerings_category ON offerings(category) WHERE status = 'active';
    `)
	if err != nil {
		log.Printf("failed to create offerings table: %v", err)
	}
}

// ensureCreditTables creates the time-credit account and its ledger.
func ensureCreditTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS credit_accounts (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            balance NUMERIC(12,2) NOT NULL DEFAULT 0,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS credit_entries (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            amount NUMERIC(12,2) NOT NULL,
            kind TEXT NOT NULL CHECK (kind IN ('grant','earn','spend')),
            loop_id UUID NULL,
            note TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_credit_entries_user_created ON credit_entries(user_id, created_at);
    `)
	if err != nil {
		log.Printf("failed to create credit tables: %v", err)
	}
}

// ensureMatchIntentsTable creates the roster of pending offer/need edges
// that feeds loop discovery.
func ensureMatchIntentsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS match_intents (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            offers_category TEXT NOT NULL,
            needs_category TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','matched','cancelled')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_match_intents_active ON match_intents(status) WHERE status = 'active';
    `)
	if err != nil {
		log.Printf("failed to create match_intents table: %v", err)
	}
}

func ensureTradeTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS trade_loops (
            id UUID PRIMARY KEY,
            loop_type TEXT NOT NULL CHECK (loop_type IN ('two_way','three_way')),
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','active','completed','declined','expired')),
            created_by UUID REFERENCES users(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS trade_participants (
            id UUID PRIMARY KEY,
            loop_id UUID NOT NULL REFERENCES trade_loops(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            offers_category TEXT NOT NULL,
            needs_category TEXT NOT NULL,
            delivers_to UUID NOT NULL,
            receives_from UUID NOT NULL,
            hours_give DOUBLE PRECISION NOT NULL,
            hours_receive DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','accepted','declined')),
            delivered BOOLEAN NOT NULL DEFAULT FALSE,
            UNIQUE (loop_id, user_id)
        );
        CREATE INDEX IF NOT EXISTS idx_trade_participants_user ON trade_participants(user_id);
        CREATE INDEX IF NOT EXISTS idx_trade_participants_loop ON trade_participants(loop_id);
    `)
	if err != nil {
		log.Printf("failed to create trade tables: %v", err)
	}
}

func ensureReviewsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS reviews (
            id UUID PRIMARY KEY,
            loop_id UUID NOT NULL REFERENCES trade_loops(id) ON DELETE CASCADE,
            reviewer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            reviewee_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (loop_id, reviewer_id, reviewee_id)
        );
        CREATE INDEX IF NOT EXISTS idx_reviews_reviewee ON reviews(reviewee_id);
    `)
	if err != nil {
		log.Printf("failed to create reviews table: %v", err)
	}
}

// ensureNotificationsTable creates notifications table if it doesn't exist
func ensureNotificationsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS notifications (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type TEXT NOT NULL,
            title TEXT NOT NULL,
            body TEXT,
            reference UUID NULL,
            metadata JSONB NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id) WHERE read_at IS NULL;
    `)
	if err != nil {
		log.Printf("failed to create notifications table: %v", err)
	}
}

func ensureLoopMessagesTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS loop_messages (
            id UUID PRIMARY KEY,
            loop_id UUID NOT NULL REFERENCES trade_loops(id) ON DELETE CASCADE,
            sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_loop_messages_loop_created ON loop_messages(loop_id, created_at);
    `)
	if err != nil {
		log.Printf("failed to create loop_messages table: %v", err)
	}
}
