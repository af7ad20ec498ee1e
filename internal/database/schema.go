package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates every table the service needs. Statements
// are idempotent so EnsureSchema can run on every startup. Foreign key
// order matters: referenced tables come first.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS shows (
        show_id    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        show_name  VARCHAR(255)    NOT NULL,
        active     TINYINT(1)      NOT NULL DEFAULT 1,
        created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (show_id),
        UNIQUE KEY uq_shows_name (show_name)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS crates (
        crate_id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        crate_name VARCHAR(255)    NOT NULL,
        created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (crate_id),
        UNIQUE KEY uq_crates_name (crate_name)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS show_crate (
        show_id  BIGINT UNSIGNED NOT NULL,
        crate_id BIGINT UNSIGNED NOT NULL,
        PRIMARY KEY (show_id, crate_id),
        CONSTRAINT fk_show_crate_show  FOREIGN KEY (show_id)  REFERENCES shows (show_id),
        CONSTRAINT fk_show_crate_crate FOREIGN KEY (crate_id) REFERENCES crates (crate_id)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS artists (
        artist_id   CHAR(36)     NOT NULL,
        artist_name VARCHAR(255) NOT NULL,
        PRIMARY KEY (artist_id),
        UNIQUE KEY uq_artists_name (artist_name)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// seq records insertion order within the table; the picker sorts by
	// (crate_id, seq) so listings stay stable as songs are added.
	`CREATE TABLE IF NOT EXISTS songs (
        song_id    CHAR(36)        NOT NULL,
        crate_id   BIGINT UNSIGNED NOT NULL,
        hash       VARCHAR(64)     NOT NULL,
        artist_id  CHAR(36)        NOT NULL,
        song_title VARCHAR(255)    NOT NULL,
        song_tempo INT UNSIGNED    NULL,
        song_key   VARCHAR(16)     NULL,
        seq        BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        added_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (song_id),
        UNIQUE KEY uq_songs_hash (hash),
        UNIQUE KEY uq_songs_seq (seq),
        KEY idx_songs_crate (crate_id),
        CONSTRAINT fk_songs_crate  FOREIGN KEY (crate_id)  REFERENCES crates (crate_id),
        CONSTRAINT fk_songs_artist FOREIGN KEY (artist_id) REFERENCES artists (artist_id)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// requested_at keeps microsecond precision so queue ordering rarely
	// needs the ticket_id tiebreak.
	`CREATE TABLE IF NOT EXISTS ticket (
        ticket_id    CHAR(36)        NOT NULL,
        show_id      BIGINT UNSIGNED NOT NULL,
        requested_by VARCHAR(255)    NOT NULL,
        ip_address   VARCHAR(45)     NOT NULL,
        reverse_dns  VARCHAR(255)    NULL,
        notes        TEXT            NULL,
        printed      TINYINT(1)      NOT NULL DEFAULT 0,
        printed_at   TIMESTAMP(6)    NULL,
        printed_by   VARCHAR(128)    NULL,
        requested_at TIMESTAMP(6)    NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
        PRIMARY KEY (ticket_id),
        KEY idx_ticket_queue (show_id, printed, requested_at),
        CONSTRAINT fk_ticket_show FOREIGN KEY (show_id) REFERENCES shows (show_id)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS freeform_request (
        ticket_id CHAR(36)     NOT NULL,
        artist    VARCHAR(255) NOT NULL,
        title     VARCHAR(255) NOT NULL,
        PRIMARY KEY (ticket_id),
        CONSTRAINT fk_freeform_ticket FOREIGN KEY (ticket_id) REFERENCES ticket (ticket_id)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS selected_request (
        ticket_id CHAR(36) NOT NULL,
        song_id   CHAR(36) NOT NULL,
        PRIMARY KEY (ticket_id),
        KEY idx_selected_song (song_id),
        CONSTRAINT fk_selected_ticket FOREIGN KEY (ticket_id) REFERENCES ticket (ticket_id),
        CONSTRAINT fk_selected_song   FOREIGN KEY (song_id)   REFERENCES songs (song_id)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS blocklist (
        ip_address  VARCHAR(45)  NOT NULL,
        reverse_dns VARCHAR(255) NULL,
        notes       TEXT         NULL,
        blocked_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (ip_address)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS credentials (
        credential_id CHAR(36)     NOT NULL,
        secret_hash   VARCHAR(100) NOT NULL,
        active        TINYINT(1)   NOT NULL DEFAULT 1,
        created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (credential_id)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables. It runs at startup before
// the HTTP server accepts traffic.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
