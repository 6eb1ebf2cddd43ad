package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jiraboardsync/config"
	"jiraboardsync/database"
	"jiraboardsync/models"
	"jiraboardsync/utils"
)

// SyncResult summarizes a finished run.
type SyncResult struct {
	RunID    string
	BoardID  int
	Driver   string
	Database string
	Columns  int
	Issues   int
}

// SyncService copies one board's column mapping and issues into the database.
type SyncService struct {
	config  *config.Config
	fetcher *BoardFetcher
}

// NewSyncService creates a sync for the board configured in cfg.
func NewSyncService(cfg *config.Config, source BoardSource) *SyncService {
	return &SyncService{
		config:  cfg,
		fetcher: NewBoardFetcher(source, cfg.BoardID),
	}
}

// Run performs a full refresh: both upsert phases share one transaction that
// is committed only when both succeed.
func (s *SyncService) Run(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{
		RunID:    uuid.New().String(),
		BoardID:  s.config.BoardID,
		Driver:   s.config.SQLDriver,
		Database: s.config.SQLDatabase,
	}
	defer utils.TrackTime(time.Now(), "sync run "+result.RunID)

	utils.LogInfo("Checking configuration... %s", s.config)
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	store, err := database.NewStore(s.config)
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Fetching board column mapping...")
	cols, err := s.fetcher.FetchColumns(ctx)
	if err != nil {
		return nil, err
	}
	statusToColumn := StatusColumnMap(cols)
	utils.LogInfo("Board %d: %d column/status pairs", s.config.BoardID, len(cols))

	utils.LogInfo("Fetching board issues...")
	issues, err := s.fetcher.FetchIssues(ctx)
	if err != nil {
		return nil, err
	}
	rows := BuildIssueRows(s.config.BoardID, issues, statusToColumn)
	warnUnmapped(rows)

	utils.LogInfo("Writing to %s (%s)...", s.config.SQLDriver, s.config.SQLDatabase)
	db, err := database.Open(ctx, s.config)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	err = database.RunInTx(ctx, db, func(tx *sql.Tx) error {
		if err := store.UpsertColumns(ctx, tx, cols); err != nil {
			return err
		}
		return store.UpsertIssues(ctx, tx, rows)
	})
	if err != nil {
		return nil, fmt.Errorf("write board %d: %w", s.config.BoardID, err)
	}

	result.Columns = len(cols)
	result.Issues = len(rows)
	return result, nil
}

func warnUnmapped(rows []models.BoardIssue) {
	unmapped := 0
	for _, r := range rows {
		if r.ColumnName == nil {
			unmapped++
		}
	}
	if unmapped > 0 {
		utils.LogWarn("%d issues have a status that is not on any board column", unmapped)
	}
}
