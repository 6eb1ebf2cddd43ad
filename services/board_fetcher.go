package services

import (
	"context"
	"fmt"

	"jiraboardsync/models"
)

// IssuePageSize is the maxResults sent with every issue page request.
const IssuePageSize = 50

// BoardSource is the subset of the Jira API the fetchers need.
// *api.JiraClient implements it.
type BoardSource interface {
	GetBoardConfiguration(ctx context.Context, boardID int) (*models.BoardConfiguration, error)
	GetBoardIssues(ctx context.Context, boardID, startAt, maxResults int) (*models.IssuePage, error)
}

// BoardFetcher reads one board's configuration and issues.
type BoardFetcher struct {
	source  BoardSource
	boardID int
}

// NewBoardFetcher creates a fetcher for boardID.
func NewBoardFetcher(source BoardSource, boardID int) *BoardFetcher {
	return &BoardFetcher{source: source, boardID: boardID}
}

// FetchColumns returns one record per (column, status) pair of the board
// configuration, in configuration order. Columns without statuses produce
// nothing.
func (f *BoardFetcher) FetchColumns(ctx context.Context) ([]models.BoardColumn, error) {
	cfg, err := f.source.GetBoardConfiguration(ctx, f.boardID)
	if err != nil {
		return nil, fmt.Errorf("fetch board %d configuration: %w", f.boardID, err)
	}
	return FlattenColumns(f.boardID, cfg), nil
}

// FlattenColumns turns a board configuration into mapping records.
func FlattenColumns(boardID int, cfg *models.BoardConfiguration) []models.BoardColumn {
	var cols []models.BoardColumn
	for _, col := range cfg.ColumnConfig.Columns {
		for _, st := range col.Statuses {
			cols = append(cols, models.BoardColumn{
				BoardID:    boardID,
				ColumnName: col.Name,
				StatusID:   string(st.ID),
				StatusName: st.Name,
			})
		}
	}
	return cols
}

// StatusColumnMap indexes column names by status id. If a status appears in
// more than one column the last one wins.
func StatusColumnMap(cols []models.BoardColumn) map[string]string {
	m := make(map[string]string, len(cols))
	for _, c := range cols {
		m[c.StatusID] = c.ColumnName
	}
	return m
}

// EachIssuePage walks the board's issues page by page and hands every
// non-empty page to fn. It stops when a page comes back empty or the number of
// issues seen reaches the reported total. An error from fn stops the walk and
// is returned as is.
func (f *BoardFetcher) EachIssuePage(ctx context.Context, fn func(issues []models.Issue) error) error {
	startAt := 0
	for {
		page, err := f.source.GetBoardIssues(ctx, f.boardID, startAt, IssuePageSize)
		if err != nil {
			return fmt.Errorf("fetch board %d issues at %d: %w", f.boardID, startAt, err)
		}

		if len(page.Issues) == 0 {
			return nil
		}
		if err := fn(page.Issues); err != nil {
			return err
		}

		startAt += len(page.Issues)
		if startAt >= page.Total {
			return nil
		}
	}
}

// FetchIssues collects every issue on the board.
func (f *BoardFetcher) FetchIssues(ctx context.Context) ([]models.Issue, error) {
	var issues []models.Issue
	err := f.EachIssuePage(ctx, func(page []models.Issue) error {
		issues = append(issues, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}
