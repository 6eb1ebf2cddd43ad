package services

import (
	"strings"
	"time"

	"jiraboardsync/models"
)

// Layouts tried in order by ParseTimestamp. Jira sends offsets without a
// colon (+0530), which RFC 3339 does not cover. Both "T" and a space separate
// date and time, seconds are optional, and offsets may be "Z", +hh:mm, +hhmm
// or +hh.
var timestampLayouts = buildTimestampLayouts()

func buildTimestampLayouts() []string {
	layouts := []string{time.RFC3339Nano}
	for _, sep := range []string{"T", " "} {
		for _, clock := range []string{"15:04:05.999999999", "15:04"} {
			for _, zone := range []string{"Z07:00", "Z0700", "Z07", ""} {
				layouts = append(layouts, "2006-01-02"+sep+clock+zone)
			}
		}
	}
	return append(layouts, "2006-01-02")
}

// ParseTimestamp parses an ISO-8601 timestamp. A "Z" suffix means UTC and
// offset-less values are taken as UTC. Empty or malformed input yields nil so
// that one bad field does not abort the batch.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// BuildIssueRows extracts the stored fields of each issue and resolves its
// column name through statusToColumn. Unmapped status ids get a nil column.
func BuildIssueRows(boardID int, issues []models.Issue, statusToColumn map[string]string) []models.BoardIssue {
	rows := make([]models.BoardIssue, 0, len(issues))
	for _, it := range issues {
		rows = append(rows, BuildIssueRow(boardID, it, statusToColumn))
	}
	return rows
}

// BuildIssueRow converts a single issue.
func BuildIssueRow(boardID int, it models.Issue, statusToColumn map[string]string) models.BoardIssue {
	f := it.Fields
	row := models.BoardIssue{
		BoardID:  boardID,
		IssueKey: it.Key,
		Summary:  f.Summary,
		DueDate:  f.DueDate,
		Created:  ParseTimestamp(f.Created),
		Updated:  ParseTimestamp(f.Updated),
	}

	if f.Status != nil {
		row.StatusName = f.Status.Name
		if f.Status.ID != nil {
			id := string(*f.Status.ID)
			row.StatusID = &id
			if col, ok := statusToColumn[id]; ok {
				row.ColumnName = &col
			}
		}
	}

	if f.Assignee != nil {
		row.Assignee = f.Assignee.DisplayName
	}

	return row
}
