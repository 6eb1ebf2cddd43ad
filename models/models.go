package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// BoardConfiguration is the response of /rest/agile/1.0/board/{id}/configuration.
type BoardConfiguration struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	ColumnConfig ColumnConfig `json:"columnConfig"`
}

// ColumnConfig holds the ordered board columns.
type ColumnConfig struct {
	Columns []BoardConfigColumn `json:"columns"`
}

// BoardConfigColumn is one board column and the statuses it groups.
type BoardConfigColumn struct {
	Name     string            `json:"name"`
	Statuses []StatusReference `json:"statuses"`
}

// StatusReference identifies a workflow status inside a column.
type StatusReference struct {
	ID   StatusID `json:"id"`
	Name string   `json:"name"`
}

// StatusID is a Jira status id. The API sends it as a string, but numbers are
// accepted too so that both forms normalize to the same key.
type StatusID string

func (s *StatusID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = StatusID(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = StatusID(num.String())
	return nil
}

// IssuePage is one page of /rest/agile/1.0/board/{id}/issue.
type IssuePage struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Issue is a board issue with the handful of fields the sync reads.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields are the issue fields copied into BoardIssue.
type IssueFields struct {
	Summary  *string `json:"summary"`
	Status   *Status `json:"status"`
	Assignee *User   `json:"assignee"`
	DueDate  *string `json:"duedate"`
	Created  string  `json:"created"`
	Updated  string  `json:"updated"`
}

// Status is an issue's current workflow status.
type Status struct {
	ID   *StatusID `json:"id"`
	Name *string   `json:"name"`
}

// User is a Jira account as embedded in issue fields.
type User struct {
	AccountID   string  `json:"accountId"`
	DisplayName *string `json:"displayName"`
}

// Board is an entry of the /rest/agile/1.0/board listing.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// BoardList is the paged response of /rest/agile/1.0/board.
type BoardList struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	IsLast     bool    `json:"isLast"`
	Values     []Board `json:"values"`
}

// BoardColumn is a row of the column mapping table, unique per (BoardID, StatusID).
type BoardColumn struct {
	BoardID    int
	ColumnName string
	StatusID   string
	StatusName string
}

// BoardIssue is a row of the issue table, unique per (BoardID, IssueKey).
// Nil pointers are stored as NULL.
type BoardIssue struct {
	BoardID    int
	IssueKey   string
	Summary    *string
	StatusID   *string
	StatusName *string
	ColumnName *string
	Assignee   *string
	DueDate    *string
	Created    *time.Time
	Updated    *time.Time
}
