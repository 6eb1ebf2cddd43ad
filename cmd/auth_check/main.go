package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"jiraboardsync/api"
	"jiraboardsync/config"
	"jiraboardsync/utils"
)

// maxBodyPreview caps how much of a failed response is printed.
const maxBodyPreview = 800

func main() {
	help := flag.Bool("help", false, "show this help")
	flag.Parse()

	if *help {
		printHelp(os.Stdout)
		return
	}

	utils.LogInfo("Jira credential check")

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("failed to load configuration: %v", err)
		os.Exit(1)
	}
	if err := cfg.ValidateJira(); err != nil {
		utils.LogError("%v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.RequestTimeout)
	defer cancel()

	jiraClient := api.NewJiraClient(cfg)

	utils.LogInfo("Listing boards on %s as %s...", jiraClient.BaseURL(), cfg.JiraEmail)
	boards, err := jiraClient.ListBoards(ctx)
	if err != nil {
		var upstream *api.UpstreamError
		if errors.As(err, &upstream) {
			utils.LogError("Jira answered HTTP %d: %s", upstream.StatusCode, truncate(upstream.Body, maxBodyPreview))
		} else {
			utils.LogError("Jira request failed: %v", err)
		}
		cancel()
		os.Exit(1)
	}

	utils.LogInfo("Authenticated. %d boards visible (showing %d):", boards.Total, len(boards.Values))
	for _, b := range boards.Values {
		marker := ""
		if b.ID == cfg.BoardID {
			marker = "  <- BOARD_ID"
		}
		utils.LogInfo("  %5d  %-8s %s%s", b.ID, b.Type, b.Name, marker)
	}
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `
Jira credential check

Usage:
  %s [options]

Options:
  -help               show this help

Environment:
  JIRA_BASE_URL       Jira site URL (required)
  JIRA_EMAIL          Jira account email (required)
  JIRA_API_TOKEN      Jira API token (required)
  BOARD_ID            board to highlight in the listing (default 2)

Lists the Agile boards visible to the account. If that works, the
credentials are good enough for board_sync.
`, os.Args[0])
}
