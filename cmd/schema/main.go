// Command schema prints CREATE TABLE statements for the configured driver and
// table names. The sync never creates tables itself.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"jiraboardsync/config"
	"jiraboardsync/database"
	"jiraboardsync/utils"
)

func main() {
	help := flag.Bool("help", false, "show this help")
	flag.Parse()

	if *help {
		printHelp(os.Stdout)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("failed to load configuration: %v", err)
		os.Exit(1)
	}

	store, err := database.NewStore(cfg)
	if err != nil {
		utils.LogError("%v", err)
		os.Exit(1)
	}

	fmt.Printf("-- %s schema for %s and %s\n", cfg.SQLDriver, cfg.ColumnsTable, cfg.IssuesTable)
	for _, stmt := range store.Schema() {
		fmt.Printf("%s;\n\n", stmt)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `
Board sync schema

Usage:
  %s [options]

Options:
  -help               show this help

Environment:
  SQL_DRIVER          sqlserver, postgres or sqlite3 (default sqlserver)
  SQL_COLUMNS_TABLE   column mapping table (default dbo.JiraBoardColumns on sqlserver)
  SQL_ISSUES_TABLE    issue table (default dbo.JiraIssuesBoard on sqlserver)

Prints CREATE TABLE statements for the two tables board_sync writes to.
`, os.Args[0])
}
