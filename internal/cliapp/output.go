package cliapp

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ccboard/ccboard/internal/models"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// sessionRow is a flattened, CLI-friendly view of a SessionMetadata: plain
// strings and numbers only, so both the table and JSON renderers agree on
// what fields a session row carries.
type sessionRow struct {
	ID           models.SessionID `json:"id"`
	Project      string           `json:"project"`
	LastActive   string           `json:"last_active"`
	Messages     int              `json:"messages"`
	Tokens       int64            `json:"tokens"`
	Branch       string           `json:"branch"`
	FirstSnippet string           `json:"first_snippet"`
}

func toRow(m *models.SessionMetadata) sessionRow {
	last := ""
	if m.LastTimestamp != nil {
		last = m.LastTimestamp.Format(time.RFC3339)
	}
	return sessionRow{
		ID:           m.ID,
		Project:      m.Project,
		LastActive:   last,
		Messages:     m.MessageCount,
		Tokens:       m.Tokens.Total(),
		Branch:       m.Branch,
		FirstSnippet: m.FirstSnippet,
	}
}

func writeSessionTable(w io.Writer, rows []sessionRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROJECT\tLAST ACTIVE\tMESSAGES\tTOKENS\tBRANCH")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", r.ID, r.Project, r.LastActive, r.Messages, r.Tokens, r.Branch)
	}
	tw.Flush()
}
