package tournamentexporters

import (
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"

	tournamentservice "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application"
	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

const (
	summarySheet   = "Tournament"
	standingsSheet = "Standings"
)

var playerHeader = []any{"Rank", "User ID", "Username", "Life", "Immune"}

// WriteWorkbook writes t as an xlsx workbook: a summary sheet listing the
// matches by stage, one sheet per match in file order, and the standings.
func WriteWorkbook(w io.Writer, t *tournamenttypes.ParsedTournament, awards []tournamentservice.RankingAward) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeSummary(f, t); err != nil {
		return err
	}

	for _, m := range t.Matches {
		if err := writeMatch(f, m); err != nil {
			return err
		}
	}

	if err := writeStandings(f, awards); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// MatchSheetName names the sheet holding the match at index.
func MatchSheetName(m tournamenttypes.Match) string {
	return fmt.Sprintf("%02d %s", m.MatchIndex+1, m.MatchType.FileToken())
}

func writeSummary(f *excelize.File, t *tournamenttypes.ParsedTournament) error {
	link := ""
	if t.Link != nil {
		link = *t.Link
	}
	rows := [][]any{
		{"Title", t.Title},
		{"Date", t.Date.Format("2006-01-02 15:04")},
		{"Link", link},
		{"Version", t.Version},
		{},
		{"Stage", "Match", "Players", "Sheet"},
	}

	byStage := slices.Clone(t.Matches)
	slices.SortStableFunc(byStage, func(a, b tournamenttypes.Match) int {
		return a.MatchType.Compare(b.MatchType)
	})
	for _, m := range byStage {
		rows = append(rows, []any{m.MatchType.FileToken(), m.MatchIndex + 1, len(m.Players), MatchSheetName(m)})
	}

	return setRows(f, summarySheet, rows)
}

func writeMatch(f *excelize.File, m tournamenttypes.Match) error {
	name := MatchSheetName(m)
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", name, err)
	}

	rows := [][]any{playerHeader}
	for _, p := range m.Players {
		rows = append(rows, []any{p.Rank, p.UserID, p.Username, p.LifeStatus.WireToken(), p.ImmuneStatus.WireToken()})
	}
	return setRows(f, name, rows)
}

func writeStandings(f *excelize.File, awards []tournamentservice.RankingAward) error {
	if _, err := f.NewSheet(standingsSheet); err != nil {
		return fmt.Errorf("failed to add standings sheet: %w", err)
	}

	rows := [][]any{{"Position", "User ID", "Username", "Points", "Win"}}
	for i, a := range awards {
		win := "no"
		if a.Win {
			win = "yes"
		}
		rows = append(rows, []any{i + 1, a.UserID, a.Username, a.Points, win})
	}
	return setRows(f, standingsSheet, rows)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
