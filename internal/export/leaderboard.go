package export

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/suke199800/tree/internal/growth"
	"github.com/suke199800/tree/internal/models"
)

const LeaderboardSheet = "Leaderboard"

var leaderboardHeader = []string{"Rank", "ID", "School", "Praise points", "Stage", "Stage name", "Latitude", "Longitude"}

// LeaderboardRows: строки таблицы: по баллам убыв., при равенстве по id.
func LeaderboardRows(schools []models.School) [][]string {
	sorted := make([]models.School, len(schools))
	copy(sorted, schools)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PraisePoints != sorted[j].PraisePoints {
			return sorted[i].PraisePoints > sorted[j].PraisePoints
		}
		return sorted[i].ID < sorted[j].ID
	})

	rows := make([][]string, 0, len(sorted))
	for i, s := range sorted {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.ID),
			s.Name(),
			strconv.Itoa(s.PraisePoints),
			strconv.Itoa(s.TreeGrowthStage),
			growth.StageName(s.TreeGrowthStage),
			coord(s.Latitude),
			coord(s.Longitude),
		})
	}
	return rows
}

// NewLeaderboardWorkbook собирает книгу с одним листом рейтинга.
func NewLeaderboardWorkbook(schools []models.School) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", LeaderboardSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range leaderboardHeader {
		cell := fmt.Sprintf("%s1", columnName(col+1))
		if err := f.SetCellStr(LeaderboardSheet, cell, h); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	for r, row := range LeaderboardRows(schools) {
		for c, val := range row {
			cell := fmt.Sprintf("%s%d", columnName(c+1), r+2)
			if err := setCell(f, cell, c, val); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	if err := ApplyDefaultExcelFormatting(f, LeaderboardSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("format sheet: %w", err)
	}
	return f, nil
}

// числовые колонки пишем числами, чтобы в Excel работала сортировка
func setCell(f *excelize.File, cell string, col int, val string) error {
	switch col {
	case 0, 1, 3, 4:
		n, err := strconv.Atoi(val)
		if err == nil {
			return f.SetCellValue(LeaderboardSheet, cell, n)
		}
	case 6, 7:
		if val == "" {
			return nil
		}
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			return f.SetCellFloat(LeaderboardSheet, cell, v, -1, 64)
		}
	}
	return f.SetCellStr(LeaderboardSheet, cell, val)
}

func BuildLeaderboardFilename(now time.Time) string {
	return sanitizeFileName(fmt.Sprintf("praise-leaderboard %s.xlsx", now.Format("2006-01-02")))
}

func coord(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
