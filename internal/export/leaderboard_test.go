package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/suke199800/tree/internal/models"
)

func named(id, points, stage int, name string) models.School {
	raw, _ := json.Marshal(name)
	return models.School{
		ID:              id,
		PraisePoints:    points,
		TreeGrowthStage: stage,
		Extra:           map[string]json.RawMessage{"학교명": raw},
	}
}

func TestLeaderboardRows_Order(t *testing.T) {
	lat, lon := 37.56, 126.97
	a := named(1, 30, 2, "A")
	a.Latitude, a.Longitude = &lat, &lon
	rows := LeaderboardRows([]models.School{a, named(2, 120, 4, "B"), named(3, 30, 2, "C")})

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "2", "B", "120", "4", "Sapling", "", ""}, rows[0])
	assert.Equal(t, []string{"2", "1", "A", "30", "2", "Sprout", "37.56", "126.97"}, rows[1])
	assert.Equal(t, "C", rows[2][2])
}

func TestNewLeaderboardWorkbook(t *testing.T) {
	f, err := NewLeaderboardWorkbook([]models.School{named(1, 10, 1, "한빛초"), named(2, 60, 3, "푸른초")})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	hdr, err := r.GetCellValue(LeaderboardSheet, "C1")
	require.NoError(t, err)
	assert.Equal(t, "School", hdr)

	top, err := r.GetCellValue(LeaderboardSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "푸른초", top)

	pts, err := r.GetCellValue(LeaderboardSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "60", pts)
}

func TestBuildLeaderboardFilename(t *testing.T) {
	got := BuildLeaderboardFilename(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "praise-leaderboard 2024-03-09.xlsx", got)
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "A", columnName(1))
	assert.Equal(t, "Z", columnName(26))
	assert.Equal(t, "AA", columnName(27))
}
