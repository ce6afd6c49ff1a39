package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/suke199800/tree/internal/growth"
	"github.com/suke199800/tree/internal/models"
)

var (
	ErrSourceMissing = errors.New("schools source not found")
	ErrSourceEmpty   = errors.New("schools source is empty")
	ErrUnreadable    = errors.New("schools source is not valid UTF-8")
	ErrMalformed     = errors.New("schools source is not valid JSON")
	ErrNotArray      = errors.New("schools source is not a JSON array")
	ErrNoEntries     = errors.New("schools source has no entries")
)

const (
	defaultPoints = 0
	defaultStage  = growth.MinStage
)

// Result: итог загрузки: типизированные школы и замечания по отдельным полям.
type Result struct {
	Schools  []models.School
	Warnings []string
}

// Load читает файл каталога. Любая ошибка не фатальна: в лог и пустой каталог.
func Load(path string, log *zap.SugaredLogger) (res Result) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("unexpected error while loading schools", "path", path, "panic", r)
			res = Result{Schools: []models.School{}}
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		log.Errorw("cannot read schools file", "path", path, "err", err)
		return Result{Schools: []models.School{}}
	}

	res, err = Parse(data)
	if err != nil {
		log.Errorw("cannot load schools", "path", path, "err", err)
		return Result{Schools: []models.School{}}
	}
	for _, w := range res.Warnings {
		log.Warnw("school record", "path", path, "warning", w)
	}
	log.Infow("schools loaded", "path", path, "count", len(res.Schools), "warnings", len(res.Warnings))
	return res
}

// Parse разбирает содержимое файла каталога.
func Parse(data []byte) (Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Result{}, ErrSourceEmpty
	}
	if !utf8.Valid(trimmed) {
		return Result{}, ErrUnreadable
	}
	if !json.Valid(trimmed) {
		return Result{}, ErrMalformed
	}
	if trimmed[0] != '[' {
		return Result{}, ErrNotArray
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) == 0 {
		return Result{}, ErrNoEntries
	}

	res := Result{Schools: make([]models.School, 0, len(raw))}
	used := make(map[int]struct{}, len(raw))
	for i, item := range raw {
		rec, ok := asObject(item)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d: not an object, skipped", i))
			continue
		}
		s, warns := parseRecord(rec)
		for _, w := range warns {
			res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d (%s): %s", i, s.Name(), w))
		}

		id, ok := suppliedID(rec)
		if _, present := rec[models.KeyID]; present && !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d (%s): invalid id %s, reassigned", i, s.Name(), string(rec[models.KeyID])))
		}
		if ok {
			if _, taken := used[id]; taken {
				res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d (%s): duplicate id %d, reassigned", i, s.Name(), id))
				ok = false
			}
		}
		if !ok {
			id = nextFreeID(used, len(res.Schools)+1)
		}
		used[id] = struct{}{}
		s.ID = id

		res.Schools = append(res.Schools, s)
	}
	return res, nil
}

func asObject(item json.RawMessage) (map[string]json.RawMessage, bool) {
	t := bytes.TrimSpace(item)
	if len(t) == 0 || t[0] != '{' {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(t, &m); err != nil {
		return nil, false
	}
	return m, true
}

func parseRecord(rec map[string]json.RawMessage) (models.School, []string) {
	var warns []string
	s := models.School{
		PraisePoints:    defaultPoints,
		TreeGrowthStage: defaultStage,
		Extra:           make(map[string]json.RawMessage, len(rec)),
	}
	for k, v := range rec {
		switch k {
		case models.KeyID, models.KeyLatitude, models.KeyLongitude,
			models.KeyApproxLatitude, models.KeyApproxLongitude,
			models.KeyPraisePoints, models.KeyTreeGrowthStage:
		default:
			s.Extra[k] = v
		}
	}

	var w string
	s.Latitude, s.Longitude, w = coordPair(rec, models.KeyLatitude, models.KeyLongitude)
	if w != "" {
		warns = append(warns, w)
	}
	s.ApproxLatitude, s.ApproxLongitude, w = coordPair(rec, models.KeyApproxLatitude, models.KeyApproxLongitude)
	if w != "" {
		warns = append(warns, w)
	}

	if raw, ok := rec[models.KeyPraisePoints]; ok {
		n, err := toInt(raw)
		switch {
		case err != nil:
			warns = append(warns, fmt.Sprintf("%s: %v, reset to %d", models.KeyPraisePoints, err, defaultPoints))
		case n < 0:
			warns = append(warns, fmt.Sprintf("%s: negative value %d, reset to %d", models.KeyPraisePoints, n, defaultPoints))
		default:
			s.PraisePoints = n
		}
	}

	if raw, ok := rec[models.KeyTreeGrowthStage]; ok {
		n, err := toInt(raw)
		if err != nil {
			warns = append(warns, fmt.Sprintf("%s: %v, reset to %d", models.KeyTreeGrowthStage, err, defaultStage))
		} else {
			if c := growth.Clamp(n); c != n {
				warns = append(warns, fmt.Sprintf("%s: %d clamped to %d", models.KeyTreeGrowthStage, n, c))
				n = c
			}
			s.TreeGrowthStage = n
		}
	}
	return s, warns
}

// coordPair: оба ключа должны быть и оба должны стать конечными числами, иначе пара null.
func coordPair(rec map[string]json.RawMessage, latKey, lonKey string) (*float64, *float64, string) {
	rawLat, okLat := rec[latKey]
	rawLon, okLon := rec[lonKey]
	if !okLat || !okLon {
		if okLat || okLon {
			return nil, nil, fmt.Sprintf("%s/%s: incomplete pair, set to null", latKey, lonKey)
		}
		return nil, nil, ""
	}
	lat, err := toFloat(rawLat)
	if err != nil {
		return nil, nil, fmt.Sprintf("%s: %v, pair set to null", latKey, err)
	}
	lon, err := toFloat(rawLon)
	if err != nil {
		return nil, nil, fmt.Sprintf("%s: %v, pair set to null", lonKey, err)
	}
	return &lat, &lon, ""
}

func decodeScalar(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func toFloat(raw json.RawMessage) (float64, error) {
	v, err := decodeScalar(raw)
	if err != nil {
		return 0, err
	}
	var f float64
	switch x := v.(type) {
	case json.Number:
		f, err = strconv.ParseFloat(x.String(), 64)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, fmt.Errorf("not a number: %s", string(raw))
	}
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", string(raw))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value: %s", string(raw))
	}
	return f, nil
}

// toInt принимает целые, конечные дробные (отбрасывая дробную часть) и целые в строках.
// Модуль значения не больше growth.MaxPoints.
func toInt(raw json.RawMessage) (int, error) {
	v, err := decodeScalar(raw)
	if err != nil {
		return 0, err
	}
	var n int64
	switch x := v.(type) {
	case json.Number:
		if n, err = strconv.ParseInt(x.String(), 10, 64); err != nil {
			f, ferr := strconv.ParseFloat(x.String(), 64)
			if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > growth.MaxPoints {
				return 0, fmt.Errorf("not an integer: %s", string(raw))
			}
			n = int64(f)
		}
	case string:
		if n, err = strconv.ParseInt(strings.TrimSpace(x), 10, 64); err != nil {
			return 0, fmt.Errorf("not an integer: %s", string(raw))
		}
	default:
		return 0, fmt.Errorf("not an integer: %s", string(raw))
	}
	if n > growth.MaxPoints || n < -growth.MaxPoints {
		return 0, fmt.Errorf("out of range: %s", string(raw))
	}
	return int(n), nil
}

func suppliedID(rec map[string]json.RawMessage) (int, bool) {
	raw, ok := rec[models.KeyID]
	if !ok {
		return 0, false
	}
	if v, err := decodeScalar(raw); err != nil || v == nil || v == "" {
		return 0, false
	}
	id, err := toInt(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	// 2.0 подходит, 2.5 нет
	if f, err := toFloat(raw); err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return id, true
}

func nextFreeID(used map[int]struct{}, start int) int {
	id := start
	for {
		if _, taken := used[id]; !taken {
			return id
		}
		id++
	}
}
