package growth

import (
	"errors"
	"fmt"
	"math"
)

const (
	MinStage = 1
	MaxStage = 7

	// MaxPoints: потолок баллов школы.
	MaxPoints = math.MaxInt32
)

// Пороги: сколько накопленных баллов нужно, чтобы покинуть стадию (ключ: номер стадии).
var defaultThresholds = map[int]int{
	1: 20,
	2: 50,
	3: 100,
	4: 200,
	5: 350,
	6: 500,
}

var stageNames = [MaxStage + 1]string{
	"",
	"Seed",
	"Sprout",
	"Seedling",
	"Sapling",
	"Young tree",
	"Tree",
	"Great tree",
}

var ErrBadThresholds = errors.New("growth: thresholds must be defined for every stage and strictly increasing")

// Ladder: лестница стадий с накопительными порогами.
type Ladder struct {
	thresholds map[int]int
}

// Default: лестница приложения. Проверяется при старте пакета.
var Default = mustLadder(defaultThresholds)

// NewLadder проверяет пороги: по одному на стадии 1..MaxStage-1, строго по возрастанию.
func NewLadder(thresholds map[int]int) (*Ladder, error) {
	if len(thresholds) != MaxStage-1 {
		return nil, fmt.Errorf("%w: got %d thresholds, want %d", ErrBadThresholds, len(thresholds), MaxStage-1)
	}
	prev := -1
	for s := MinStage; s < MaxStage; s++ {
		t, ok := thresholds[s]
		if !ok {
			return nil, fmt.Errorf("%w: stage %d has no threshold", ErrBadThresholds, s)
		}
		if t <= prev {
			return nil, fmt.Errorf("%w: stage %d threshold %d <= %d", ErrBadThresholds, s, t, prev)
		}
		prev = t
	}
	cp := make(map[int]int, len(thresholds))
	for k, v := range thresholds {
		cp[k] = v
	}
	return &Ladder{thresholds: cp}, nil
}

func mustLadder(thresholds map[int]int) *Ladder {
	l, err := NewLadder(thresholds)
	if err != nil {
		panic(err)
	}
	return l
}

// Threshold: баллы, нужные для выхода со стадии. ok=false для финальной стадии.
func (l *Ladder) Threshold(stage int) (int, bool) {
	t, ok := l.thresholds[stage]
	return t, ok
}

// Advance начисляет баллы и поднимает стадию. Кандидаты проверяются снизу вверх,
// первый невыполненный порог останавливает подъём. Стадия не уменьшается и не
// превышает MaxStage.
func (l *Ladder) Advance(currentPoints, currentStage, pointsToAdd int) (newPoints, newStage int) {
	newPoints = addPoints(currentPoints, pointsToAdd)
	newStage = currentStage
	for s := currentStage + 1; s <= MaxStage; s++ {
		t, ok := l.thresholds[s-1]
		if !ok || newPoints < t {
			break
		}
		newStage = s
	}
	return newPoints, newStage
}

// addPoints складывает с насыщением: результат всегда в [0, MaxPoints].
func addPoints(a, b int) int {
	n := bound(int64(a)) + bound(int64(b))
	switch {
	case n < 0:
		return 0
	case n > MaxPoints:
		return MaxPoints
	}
	return int(n)
}

func bound(n int64) int64 {
	if n > MaxPoints {
		return MaxPoints
	}
	if n < -MaxPoints {
		return -MaxPoints
	}
	return n
}

// Advance считает по лестнице Default.
func Advance(currentPoints, currentStage, pointsToAdd int) (newPoints, newStage int) {
	return Default.Advance(currentPoints, currentStage, pointsToAdd)
}

// Clamp приводит стадию в диапазон [MinStage, MaxStage].
func Clamp(stage int) int {
	if stage < MinStage {
		return MinStage
	}
	if stage > MaxStage {
		return MaxStage
	}
	return stage
}

func StageName(stage int) string {
	return stageNames[Clamp(stage)]
}
