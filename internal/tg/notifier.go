package tg

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/suke199800/tree/internal/growth"
	"github.com/suke199800/tree/internal/models"
)

// Notifier объявляет в чат, что дерево школы выросло.
type Notifier struct {
	bot    Sender
	chatID int64
	log    *zap.SugaredLogger
}

func NewNotifier(bot Sender, chatID int64, log *zap.SugaredLogger) *Notifier {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Notifier{bot: bot, chatID: chatID, log: log}
}

func (n *Notifier) NotifyStageUp(ctx context.Context, school models.School, prevStage int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, StageUpText(school, prevStage))
	if _, err := Send(n.bot, msg); err != nil {
		n.log.Warnw("stage-up notification failed", "school_id", school.ID, "err", err)
		return fmt.Errorf("notify stage up: %w", err)
	}
	n.log.Debugw("stage-up notification sent", "school_id", school.ID, "stage", school.TreeGrowthStage)
	return nil
}

func StageUpText(school models.School, prevStage int) string {
	return fmt.Sprintf("🌳 %s: %s → %s (%d/%d), %d points",
		school.Name(),
		growth.StageName(prevStage),
		growth.StageName(school.TreeGrowthStage),
		school.TreeGrowthStage, growth.MaxStage,
		school.PraisePoints,
	)
}
