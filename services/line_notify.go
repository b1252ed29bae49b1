package services

import (
	"fmt"

	"eduglobal_go/config"

	"github.com/line/line-bot-sdk-go/linebot"
	"github.com/sirupsen/logrus"
)

// LineNotifyService pushes daily due-payment summaries to a LINE group when
// a channel token and group ID are configured. Without them the service is
// a no-op.
type LineNotifyService struct {
	bot     *linebot.Client
	groupID string
}

func NewLineNotifyService() *LineNotifyService {
	token := config.AppConfig.LineChannelToken
	groupID := config.AppConfig.LineGroupID

	if token == "" || groupID == "" {
		logrus.Info("LINE notifications disabled: missing LINE_CHANNEL_ACCESS_TOKEN or LINE_GROUP_ID")
		return &LineNotifyService{}
	}

	// The channel secret is only needed for webhook verification, which this
	// service does not do; pushing messages works with the access token.
	bot, err := linebot.New("unused", token)
	if err != nil {
		logrus.WithError(err).Error("Cannot create LINE bot client, notifications disabled")
		return &LineNotifyService{}
	}

	return &LineNotifyService{bot: bot, groupID: groupID}
}

// Enabled reports whether push messages will actually be sent
func (s *LineNotifyService) Enabled() bool {
	return s.bot != nil
}

// PushDueSummary sends the rendered due-alert summary to the group
func (s *LineNotifyService) PushDueSummary(message string) error {
	if s.bot == nil {
		return fmt.Errorf("LINE bot client is not initialized")
	}

	if _, err := s.bot.PushMessage(s.groupID, linebot.NewTextMessage(message)).Do(); err != nil {
		return fmt.Errorf("LINE push failed: %v", err)
	}
	return nil
}
