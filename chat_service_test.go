package leaderboard

import (
	"errors"

	"github.com/kamaln7/leaderboard/database"

	"github.com/nlopes/slack"
)

type TestChatService struct {
	IncomingEvents chan slack.RTMEvent

	Users           []slack.User
	UsersErr        error
	SendErr         error
	SentAttachments []SentAttachment
}

type SentAttachment struct {
	Channel    string
	Attachment slack.Attachment
}

var errSendFailed = errors.New("channel_not_found")

func (t *TestChatService) IncomingEventsChan() chan slack.RTMEvent {
	return t.IncomingEvents
}

func (t *TestChatService) GetUsers() ([]slack.User, error) {
	if t.UsersErr != nil {
		return nil, t.UsersErr
	}

	return t.Users, nil
}

func (t *TestChatService) SendAttachment(channel string, attachment slack.Attachment) error {
	if t.SendErr != nil {
		return t.SendErr
	}

	t.SentAttachments = append(t.SentAttachments, SentAttachment{
		Channel:    channel,
		Attachment: attachment,
	})
	return nil
}

type TestDatabase struct {
	records []database.Points
	err     error
}

func (t *TestDatabase) InsertPoints(points *database.Points) error {
	if t.err != nil {
		return t.err
	}

	t.records = append(t.records, *points)
	return nil
}
