package leaderboard

import (
	"github.com/kamaln7/leaderboard/subject"

	"github.com/nlopes/slack"
)

// ChatService is the part of Slack the bot talks to.
type ChatService interface {
	IncomingEventsChan() chan slack.RTMEvent
	GetUsers() ([]slack.User, error)
	SendAttachment(channel string, attachment slack.Attachment) error
}

// Slack is a ChatService backed by the Slack web and RTM APIs.
type Slack struct {
	Bot *slack.Client
	RTM *slack.RTM
}

var _ ChatService = new(Slack)

// NewSlack creates a Slack client for token and starts managing its
// RTM connection.
func NewSlack(token string, debug bool) *Slack {
	sc := &Slack{
		Bot: slack.New(token, slack.OptionDebug(debug)),
	}
	sc.RTM = sc.Bot.NewRTM()

	go sc.RTM.ManageConnection()

	return sc
}

// IncomingEventsChan returns the RTM event stream.
func (s *Slack) IncomingEventsChan() chan slack.RTMEvent {
	return s.RTM.IncomingEvents
}

// GetUsers lists the team's users.
func (s *Slack) GetUsers() ([]slack.User, error) {
	return s.Bot.GetUsers()
}

// SendAttachment posts a message consisting of a single attachment.
func (s *Slack) SendAttachment(channel string, attachment slack.Attachment) error {
	_, _, err := s.Bot.PostMessage(
		channel,
		slack.MsgOptionAttachments(attachment),
		slack.MsgOptionPostMessageParameters(slack.PostMessageParameters{
			AsUser:    true,
			LinkNames: 1,
		}),
	)

	return err
}

// Roster returns the team's users keyed by id.
func (s *Slack) Roster() (subject.Roster, error) {
	users, err := s.GetUsers()
	if err != nil {
		return nil, err
	}

	return RosterFromUsers(users), nil
}

// RosterFromUsers maps user ids to user names.
func RosterFromUsers(users []slack.User) subject.Roster {
	roster := make(subject.Roster, len(users))
	for _, u := range users {
		roster[u.ID] = u.Name
	}

	return roster
}
