package leaderboard

import (
	"errors"
	"strings"
	"sync"

	"github.com/kamaln7/leaderboard/database"
	"github.com/kamaln7/leaderboard/ledger"
	"github.com/kamaln7/leaderboard/metrics"
	"github.com/kamaln7/leaderboard/report"
	"github.com/kamaln7/leaderboard/subject"
	"github.com/kamaln7/leaderboard/ui"
	"github.com/kamaln7/leaderboard/ui/blankui"

	"github.com/aybabtme/log"
	"github.com/nlopes/slack"
)

// DefaultKeyword asks the bot for the leaderboard when the bot is mentioned.
const DefaultKeyword = "leaderboard"

// Attachment labels.
const (
	AttachmentTitle  = "Leaderboard"
	AttachmentColor  = "good"
	TopFieldTitle    = "💯"
	BottomFieldTitle = "💩"
)

// Database records applied score operations.
type Database interface {
	InsertPoints(points *database.Points) error
}

// Config contains the bot's collaborators and options.
type Config struct {
	Slack            ChatService
	UI               ui.Provider
	DB               Database
	Ledgers          *ledger.Collection
	Metrics          *metrics.Metrics
	Keywords         StringList
	LeaderboardLimit int
	Debug            bool
	Log              *log.Log
}

// A Bot keeps per-team leaderboards fed by chat messages.
type Bot struct {
	Config *Config

	mu     sync.RWMutex
	userID string
	teamID string
}

// A Message is an inbound chat message.
type Message struct {
	TeamID, Channel, User, Text string
}

// New returns a Bot, filling in defaults for missing config.
func New(config *Config) *Bot {
	if config.Ledgers == nil {
		config.Ledgers = ledger.NewCollection()
	}
	if config.UI == nil {
		config.UI = blankui.New()
	}
	if len(config.Keywords) == 0 {
		config.Keywords = StringList{DefaultKeyword: {}}
	}
	if config.Log == nil {
		config.Log = log.KV("version", Version)
	}

	return &Bot{
		Config: config,
	}
}

// SetIdentity sets the bot's own user id and the team its RTM
// messages belong to.
func (b *Bot) SetIdentity(userID, teamID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.userID = userID
	b.teamID = teamID
}

func (b *Bot) identity() (string, string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.userID, b.teamID
}

// Listen handles RTM events until the event channel is closed.
func (b *Bot) Listen() {
	ll := b.Config.Log

	for msg := range b.Config.Slack.IncomingEventsChan() {
		switch ev := msg.Data.(type) {
		case *slack.MessageEvent:
			b.handleMessageEvent(ev)
		case *slack.ConnectedEvent:
			b.handleConnectedEvent(ev)
		case *slack.RTMError:
			ll.Err(ev).Error("slack rtm error")
		case *slack.InvalidAuthEvent:
			ll.Fatal("invalid slack token")
		default:
		}
	}
}

func (b *Bot) handleConnectedEvent(ev *slack.ConnectedEvent) {
	ll := b.Config.Log
	ll.Info("connected to slack")

	if ev.Info == nil {
		return
	}

	var userID, teamID string
	if ev.Info.User != nil {
		userID = ev.Info.User.ID
	}
	if ev.Info.Team != nil {
		teamID = ev.Info.Team.ID
	}
	b.SetIdentity(userID, teamID)

	if b.Config.Debug {
		ll.KV("user", userID).KV("team", teamID).Info("got slack identity")
		ll.KV("connections", ev.ConnectionCount).Info("got connection count")
	}
}

func (b *Bot) handleMessageEvent(ev *slack.MessageEvent) {
	if ev.Type != "message" {
		return
	}

	switch ev.SubType {
	case "message_changed", "message_deleted":
		return
	}

	// an RTM connection only ever belongs to one team
	_, teamID := b.identity()

	b.HandleMessage(&Message{
		TeamID:  teamID,
		Channel: ev.Channel,
		User:    ev.User,
		Text:    ev.Text,
	})
}

// HandleMessage dispatches a single message. The leaderboard command
// and both triggers are checked independently, so one message can
// do all three.
func (b *Bot) HandleMessage(msg *Message) {
	var (
		wantReport = b.isReportCommand(msg.Text)
		increment  = strings.Contains(msg.Text, subject.Increment)
		decrement  = strings.Contains(msg.Text, subject.Decrement)
	)

	if !wantReport && !increment && !decrement {
		return
	}

	roster := b.roster()

	if wantReport {
		b.sendLeaderboard(msg, roster)
	}
	if increment {
		b.givePoints(msg, roster, subject.Increment, ledger.Increment)
	}
	if decrement {
		b.givePoints(msg, roster, subject.Decrement, ledger.Decrement)
	}
}

func (b *Bot) isReportCommand(text string) bool {
	userID, _ := b.identity()
	if userID == "" || !strings.Contains(text, userID) {
		return false
	}

	lower := strings.ToLower(text)
	for keyword := range b.Config.Keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}

	return false
}

// roster falls back to an empty roster when the user list cannot be
// fetched, so every subject is scored as a literal label.
func (b *Bot) roster() subject.Roster {
	users, err := b.Config.Slack.GetUsers()
	if err != nil {
		b.Config.Log.Err(err).Error("could not fetch slack users")
		return subject.Roster{}
	}

	return RosterFromUsers(users)
}

func (b *Bot) givePoints(msg *Message, roster subject.Roster, trigger string, delta ledger.Delta) {
	ll := b.Config.Log.KV("team", msg.TeamID).KV("channel", msg.Channel)

	raw, ok := subject.Extract(msg.Text, trigger, subject.MentionMarker)
	if !ok {
		b.Config.Metrics.ExtractionMissed()
		if b.Config.Debug {
			ll.KV("trigger", trigger).Info("no subject mentioned before trigger")
		}
		return
	}

	to := subject.Resolve(raw, roster)
	points, err := b.Config.Ledgers.Score(msg.TeamID, to.Key, delta)
	if err != nil {
		ll.Err(err).KV("subject", to.Key).Error("could not apply score")
		return
	}

	b.Config.Metrics.ScoreApplied(int(delta))
	b.Config.Metrics.SetTeams(len(b.Config.Ledgers.Teams()))

	ll = ll.KV("subject", to.Key).KV("kind", to.Kind.String())
	ll.KV("points", points).Info("applied score")

	if b.Config.DB == nil {
		return
	}

	err = b.Config.DB.InsertPoints(&database.Points{
		Team:   msg.TeamID,
		From:   msg.User,
		To:     to.Key,
		Points: int(delta),
		Reason: reason(msg.Text, trigger),
	})
	if err != nil {
		ll.Err(err).Error("could not record score history")
	}
}

// reason is whatever follows the trigger, minus a leading "for".
func reason(text, trigger string) string {
	i := strings.Index(text, trigger)
	if i < 0 {
		return ""
	}

	r := strings.TrimSpace(text[i+len(trigger):])
	if strings.HasPrefix(r, "for ") {
		r = strings.TrimSpace(r[len("for "):])
	}

	return r
}

func (b *Bot) sendLeaderboard(msg *Message, roster subject.Roster) {
	ll := b.Config.Log.KV("team", msg.TeamID).KV("channel", msg.Channel)

	entries, err := b.Config.Ledgers.Snapshot(msg.TeamID)
	if errors.Is(err, ledger.ErrNoLedger) {
		b.Config.Metrics.Report(metrics.ReportNoLedger)
		ll.Info("no leaderboard for this team yet")
		return
	}
	if err != nil {
		ll.Err(err).Error("could not read leaderboard")
		return
	}

	r := report.Render(entries, roster, b.Config.LeaderboardLimit)
	attachment := b.leaderboardAttachment(msg.TeamID, r)

	err = b.Config.Slack.SendAttachment(msg.Channel, attachment)
	if err != nil {
		b.Config.Metrics.Report(metrics.ReportFailed)
		ll.Err(err).Error("leaderboard failed to post")
		return
	}

	b.Config.Metrics.Report(metrics.ReportSent)
}

func (b *Bot) leaderboardAttachment(teamID string, r *report.Report) slack.Attachment {
	attachment := slack.Attachment{
		Fallback: AttachmentTitle,
		Title:    AttachmentTitle,
		Color:    AttachmentColor,
		Fields: []slack.AttachmentField{
			{Title: TopFieldTitle, Value: r.Top, Short: true},
			{Title: BottomFieldTitle, Value: r.Bottom, Short: true},
		},
	}

	URL, err := b.Config.UI.GetURL("/leaderboard/" + teamID)
	if err != nil {
		b.Config.Log.Err(err).Error("could not get web ui url")
	} else if URL != "" {
		attachment.TitleLink = URL
	}

	return attachment
}
