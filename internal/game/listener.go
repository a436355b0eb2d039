package game

import (
	"time"

	"github.com/jscyril/golang_music_quiz/api"
	"github.com/jscyril/golang_music_quiz/internal/playback"
)

// manualNotice is shown when playback falls back to the manual widget
const manualNotice = "Use the manual player to listen!"

var _ playback.Listener = (*Controller)(nil)

func (c *Controller) SnippetLoading(track *api.Track) {
	d := c.session.Difficulty.SnippetDuration()
	c.events.Publish(api.QuizEvent{Type: api.EventSnippetLoading, Payload: api.Progress{Remaining: d, Total: d}})
}

func (c *Controller) SnippetStarted(track *api.Track, total time.Duration) {
	c.events.Publish(api.QuizEvent{Type: api.EventSnippetStarted, Payload: api.Progress{Remaining: total, Total: total}})
}

func (c *Controller) SnippetProgress(progress api.Progress) {
	c.events.Publish(api.QuizEvent{Type: api.EventSnippetProgress, Payload: progress})
}

func (c *Controller) SnippetEnded(track *api.Track) {
	d := c.session.Difficulty.SnippetDuration()
	c.events.Publish(api.QuizEvent{Type: api.EventSnippetEnded, Payload: api.Progress{Remaining: d, Total: d}})
}

func (c *Controller) FallbackActivated(track *api.Track) {
	view := fallbackView(track, false)
	view.Notice = manualNotice
	c.events.Publish(api.QuizEvent{Type: api.EventFallback, Payload: view})
}

func (c *Controller) ManualPlayback(track *api.Track, playing bool) {
	c.events.Publish(api.QuizEvent{Type: api.EventFallback, Payload: fallbackView(track, playing)})
}

func (c *Controller) Notice(message string) {
	c.events.Publish(api.QuizEvent{Type: api.EventNotice, Payload: message})
}

func fallbackView(track *api.Track, playing bool) api.FallbackView {
	view := api.FallbackView{Playing: playing}
	if track != nil {
		view.TrackID = track.ID
		view.Source = track.Source
	}
	return view
}
