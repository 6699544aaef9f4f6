package classify

import (
	"testing"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

func TestClassifyEmail(t *testing.T) {
	text := `From: sarah@corp.com
To: team@corp.com
Subject: Authentication requirements

The system must support OAuth2 login.

Regards,
Sarah`
	if got := Classify(text); got != model.ChannelEmail {
		t.Errorf("Classify() = %v, want %v", got, model.ChannelEmail)
	}
}

func TestClassifyMeeting(t *testing.T) {
	text := `Meeting Transcript
Attendees: Sarah, Mike, Priya
Agenda: sprint planning

We discussed the rollout plan for Q3.
Action items: Mike to draft the migration doc.`
	if got := Classify(text); got != model.ChannelMeeting {
		t.Errorf("Classify() = %v, want %v", got, model.ChannelMeeting)
	}
}

func TestClassifyChat(t *testing.T) {
	text := `[2025-03-01 10:42] @mike: the staging deploy is green
[2025-03-01 10:44] @sarah: nice, shipping to prod
[2025-03-01 10:45] @mike: ack`
	if got := Classify(text); got != model.ChannelChat {
		t.Errorf("Classify() = %v, want %v", got, model.ChannelChat)
	}
}

func TestClassifyDefaultsToEmail(t *testing.T) {
	if got := Classify("no structural markers anywhere in this text"); got != model.ChannelEmail {
		t.Errorf("Classify() = %v, want %v", got, model.ChannelEmail)
	}
}
