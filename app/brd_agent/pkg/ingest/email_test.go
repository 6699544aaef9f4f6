package ingest

import (
	"reflect"
	"testing"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

func TestParseEmail(t *testing.T) {
	raw := `From: sarah@corp.com
To: mike@corp.com, dave (external), priya@corp.com
Cc: lead@corp.com
Subject: Launch requirements
Date: 2025-03-01

The launch must happen before end of quarter.`

	doc := ParseEmail(raw)
	if doc.Sender != "sarah@corp.com" {
		t.Errorf("Sender = %q", doc.Sender)
	}
	if doc.Subject != "Launch requirements" {
		t.Errorf("Subject = %q", doc.Subject)
	}
	if doc.Timestamp != "2025-03-01" {
		t.Errorf("Timestamp = %q", doc.Timestamp)
	}
	wantRecipients := []string{"mike@corp.com", "priya@corp.com", "lead@corp.com"}
	if !reflect.DeepEqual(doc.Recipients, wantRecipients) {
		t.Errorf("Recipients = %v, want %v", doc.Recipients, wantRecipients)
	}
	if doc.Content != "The launch must happen before end of quarter." {
		t.Errorf("Content = %q", doc.Content)
	}
}

func TestParseEmailNoHeaders(t *testing.T) {
	doc := ParseEmail("just a plain note with no header block")
	if doc.Content != "just a plain note with no header block" {
		t.Errorf("Content = %q", doc.Content)
	}
	if doc.Sender != "" || len(doc.Recipients) != 0 {
		t.Errorf("unexpected header fields: %+v", doc)
	}
}

func TestNewDocumentEmail(t *testing.T) {
	raw := `From: sarah@corp.com
To: team@corp.com
Subject: Budget approval

The budget requirement must be approved this sprint.

Regards,
Sarah`
	doc := NewDocument(raw, "mail_001.txt", nil)
	if doc.Type != model.ChannelEmail {
		t.Errorf("Type = %v, want email", doc.Type)
	}
	if doc.ID == "" {
		t.Error("ID not assigned")
	}
	if doc.SourceDataset != "mail_001.txt" {
		t.Errorf("SourceDataset = %q", doc.SourceDataset)
	}
	if doc.Sender != "sarah@corp.com" {
		t.Errorf("Sender = %q", doc.Sender)
	}
}
