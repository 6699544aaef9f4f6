package usecase

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/noise"
	"github.com/iWorld-y/brd_agent/app/display/internal/domain"
)

// mockBRDRepo 模拟 BRD 仓库
type mockBRDRepo struct {
	saved    map[string][]*model.BRD
	comms    map[string]model.Document
	lastComm model.Document
}

func newMockBRDRepo() *mockBRDRepo {
	return &mockBRDRepo{
		saved: map[string][]*model.BRD{},
		comms: map[string]model.Document{},
	}
}

func (m *mockBRDRepo) SaveCommunication(ctx context.Context, doc model.Document) error {
	m.comms[doc.ID] = doc
	m.lastComm = doc
	return nil
}

func (m *mockBRDRepo) GetCommunication(ctx context.Context, id string) (model.Document, error) {
	return m.comms[id], nil
}

func (m *mockBRDRepo) SaveExtraction(ctx context.Context, commID string, brd *model.BRD) (int, error) {
	m.saved[commID] = append(m.saved[commID], brd)
	return len(m.saved[commID]), nil
}

func (m *mockBRDRepo) GetExtraction(ctx context.Context, commID string, version int) (*model.BRD, int, error) {
	versions := m.saved[commID]
	if version <= 0 {
		version = len(versions)
	}
	return versions[version-1], version, nil
}

func (m *mockBRDRepo) ListExtractions(ctx context.Context, limit int) ([]*domain.BRDSummary, error) {
	return []*domain.BRDSummary{{CommID: "c1", Version: 1, ProjectTopic: "Test Topic"}}, nil
}

func (m *mockBRDRepo) SearchExtractions(ctx context.Context, query string, limit int) ([]*domain.BRDSummary, error) {
	return nil, nil
}

func (m *mockBRDRepo) GetStats(ctx context.Context) (domain.Stats, error) {
	return domain.Stats{Communications: len(m.comms), Extractions: len(m.saved)}, nil
}

// mockExtractor 模拟提取引擎
type mockExtractor struct{}

func (m *mockExtractor) Extract(ctx context.Context, text string, channel model.ChannelType) (*model.BRD, error) {
	return &model.BRD{ProjectTopic: "Extracted Topic", ChannelType: channel}, nil
}

func (m *mockExtractor) Refine(ctx context.Context, brd *model.BRD, instruction string) (*model.BRD, error) {
	refined := *brd
	refined.ChangeSummary = "refined"
	return &refined, nil
}

func (m *mockExtractor) Simulate(ctx context.Context, brd *model.BRD, scenario string) (*model.SimulationResult, error) {
	return &model.SimulationResult{NewHealthScore: 60}, nil
}

func (m *mockExtractor) GenerateReport(ctx context.Context, brd *model.BRD) (string, error) {
	return "## Summary", nil
}

func newTestUseCase(repo *mockBRDRepo) *BRDUseCase {
	return NewBRDUseCase(repo, &mockExtractor{}, noise.NewScorer(0), log.DefaultLogger)
}

func TestBRDUseCase_ProcessText(t *testing.T) {
	uc := newTestUseCase(newMockBRDRepo())

	brd, err := uc.ProcessText(context.Background(), "The system must support exports.", "")
	if err != nil {
		t.Errorf("ProcessText() error = %v", err)
		return
	}
	if brd.ProjectTopic != "Extracted Topic" {
		t.Errorf("ProcessText() topic = %v", brd.ProjectTopic)
	}
	if brd.MarkdownReport != "## Summary" {
		t.Errorf("ProcessText() report = %v", brd.MarkdownReport)
	}

	// 显式渠道透传给引擎
	brd, err = uc.ProcessText(context.Background(), "Attendees: Sarah\nNotes.", model.ChannelMeeting)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}
	if brd.ChannelType != model.ChannelMeeting {
		t.Errorf("ProcessText() channel = %v, want meeting", brd.ChannelType)
	}
}

func TestBRDUseCase_IngestAndProcess(t *testing.T) {
	repo := newMockBRDRepo()
	uc := newTestUseCase(repo)

	doc, err := uc.Ingest(context.Background(), IngestInput{
		Content: "From: a@b.com\nSubject: Plan\n\nThe plan must be reviewed this sprint by the whole team.",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if doc.ID == "" || doc.Type != model.ChannelEmail {
		t.Errorf("Ingest() doc = %+v", doc)
	}

	brd, version, err := uc.Process(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if version != 1 {
		t.Errorf("Process() version = %d, want 1", version)
	}
	if brd.Source == nil || brd.Source.SourceChannel != model.ChannelEmail {
		t.Errorf("Process() source = %+v", brd.Source)
	}

	// 二次提取得到新版本
	_, version, err = uc.Process(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if version != 2 {
		t.Errorf("Process() version = %d, want 2", version)
	}
}

func TestBRDUseCase_IngestExplicitMetadata(t *testing.T) {
	repo := newMockBRDRepo()
	uc := newTestUseCase(repo)

	doc, err := uc.Ingest(context.Background(), IngestInput{
		Type:       model.ChannelMeeting,
		Subject:    "Weekly sync",
		Sender:     "alice@corp.com",
		Recipients: []string{"bob@corp.com"},
		Content:    "Discussed the rollout requirement and the next milestone.",
		Source:     "upload",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if doc.Type != model.ChannelMeeting {
		t.Errorf("Type = %v, want explicit meeting", doc.Type)
	}
	if doc.Subject != "Weekly sync" || doc.Sender != "alice@corp.com" {
		t.Errorf("metadata not applied: %+v", doc)
	}
	if doc.SourceDataset != "upload" {
		t.Errorf("SourceDataset = %q, want upload", doc.SourceDataset)
	}
	if repo.lastComm.ID != doc.ID {
		t.Error("document not persisted")
	}
}

func TestBRDUseCase_RefineSavesNewVersion(t *testing.T) {
	repo := newMockBRDRepo()
	uc := newTestUseCase(repo)

	repo.saved["c1"] = []*model.BRD{{ProjectTopic: "v1"}}
	refined, version, err := uc.Refine(context.Background(), "c1", "tighten wording")
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if version != 2 {
		t.Errorf("Refine() version = %d, want 2", version)
	}
	if refined.ChangeSummary != "refined" {
		t.Errorf("Refine() brd = %+v", refined)
	}
}

func TestBRDUseCase_List(t *testing.T) {
	uc := newTestUseCase(newMockBRDRepo())

	items, err := uc.List(context.Background(), 10)
	if err != nil {
		t.Errorf("List() error = %v", err)
		return
	}
	if len(items) != 1 || items[0].ProjectTopic != "Test Topic" {
		t.Errorf("List() items = %v", items)
	}
}
