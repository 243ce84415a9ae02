package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/ytmusic-downloader/internal/config"
	"github.com/handiism/ytmusic-downloader/internal/download"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	settings := config.DefaultSettings()
	settings.DownloadsPath = t.TempDir()

	m := NewModel(settings)
	m.newManager = func(s *config.Settings, onProgress func(download.ProgressEvent)) *download.Manager {
		return download.NewManagerWithServices(s, download.Services{}, onProgress)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func sampleResults() []model.SearchResult {
	return []model.SearchResult{
		{VideoID: "dQw4w9WgXcQ", Title: "Never Gonna Give You Up", Artists: model.NewArtists("Rick Astley"), Album: "Whenever You Need Somebody", DurationMs: 213000},
		{VideoID: "fJ9rUzIMcZQ", Title: "Bohemian Rhapsody", Artists: model.NewArtists("Queen"), DurationMs: 354000},
	}
}

func TestModel_Toggles(t *testing.T) {
	m := newTestModel(t)
	if m.createPlaylist || m.verbose {
		t.Fatal("toggles should start off")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if !m.createPlaylist || !m.verbose {
		t.Errorf("createPlaylist=%v verbose=%v, want both true", m.createPlaylist, m.verbose)
	}
	if m.textInput.Value() != "" {
		t.Errorf("toggle keys leaked into input: %q", m.textInput.Value())
	}
}

func TestModel_Submit(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantState State
		wantErr   bool
	}{
		{name: "track url", input: "https://music.youtube.com/watch?v=dQw4w9WgXcQ", wantState: StateDownloading},
		{name: "bare id", input: "dQw4w9WgXcQ", wantState: StateDownloading},
		{name: "playlist url", input: "https://music.youtube.com/playlist?list=PL123", wantState: StateDownloading},
		{name: "query", input: "never gonna give you up", wantState: StateSearching},
		{name: "foreign host", input: "https://example.com/watch?v=dQw4w9WgXcQ", wantState: StateError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.textInput.SetValue(tt.input)

			m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			if m.state != tt.wantState {
				t.Fatalf("state = %d, want %d", m.state, tt.wantState)
			}
			if tt.wantErr {
				if !errors.Is(m.err, model.ErrInvalidIdentifier) {
					t.Errorf("err = %v, want ErrInvalidIdentifier", m.err)
				}
				return
			}
			if m.manager == nil {
				t.Error("manager was not created")
			}
		})
	}
}

func TestModel_PlaylistLabel(t *testing.T) {
	m := newTestModel(t)
	m.textInput.SetValue("https://music.youtube.com/playlist?list=PL123")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.target != "playlist PL123" {
		t.Errorf("target = %q", m.target)
	}
}

func TestModel_SearchToPick(t *testing.T) {
	m := newTestModel(t)
	m.textInput.SetValue("rick")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = update(t, m, SearchDoneMsg{Query: "rick", Results: sampleResults()})
	if m.state != StatePicking {
		t.Fatalf("state = %d, want StatePicking", m.state)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateDownloading {
		t.Fatalf("state = %d, want StateDownloading", m.state)
	}
	if !strings.HasPrefix(m.target, "Never Gonna Give You Up - Rick Astley") {
		t.Errorf("target = %q", m.target)
	}
}

func TestModel_SearchOutcomes(t *testing.T) {
	tests := []struct {
		name string
		msg  SearchDoneMsg
	}{
		{name: "error", msg: SearchDoneMsg{Query: "x", Err: model.ErrStreamingUnavailable}},
		{name: "no results", msg: SearchDoneMsg{Query: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.state = StateSearching
			m = update(t, m, tt.msg)
			if m.state != StateError || m.err == nil {
				t.Errorf("state=%d err=%v, want StateError with an error", m.state, m.err)
			}
		})
	}
}

func TestModel_PickEscapeReturnsToInput(t *testing.T) {
	m := newTestModel(t)
	m.state = StateSearching
	m = update(t, m, SearchDoneMsg{Query: "rick", Results: sampleResults()})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.state != StateInput {
		t.Errorf("state = %d, want StateInput", m.state)
	}
}

func TestModel_DownloadDone(t *testing.T) {
	m := newTestModel(t)
	m.state = StateDownloading

	done := update(t, m, DownloadDoneMsg{Downloads: []model.Download{{}}})
	if done.state != StateComplete {
		t.Errorf("state = %d, want StateComplete", done.state)
	}

	failed := update(t, m, DownloadDoneMsg{Err: model.ErrTranscodeFailure})
	if failed.state != StateError || !errors.Is(failed.err, model.ErrTranscodeFailure) {
		t.Errorf("state=%d err=%v", failed.state, failed.err)
	}

	again := update(t, failed, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if again.state != StateInput || again.err != nil {
		t.Errorf("reset: state=%d err=%v", again.state, again.err)
	}
}

func TestModel_Logs(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "hidden", Level: download.LevelVerbose}})
	if len(m.logs) != 0 {
		t.Fatalf("verbose event shown without verbose mode: %v", m.logs)
	}

	for i := 0; i < maxLogs+5; i++ {
		m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "line", Level: download.LevelInfo}})
	}
	if len(m.logs) != maxLogs {
		t.Errorf("len(logs) = %d, want %d", len(m.logs), maxLogs)
	}
}

func TestModel_Percent(t *testing.T) {
	tests := []struct {
		name     string
		received int64
		total    int64
		done     int32
		files    int32
		want     float64
	}{
		{name: "nothing", want: 0},
		{name: "bytes", received: 50, total: 200, files: 1, want: 0.25},
		{name: "bytes overshoot", received: 300, total: 200, files: 2, want: 1},
		{name: "files only", done: 1, files: 4, want: 0.25},
		{name: "all files done", received: 10, total: 200, done: 2, files: 2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{receivedBytes: tt.received, totalBytes: tt.total, downloadedFiles: tt.done, totalFiles: tt.files}
			if got := m.percent(); got != tt.want {
				t.Errorf("percent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultItem_Description(t *testing.T) {
	results := sampleResults()
	tests := []struct {
		result model.SearchResult
		want   string
	}{
		{result: results[0], want: "Rick Astley · Whenever You Need Somebody · 3:33"},
		{result: results[1], want: "Queen · 5:54"},
		{result: model.SearchResult{Title: "x", Artists: model.NewArtists("A", "B")}, want: "A, B"},
	}

	for _, tt := range tests {
		if got := (resultItem{result: tt.result}).Description(); got != tt.want {
			t.Errorf("Description() = %q, want %q", got, tt.want)
		}
	}
}

func TestPickerModel_Enter(t *testing.T) {
	pm := pickerModel{list: newResultList("q", sampleResults(), 0, 0)}

	next, cmd := pm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := next.(pickerModel)
	if !got.picked || got.chosen.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("picked=%v chosen=%+v", got.picked, got.chosen)
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestPickerModel_Cancel(t *testing.T) {
	pm := pickerModel{list: newResultList("q", sampleResults(), 0, 0)}

	next, _ := pm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	got := next.(pickerModel)
	if got.picked || !got.quitting {
		t.Errorf("picked=%v quitting=%v", got.picked, got.quitting)
	}
}
