package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

// resultItem adapts a search result to the list component.
type resultItem struct {
	result model.SearchResult
}

func (i resultItem) Title() string { return i.result.Title }

func (i resultItem) Description() string {
	desc := i.result.Artists.String()
	if i.result.Album != "" {
		desc += " · " + i.result.Album
	}
	if i.result.DurationMs > 0 {
		s := i.result.DurationMs / 1000
		desc += fmt.Sprintf(" · %d:%02d", s/60, s%60)
	}
	return desc
}

func (i resultItem) FilterValue() string { return i.result.Label() }

func resultItems(results []model.SearchResult) []list.Item {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = resultItem{result: r}
	}
	return items
}

// newResultList builds the list used to pick a search result.
func newResultList(query string, results []model.SearchResult, width, height int) list.Model {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 20
	}
	l := list.New(resultItems(results), list.NewDefaultDelegate(), width, height)
	l.Title = fmt.Sprintf("Results for %q", query)
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(true)
	return l
}

// selectedResult returns the highlighted result, if any.
func selectedResult(l list.Model) (model.SearchResult, bool) {
	item, ok := l.SelectedItem().(resultItem)
	if !ok {
		return model.SearchResult{}, false
	}
	return item.result, true
}

// pickerModel is a standalone program that lets the user choose one result.
type pickerModel struct {
	list     list.Model
	chosen   model.SearchResult
	picked   bool
	quitting bool
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if r, ok := selectedResult(m.list); ok {
				m.chosen, m.picked = r, true
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.picked || m.quitting {
		return ""
	}
	return m.list.View() + "\n" + dimStyle.Render("enter: download • /: filter • esc: cancel")
}

// Pick shows results in an interactive list and returns the chosen one.
// ok is false when the user cancels.
//
// Example:
//
//	results, _ := manager.Search(ctx, "never gonna give you up")
//	r, ok, err := tui.Pick("never gonna give you up", results)
//	if ok {
//	    manager.DownloadTrack(ctx, r.VideoID)
//	}
func Pick(query string, results []model.SearchResult) (model.SearchResult, bool, error) {
	if len(results) == 0 {
		return model.SearchResult{}, false, nil
	}

	final, err := tea.NewProgram(pickerModel{list: newResultList(query, results, 0, 0)}).Run()
	if err != nil {
		return model.SearchResult{}, false, err
	}
	pm := final.(pickerModel)
	return pm.chosen, pm.picked, nil
}
