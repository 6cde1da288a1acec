package cmd

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/graceinfra/zoscore/internal/paths"
	"github.com/graceinfra/zoscore/internal/zowe"
)

var zoweProfiles = zowe.ListProfiles

// InitAnswers feed files/zoscore.yml.tmpl.
type InitAnswers struct {
	HLQ       string
	Profile   string
	WaitTimeS int
	RecordDir string
}

type initModel struct {
	inputs   []textinput.Model
	focusIdx int
	canceled bool
	done     bool
}

func initialInitModel(profileDefault string) initModel {
	hlq := textinput.New()
	hlq.Placeholder = paths.DefaultHLQ()
	hlq.Focus()
	hlq.CharLimit = 8
	hlq.Width = 20

	profile := textinput.New()
	profile.Placeholder = profileDefault
	profile.CharLimit = 32
	profile.Width = 20

	wait := textinput.New()
	wait.Placeholder = "10"
	wait.CharLimit = 5
	wait.Width = 20
	wait.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		_, err := strconv.Atoi(s)
		return err
	}

	record := textinput.New()
	record.Placeholder = ".zoscore/records"
	record.CharLimit = 128
	record.Width = 32

	return initModel{
		inputs: []textinput.Model{hlq, profile, wait, record},
	}
}

func (m initModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m initModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			m.done = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "tab", "shift+tab", "down", "up":
			if msg.String() == "up" || msg.String() == "shift+tab" {
				m.focusIdx--
			} else {
				m.focusIdx++
			}
			if m.focusIdx >= len(m.inputs) {
				m.focusIdx = 0
			} else if m.focusIdx < 0 {
				m.focusIdx = len(m.inputs) - 1
			}
			for i := range m.inputs {
				if i == m.focusIdx {
					m.inputs[i].Focus()
				} else {
					m.inputs[i].Blur()
				}
			}
			return m, nil
		}
	}

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m initModel) View() string {
	s := "\n"
	labels := []string{"Temporary HLQ", "Zowe profile", "Job wait time (s)", "Record directory"}

	for i, input := range m.inputs {
		s += labels[i] + ": " + input.View() + "\n"
	}

	s += "\n[Enter] to continue • [Esc] to cancel\n"
	return s
}

// answers reads the inputs, falling back to each placeholder.
func (m initModel) answers() InitAnswers {
	value := func(i int) string {
		if v := m.inputs[i].Value(); v != "" {
			return v
		}
		return m.inputs[i].Placeholder
	}

	wait, err := strconv.Atoi(value(2))
	if err != nil || wait < 0 {
		wait = 10
	}
	return InitAnswers{
		HLQ:       value(0),
		Profile:   value(1),
		WaitTimeS: wait,
		RecordDir: value(3),
	}
}

func RunInitTUI(profileDefault string) (InitAnswers, bool) {
	p := tea.NewProgram(initialInitModel(profileDefault))
	m, err := p.Run()
	if err != nil {
		return InitAnswers{}, true
	}

	final := m.(initModel)
	if final.canceled {
		return InitAnswers{}, true
	}
	return final.answers(), false
}
