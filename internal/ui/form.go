// =============================================================================
// Requerimento - Terminal Form
// =============================================================================
//
// The interactive surface: a terminal form with live input masking and a
// progress bar. The form holds no business logic; every submission goes
// through the controller, and validation errors come back as field messages.
//
// KEYS:
//   tab / shift+tab / up / down   move between fields
//   enter                         next field; on the last field, submit
//   ctrl+s                        submit from anywhere
//   esc / ctrl+c                  quit
//
// =============================================================================

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/edu-secretaria/requerimento/internal/config"
	"github.com/edu-secretaria/requerimento/internal/controller"
	"github.com/edu-secretaria/requerimento/internal/types"
	"github.com/edu-secretaria/requerimento/internal/validation"
)

// Field order: configuration header first, then the record fields.
const (
	fSigla = iota
	fAno
	fNome
	fID
	fCPF
	fCurso
	fTurma
	fOferta
	fChamado
	fData
	fRetorno
	fieldCount
)

// fieldSpec describes one form field.
type fieldSpec struct {
	label    string
	required bool
	digits   bool // live digit-only masking while typing
	maxLen   int  // 0 = unlimited
}

// submitDoneMsg carries the controller outcome back into the update loop.
type submitDoneMsg struct {
	res *types.Result
	err error
}

// Model is the bubbletea model for the form.
type Model struct {
	cfg  *config.Config
	ctrl *controller.Controller

	specs  [fieldCount]fieldSpec
	inputs [fieldCount]textinput.Model
	focus  int

	progress   progress.Model
	submitting bool

	status    string
	statusErr bool

	styleTitle lipgloss.Style
	styleHint  lipgloss.Style
	styleLabel lipgloss.Style
	styleOK    lipgloss.Style
	styleErr   lipgloss.Style
}

// New builds the form model for the given configuration.
func New(cfg *config.Config, log *zap.Logger) Model {
	m := Model{
		cfg:      cfg,
		ctrl:     controller.New(cfg, log),
		progress: progress.New(progress.WithDefaultGradient()),

		styleTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		styleHint:  lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		styleLabel: lipgloss.NewStyle().Width(22),
		styleOK:    lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		styleErr:   lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}

	m.specs = [fieldCount]fieldSpec{
		fSigla:   {label: "SIGLA do setor *", required: true},
		fAno:     {label: "Ano do protocolo", digits: true, maxLen: 4},
		fNome:    {label: "NOME *", required: true},
		fID:      {label: fmt.Sprintf("ID * (máx %d)", cfg.Valid.ID), required: true, digits: true, maxLen: cfg.Valid.ID},
		fCPF:     {label: fmt.Sprintf("CPF * (%d dígitos)", cfg.Valid.CPF), required: true, digits: true, maxLen: cfg.Valid.CPF},
		fCurso:   {label: "CURSO *", required: true},
		fTurma:   {label: "TURMA *", required: true},
		fOferta:  {label: fmt.Sprintf("Código da oferta * (máx %d)", cfg.Valid.Oferta), required: true, digits: true, maxLen: cfg.Valid.Oferta},
		fChamado: {label: "N chamado", digits: true},
		fData:    {label: "Data *"},
		fRetorno: {label: "retorno (Previsão)"},
	}

	hoje := time.Now().Format(validation.DateLayout)
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 40
		if m.specs[i].maxLen > 0 {
			in.CharLimit = m.specs[i].maxLen
		}
		m.inputs[i] = in
	}
	m.inputs[fSigla].SetValue(cfg.Sigla)
	m.inputs[fAno].SetValue(cfg.Ano)
	m.inputs[fData].SetValue(hoje)
	m.inputs[fRetorno].SetValue(hoje)

	m.focus = fNome
	m.inputs[m.focus].Focus()
	return m
}

// Run starts the form program and blocks until the user quits.
func Run(cfg *config.Config, log *zap.Logger) error {
	_, err := tea.NewProgram(New(cfg, log)).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 4
		if w > 0 && w < 80 {
			m.progress.Width = w
		}
		return m, nil

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = msg.err.Error()
			m.statusErr = true
			return m, m.progress.SetPercent(0)
		}
		m.statusErr = false
		m.status = m.renderOutcome(msg.res)
		m.clearRecordFields()
		return m, m.progress.SetPercent(1.0)

	case tea.KeyMsg:
		if m.submitting {
			// A submission is in flight; only quitting is allowed.
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			if m.focus == fieldCount-1 {
				return m.startSubmit()
			}
			m.setFocus(m.focus + 1)
			return m, nil
		case "ctrl+s":
			return m.startSubmit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.specs[m.focus].digits {
		m.maskDigits(m.focus)
	}
	return m, cmd
}

// setFocus blurs the current field and focuses the target.
func (m *Model) setFocus(target int) {
	m.inputs[m.focus].Blur()
	m.focus = target
	m.inputs[m.focus].Focus()
}

// maskDigits keeps a digit-only field digit-only as the user types.
func (m *Model) maskDigits(i int) {
	v := m.inputs[i].Value()
	masked := validation.DigitsOnly(v)
	if max := m.specs[i].maxLen; max > 0 && len(masked) > max {
		masked = masked[:max]
	}
	if masked != v {
		m.inputs[i].SetValue(masked)
		m.inputs[i].CursorEnd()
	}
}

// startSubmit kicks off one submission through the controller.
func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	m.submitting = true
	m.status = ""
	m.statusErr = false

	// The header fields override sigla/ano for this and later submissions.
	m.cfg.Sigla = config.SanitizeSigla(m.inputs[fSigla].Value())
	if ano := strings.TrimSpace(m.inputs[fAno].Value()); ano != "" {
		m.cfg.Ano = ano
	}

	raw := types.RawSubmission{
		Nome:    m.inputs[fNome].Value(),
		Chamado: m.inputs[fChamado].Value(),
		ID:      m.inputs[fID].Value(),
		CPF:     m.inputs[fCPF].Value(),
		Curso:   m.inputs[fCurso].Value(),
		Turma:   m.inputs[fTurma].Value(),
		Oferta:  m.inputs[fOferta].Value(),
		Data:    m.inputs[fData].Value(),
		Retorno: m.inputs[fRetorno].Value(),
	}

	ctrl := m.ctrl
	return m, tea.Batch(
		m.progress.SetPercent(0.25),
		func() tea.Msg {
			res, err := ctrl.Submit(raw)
			return submitDoneMsg{res: res, err: err}
		},
	)
}

// renderOutcome builds the status line for a finished submission.
func (m Model) renderOutcome(res *types.Result) string {
	out := res.SecondaryPath
	if out == "" {
		out = res.PrimaryPath
	}
	if res.Reused {
		return fmt.Sprintf("Já cadastrado (N req. %d). Arquivo: %s", res.Protocolo, out)
	}
	s := fmt.Sprintf("Linha adicionada (N req. %d). Arquivo: %s", res.Protocolo, out)
	if res.PartialSuccess() {
		s += " (PDF não gerado: conversor indisponível)"
	}
	return s
}

// clearRecordFields clears everything except the configuration header and
// the date fields, so batches of submissions on the same day flow quickly.
func (m *Model) clearRecordFields() {
	for _, i := range []int{fNome, fID, fCPF, fCurso, fTurma, fOferta, fChamado} {
		m.inputs[i].SetValue("")
	}
	m.setFocus(fNome)
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styleTitle.Render(fmt.Sprintf(" %s – Formulário de Requerimento ", m.cfg.Sigla)))
	sb.WriteString("\n")
	sb.WriteString(m.styleHint.Render(" Campos marcados com * são obrigatórios."))
	sb.WriteString("\n\n")

	for i := 0; i < fieldCount; i++ {
		marker := "  "
		if i == m.focus {
			marker = "> "
		}
		sb.WriteString(marker)
		sb.WriteString(m.styleLabel.Render(m.specs[i].label))
		sb.WriteString(" ")
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n")
		if i == fAno {
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.progress.View())
	sb.WriteString("\n")

	if m.status != "" {
		style := m.styleOK
		if m.statusErr {
			style = m.styleErr
		}
		sb.WriteString(style.Render(m.status))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styleHint.Render(" [Enter] próximo/enviar  [Ctrl+S] enviar  [Esc] sair"))
	sb.WriteString("\n")
	return sb.String()
}
